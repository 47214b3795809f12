package catalog

import (
	"fmt"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/compose"
	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
	"github.com/roman-kulish/vehicle-dashboard/internal/transform"
)

const (
	KindRPMHistogram            KindID = "rpm-histogram"
	KindRPMOverTime             KindID = "rpm-over-time"
	KindCoolantTemperature      KindID = "coolant-temperature"
	KindOilTemperatureHistogram KindID = "oil-temperature-histogram"
	KindOilTemperature          KindID = "oil-temperature"
	KindRPMAndOilTemperature    KindID = "rpm-oil-temperature"
	KindRPMAndEngineLoad        KindID = "rpm-engine-load"
	KindBatteryVoltageHistogram KindID = "battery-voltage-histogram"
	KindBatteryVoltage          KindID = "battery-voltage"
	KindManifoldPressure        KindID = "manifold-pressure"
	KindMassAirFlow             KindID = "mass-air-flow"
	KindEngineParameters3D      KindID = "engine-parameters-3d"
	KindEGRStatus               KindID = "egr-status"
	KindCatalyticConverter      KindID = "catalytic-converter"
	KindBrakeStatus             KindID = "brake-status"
	KindTirePressure            KindID = "tire-pressure"
	KindAmbientTemperature      KindID = "ambient-temperature"
)

// Fixed thresholds. The histogram split and the line alert use different RPM
// limits.
const (
	RPMHistogramThreshold = 6000.0
	RPMAlertThreshold     = 6500.0
	CoolantAlertThreshold = 105.0

	rpmHistogramBins     = 50
	oilHistogramBins     = 30
	batteryHistogramBins = 30

	timeTitle      = "الوقت"
	frequencyTitle = "التكرار"
	rpmTitle       = "دورات المحرك (RPM)"
)

func builtinKinds() []Definition {
	defs := []Definition{
		{
			ID:          KindRPMHistogram,
			Number:      1,
			Name:        "Histogram of Engine RPM",
			Description: "رسم بياني يوضح توزيع دورات المحرك، مع تمييز الدورات العالية والمنخفضة",
			Required:    []telemetry.Column{telemetry.EngineRPM},
			Build:       buildRPMHistogram,
		},
		{
			ID:          KindRPMOverTime,
			Number:      2,
			Name:        "Line Graph of Engine RPM over time",
			Description: "مخطط زمني يظهر تغيرات دورات المحرك مع الوقت، مع تمييز ملون للدورات العالية",
			Required:    []telemetry.Column{telemetry.EngineRPM, telemetry.Timestamp},
			Build:       buildRPMOverTime,
		},
		{
			ID:          KindCoolantTemperature,
			Number:      3,
			Name:        "Line Graph of Coolant Temperature",
			Description: "مخطط درجة حرارة سائل التبريد على مدار الزمن، مع خط تحذير عند 105 درجة مئوية",
			Required:    []telemetry.Column{telemetry.CoolantTemp, telemetry.Timestamp},
			Build:       buildCoolantTemperature,
		},
		{
			ID:          KindOilTemperatureHistogram,
			Number:      4,
			Name:        "Histogram of Oil Temperature",
			Description: "رسم بياني يوضح توزيع درجات حرارة الزيت مع إظهار المتوسط والوسيط",
			Required:    []telemetry.Column{telemetry.OilTemp},
			Build:       buildOilTemperatureHistogram,
		},
		{
			ID:          KindOilTemperature,
			Number:      5,
			Name:        "Line Graph of Oil Temperature",
			Description: "مخطط زمني يظهر تغيرات درجة حرارة الزيت على مدار اليوم",
			Required:    []telemetry.Column{telemetry.OilTemp, telemetry.Timestamp},
			Build: dayLine(KindOilTemperature, telemetry.OilTemp, "درجة حرارة الزيت (°C) بتاريخ %s", "درجة حرارة الزيت (°C)",
				compose.LineStyle{Name: "درجة حرارة الزيت", Color: "darkorange", Mode: chart.ModeLinesMarkers}),
		},
		{
			ID:          KindRPMAndOilTemperature,
			Number:      6,
			Name:        "Line Graph of Engine RPM and Oil Temperature",
			Description: "مخطط مزدوج يظهر العلاقة بين دورات المحرك ودرجة حرارة الزيت",
			Required:    []telemetry.Column{telemetry.EngineRPM, telemetry.OilTemp, telemetry.Timestamp},
			Build: dualLine(KindRPMAndOilTemperature, "العلاقة بين دورات المحرك ودرجة حرارة الزيت",
				telemetry.EngineRPM, compose.AxisSeries{
					Title: rpmTitle,
					Style: compose.LineStyle{Name: "دورات المحرك", Color: "darkgreen", Mode: chart.ModeLinesMarkers},
				},
				telemetry.OilTemp, compose.AxisSeries{
					Title: "درجة حرارة الزيت (°C)",
					Style: compose.LineStyle{Name: "درجة حرارة الزيت", Color: "darkorange", Mode: chart.ModeLinesMarkers},
				}),
		},
		{
			ID:          KindRPMAndEngineLoad,
			Number:      7,
			Name:        "Line Graph of Engine Load Percent & RPM",
			Description: "مخطط مزدوج يظهر العلاقة بين حمل المحرك ودوراته",
			Required:    []telemetry.Column{telemetry.EngineRPM, telemetry.EngineLoadPercent, telemetry.Timestamp},
			Build: dualLine(KindRPMAndEngineLoad, "العلاقة بين دورات المحرك ونسبة الحمل",
				telemetry.EngineRPM, compose.AxisSeries{
					Title: rpmTitle,
					Style: compose.LineStyle{Name: "دورات المحرك", Color: "chocolate"},
				},
				telemetry.EngineLoadPercent, compose.AxisSeries{
					Title: "نسبة حمل المحرك (%)",
					Style: compose.LineStyle{Name: "حمل المحرك (%)", Color: "blue"},
				}),
		},
		{
			ID:          KindBatteryVoltageHistogram,
			Number:      8,
			Name:        "Histogram of Battery Voltage",
			Description: "رسم بياني يوضح توزيع قيم جهد البطارية",
			Required:    []telemetry.Column{telemetry.BatteryVoltage},
			Build:       buildBatteryVoltageHistogram,
		},
		{
			ID:          KindBatteryVoltage,
			Number:      9,
			Name:        "Line Graph of Battery Voltage",
			Description: "مخطط زمني يظهر تغيرات جهد البطارية على مدار اليوم",
			Required:    []telemetry.Column{telemetry.BatteryVoltage, telemetry.Timestamp},
			Build: dayLine(KindBatteryVoltage, telemetry.BatteryVoltage, "جهد البطارية بتاريخ %s", "جهد البطارية (فولت)",
				compose.LineStyle{Name: "جهد البطارية", Color: "teal", Mode: chart.ModeLinesMarkers}),
		},
		{
			ID:          KindManifoldPressure,
			Number:      10,
			Name:        "Line Graph of Manifold Absolute Pressure",
			Description: "مخطط ضغط الهواء داخل مشعب السحب (MAP) مقاساً بالكيلو باسكال",
			Required:    []telemetry.Column{telemetry.ManifoldPressure, telemetry.Timestamp},
			Build: simpleLine(KindManifoldPressure, telemetry.ManifoldPressure, compose.Labels{
				Title:  "ضغط الهواء داخل مشعب السحب (MAP_kPa)",
				YTitle: "الضغط (كيلو باسكال)",
			}, "ضغط مشعب السحب", "purple"),
		},
		{
			ID:          KindMassAirFlow,
			Number:      11,
			Name:        "Line Graph of Mass Air Flow",
			Description: "مخطط زمني لتدفق كتلة الهواء (MAF) مقاساً بالجرام في الثانية",
			Required:    []telemetry.Column{telemetry.MassAirFlow, telemetry.Timestamp},
			Build: simpleLine(KindMassAirFlow, telemetry.MassAirFlow, compose.Labels{
				Title:  "💨 تدفق كتلة الهواء (جرام/ثانية)",
				YTitle: "تدفق كتلة الهواء (جرام/ثانية)",
			}, "تدفق كتلة الهواء", "green"),
		},
		{
			ID:          KindEngineParameters3D,
			Number:      12,
			Name:        "3D Scatter Plot of Engine Parameters",
			Description: "رسم ثلاثي الأبعاد يوضح العلاقة بين دورات المحرك وتوقيت الإشعال وضغط مشعب السحب",
			Required: []telemetry.Column{
				telemetry.EngineRPM,
				telemetry.IgnitionTiming,
				telemetry.ManifoldPressure,
				telemetry.MassAirFlow,
			},
			Build: buildEngineParameters3D,
		},
		{
			ID:          KindEGRStatus,
			Number:      13,
			Name:        "Line Graph of Exhaust Gas Recirculation",
			Description: "مخطط زمني لحالة نظام إعادة تدوير غاز العادم (EGR)",
			Required:    []telemetry.Column{telemetry.EGRStatus, telemetry.Timestamp},
			Build: simpleLine(KindEGRStatus, telemetry.EGRStatus, compose.Labels{
				Title:  "حالة نظام إعادة تدوير غاز العادم (EGR)",
				YTitle: "حالة EGR (مشفرة)",
			}, "حالة EGR", "royalblue"),
		},
		{
			ID:          KindCatalyticConverter,
			Number:      14,
			Name:        "Line Graph of Catalytic Converter Efficiency",
			Description: "مخطط زمني يوضح كفاءة عمل المحول الحفاز",
			Required:    []telemetry.Column{telemetry.CatalyticConverterPercent, telemetry.Timestamp},
			Build: simpleLine(KindCatalyticConverter, telemetry.CatalyticConverterPercent, compose.Labels{
				Title:  "كفاءة عمل المحول الحفاز",
				YTitle: "كفاءة المحول الحفاز (%)",
			}, "كفاءة المحول الحفاز", "teal"),
		},
		{
			ID:          KindBrakeStatus,
			Number:      15,
			Name:        "Line Graph of Brake Status",
			Description: "مخطط زمني يوضح حالة الفرامل",
			Required:    []telemetry.Column{telemetry.BrakeStatus, telemetry.Timestamp},
			Build: simpleLine(KindBrakeStatus, telemetry.BrakeStatus, compose.Labels{
				Title:  "حالة الفرامل",
				YTitle: "حالة الفرامل",
			}, "حالة الفرامل", "royalblue"),
		},
		{
			ID:          KindTirePressure,
			Number:      16,
			Name:        "Line Graph of Tire Pressure",
			Description: "مخطط زمني يوضح ضغط الإطارات بالـ PSI",
			Required:    []telemetry.Column{telemetry.TirePressure, telemetry.Timestamp},
			Build: simpleLine(KindTirePressure, telemetry.TirePressure, compose.Labels{
				Title:  "ضغط إطارات المركبة",
				YTitle: "ضغط الإطارات (PSI)",
			}, "ضغط الإطارات", "indigo"),
		},
		{
			ID:          KindAmbientTemperature,
			Number:      17,
			Name:        "Line Graph of Ambient Temperature",
			Description: "مخطط زمني يوضح درجة الحرارة المحيطة بالمركبة",
			Required:    []telemetry.Column{telemetry.AmbientTemp, telemetry.Timestamp},
			Build: simpleLine(KindAmbientTemperature, telemetry.AmbientTemp, compose.Labels{
				Title:  "درجة الحرارة المحيطة بالمركبة",
				YTitle: "درجة الحرارة (°C)",
			}, "درجة الحرارة المحيطة", "goldenrod"),
		},
	}
	return defs
}

func buildRPMHistogram(table *telemetry.Table) (*chart.Spec, error) {
	values, err := transform.Values(table, telemetry.EngineRPM)
	if err != nil {
		return nil, err
	}
	split := transform.SplitThreshold(values, RPMHistogramThreshold)

	return compose.Histogram(string(KindRPMHistogram),
		compose.Labels{
			Title:  "توزيع دورات المحرك",
			XTitle: rpmTitle,
			YTitle: "العدد",
		},
		[]compose.HistogramSeries{
			{Name: "دورات عادية", Values: split.Normal, Color: "green", Opacity: 0.75},
			{Name: "دورات عالية", Values: split.High, Color: "red", Opacity: 0.75},
		},
		compose.HistogramOptions{
			Bins:    rpmHistogramBins,
			BarMode: compose.BarModeOverlay,
			Legend:  &chart.Legend{Title: "فئة الدورات"},
		}), nil
}

func buildRPMOverTime(table *telemetry.Table) (*chart.Spec, error) {
	series, err := transform.TimeSeries(table, telemetry.EngineRPM)
	if err != nil {
		return nil, err
	}

	return compose.SegmentedLine(string(KindRPMOverTime),
		compose.Labels{
			Title:  "دورات المحرك عبر الزمن",
			XTitle: timeTitle,
			YTitle: rpmTitle,
		},
		series,
		compose.SegmentOptions{
			Threshold:  RPMAlertThreshold,
			TickFormat: "%H:%M:%S",
			TickAngle:  compose.DefaultTickAngle,
		}), nil
}

func buildCoolantTemperature(table *telemetry.Table) (*chart.Spec, error) {
	day, err := transform.FirstDay(table)
	if err != nil {
		return nil, err
	}
	series, err := day.Series(table, telemetry.CoolantTemp)
	if err != nil {
		return nil, err
	}

	return compose.SegmentedLine(string(KindCoolantTemperature),
		compose.Labels{
			Title:  fmt.Sprintf("درجة حرارة سائل التبريد بتاريخ %s", day.Date),
			XTitle: timeTitle,
			YTitle: "درجة حرارة سائل التبريد (°C)",
		},
		series,
		compose.SegmentOptions{
			Threshold:     CoolantAlertThreshold,
			TickAngle:     compose.DefaultTickAngle,
			ThresholdLine: &chart.Line{Color: "red", Width: 2, Dash: "dash"},
		}), nil
}

func buildOilTemperatureHistogram(table *telemetry.Table) (*chart.Spec, error) {
	values, err := transform.Values(table, telemetry.OilTemp)
	if err != nil {
		return nil, err
	}
	summary := transform.Summarize(values)

	return compose.AnnotatedHistogram(string(KindOilTemperatureHistogram),
		compose.Labels{
			Title:  "توزيع درجة حرارة الزيت (°C)",
			XTitle: "درجة حرارة الزيت (°C)",
			YTitle: frequencyTitle,
		},
		compose.HistogramSeries{Name: "توزيع درجة حرارة الزيت", Values: values, Color: "orange", Opacity: 0.6},
		[]compose.Reference{
			{Name: "المتوسط", Value: summary.Mean, Color: "blue", Format: "المتوسط: %.1f°C", Y: 0.95, AX: 50, AY: -30},
			{Name: "الوسيط", Value: summary.Median, Color: "green", Format: "الوسيط: %.1f°C", Y: 0.85, AX: -50, AY: -30},
		},
		compose.HistogramOptions{
			Bins:   oilHistogramBins,
			Legend: &chart.Legend{Y: 0.99, X: 0.01},
		}), nil
}

func buildBatteryVoltageHistogram(table *telemetry.Table) (*chart.Spec, error) {
	values, err := transform.Values(table, telemetry.BatteryVoltage)
	if err != nil {
		return nil, err
	}

	return compose.Histogram(string(KindBatteryVoltageHistogram),
		compose.Labels{
			Title:  "توزيع جهد البطارية",
			XTitle: "جهد البطارية (فولت)",
			YTitle: frequencyTitle,
		},
		[]compose.HistogramSeries{
			{Name: "توزيع جهد البطارية", Values: values, Color: "green", Opacity: 0.75},
		},
		compose.HistogramOptions{Bins: batteryHistogramBins}), nil
}

func buildEngineParameters3D(table *telemetry.Table) (*chart.Spec, error) {
	cloud, err := transform.PointCloud(table,
		telemetry.EngineRPM,
		telemetry.IgnitionTiming,
		telemetry.ManifoldPressure,
		telemetry.MassAirFlow)
	if err != nil {
		return nil, err
	}

	return compose.Scatter3D(string(KindEngineParameters3D),
		"عرض ثلاثي الأبعاد: دورات المحرك مقابل توقيت الإشعال مقابل ضغط المشعب (ملون حسب تدفق الهواء)",
		cloud,
		compose.SceneLabels{
			X:     rpmTitle,
			Y:     "توقيت الإشعال (درجة)",
			Z:     "ضغط المشعب (كيلو باسكال)",
			Color: "تدفق كتلة الهواء (جرام/ثانية)",
		}), nil
}

// dayLine builds a per-day detail chart over the earliest date in the table.
// titleFormat receives the date.
func dayLine(kind KindID, column telemetry.Column, titleFormat, yTitle string, style compose.LineStyle) BuildFunc {
	return func(table *telemetry.Table) (*chart.Spec, error) {
		day, err := transform.FirstDay(table)
		if err != nil {
			return nil, err
		}
		series, err := day.Series(table, column)
		if err != nil {
			return nil, err
		}

		labels := compose.Labels{
			Title:  fmt.Sprintf(titleFormat, day.Date),
			XTitle: timeTitle,
			YTitle: yTitle,
		}
		return compose.TimeLine(string(kind), labels, series, style, 50), nil
	}
}

// simpleLine builds a full-range time series with one fixed colour.
func simpleLine(kind KindID, column telemetry.Column, labels compose.Labels, name, color string) BuildFunc {
	labels.XTitle = timeTitle
	style := compose.LineStyle{Name: name, Color: color, Mode: chart.ModeLines}

	return func(table *telemetry.Table) (*chart.Spec, error) {
		series, err := transform.TimeSeries(table, column)
		if err != nil {
			return nil, err
		}
		return compose.TimeLine(string(kind), labels, series, style, compose.DefaultTickAngle), nil
	}
}

func dualLine(kind KindID, title string, primaryColumn telemetry.Column, primary compose.AxisSeries, secondaryColumn telemetry.Column, secondary compose.AxisSeries) BuildFunc {
	labels := compose.Labels{Title: title, XTitle: timeTitle}

	return func(table *telemetry.Table) (*chart.Spec, error) {
		dual, err := transform.DualSeries(table, primaryColumn, secondaryColumn)
		if err != nil {
			return nil, err
		}
		return compose.DualAxis(string(kind), labels, dual, primary, secondary), nil
	}
}
