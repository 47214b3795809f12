package compose

import (
	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/transform"
)

// SceneLabels are the axis titles of a 3D chart plus the colour scale title.
type SceneLabels struct {
	X, Y, Z, Color string
}

// Scatter3D draws a point cloud with the colour dimension mapped to a
// continuous colour scale.
func Scatter3D(kind, title string, cloud transform.Cloud, labels SceneLabels) *chart.Spec {
	spec := newSpec(kind, Labels{Title: title}, chart.Height3D)
	spec.Layout.Scene = &chart.Scene{
		XAxis: gridAxis(labels.X),
		YAxis: gridAxis(labels.Y),
		ZAxis: gridAxis(labels.Z),
	}

	spec.Traces = append(spec.Traces, chart.Trace{
		Type: chart.TraceScatter3D,
		Mode: chart.ModeMarkers,
		X:    chart.Numbers(cloud.X),
		Y:    chart.Numbers(cloud.Y),
		Z:    chart.Numbers(cloud.Z),
		Marker: &chart.Marker{
			Values:     chart.Numbers(cloud.Color),
			ColorTitle: labels.Color,
		},
	})
	return spec
}
