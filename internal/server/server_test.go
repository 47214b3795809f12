package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/roman-kulish/vehicle-dashboard/internal/catalog"
	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
)

const rpmCSV = `Timestamp,Engine_RPM
2024-03-01 10:00:00,5000
2024-03-01 10:00:01,6200
2024-03-01 10:00:02,7000
2024-03-01 10:00:03,4000
`

func newTestServer(t *testing.T, config Config) *resty.Client {
	t.Helper()

	ts := httptest.NewServer(New(config).Handler())
	t.Cleanup(ts.Close)

	return resty.New().SetBaseURL(ts.URL)
}

func upload(t *testing.T, client *resty.Client, filename, body string, form url.Values) *resty.Response {
	t.Helper()
	return uploadField(t, client, fieldFile, filename, body, form)
}

func uploadField(t *testing.T, client *resty.Client, field, filename, body string, form url.Values) *resty.Response {
	t.Helper()

	resp, err := client.R().
		SetFileReader(field, filename, strings.NewReader(body)).
		SetFormDataFromValues(form).
		Post("/api/charts")
	if err != nil {
		t.Fatalf("Failed to post charts: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, resp *resty.Response) APIError {
	t.Helper()

	var apiErr APIError
	if err := json.Unmarshal(resp.Body(), &apiErr); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", resp.Body(), err)
	}
	return apiErr
}

func TestHealth(t *testing.T) {
	client := newTestServer(t, DefaultConfig())

	resp, err := client.R().Get("/health")
	if err != nil {
		t.Fatalf("Failed to get health: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode())
	}
	if resp.String() != "OK" {
		t.Errorf("Expected OK, got %q", resp.String())
	}
	if resp.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a request ID header")
	}
}

func TestKinds(t *testing.T) {
	client := newTestServer(t, DefaultConfig())

	var kinds []Kind
	resp, err := client.R().SetResult(&kinds).Get("/api/kinds")
	if err != nil {
		t.Fatalf("Failed to get kinds: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode())
	}

	if len(kinds) != 17 {
		t.Fatalf("Expected 17 kinds, got %d", len(kinds))
	}
	if kinds[1].ID != catalog.KindRPMOverTime || kinds[1].Number != 2 {
		t.Errorf("Expected kind 2 to be %s, got %d %s", catalog.KindRPMOverTime, kinds[1].Number, kinds[1].ID)
	}
	if len(kinds[11].Required) != 4 {
		t.Errorf("Expected 4 required columns for the 3D chart, got %v", kinds[11].Required)
	}
}

func TestCharts_JSON(t *testing.T) {
	client := newTestServer(t, DefaultConfig())

	form := url.Values{"chart": {"rpm-over-time", "11"}}
	resp := upload(t, client, "drive.csv", rpmCSV, form)
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode(), resp.Body())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var report pipeline.Report
	if err := json.Unmarshal(resp.Body(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if len(report.Slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(report.Slots))
	}
	if report.Slots[0].Spec == nil || len(report.Slots[0].Spec.Traces) != 3 {
		t.Errorf("Expected 3 segments for the RPM timeline, got %+v", report.Slots[0].Spec)
	}
	if e := report.Slots[1].Error; e == nil || e.Code != pipeline.CodeMissingColumns {
		t.Errorf("Expected a missing columns error for MAF, got %+v", e)
	}
}

func TestCharts_AllAsHTML(t *testing.T) {
	client := newTestServer(t, DefaultConfig())

	form := url.Values{"all": {"true"}, "format": {"html"}}
	resp := upload(t, client, "drive.csv", rpmCSV, form)
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode(), resp.Body())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML, got %q", ct)
	}
	if !strings.Contains(resp.String(), "chart-ambient-temperature") {
		t.Error("Expected a container for every kind")
	}
}

func TestCharts_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		field    string
		filename string
		body     string
		form     url.Values
		status   int
		code     ErrorCode
	}{
		{
			name:     "missing file",
			field:    "upload",
			filename: "drive.csv",
			body:     rpmCSV,
			form:     url.Values{"all": {"true"}},
			status:   http.StatusBadRequest,
			code:     ErrorCodeMissingParameter,
		},
		{
			name:     "unknown kind",
			filename: "drive.csv",
			body:     rpmCSV,
			form:     url.Values{"chart": {"fuel-economy"}},
			status:   http.StatusBadRequest,
			code:     ErrorCodeValidationFailed,
		},
		{
			name:     "png is not streamable",
			filename: "drive.csv",
			body:     rpmCSV,
			form:     url.Values{"all": {"true"}, "format": {"png"}},
			status:   http.StatusBadRequest,
			code:     ErrorCodeInvalidFormat,
		},
		{
			name:     "bad all flag",
			filename: "drive.csv",
			body:     rpmCSV,
			form:     url.Values{"all": {"maybe"}},
			status:   http.StatusBadRequest,
			code:     ErrorCodeValidationFailed,
		},
		{
			name:     "broken csv",
			filename: "drive.csv",
			body:     "Timestamp,Engine_RPM\n2024-03-01 10:00:00,5000,1\n",
			form:     url.Values{"all": {"true"}},
			status:   http.StatusBadRequest,
			code:     ErrorCodeInvalidFile,
		},
		{
			name:     "not a workbook",
			filename: "drive.xlsx",
			body:     rpmCSV,
			form:     url.Values{"all": {"true"}},
			status:   http.StatusBadRequest,
			code:     ErrorCodeInvalidFile,
		},
	}

	client := newTestServer(t, DefaultConfig())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			field := tc.field
			if field == "" {
				field = fieldFile
			}

			resp := uploadField(t, client, field, tc.filename, tc.body, tc.form)
			if resp.StatusCode() != tc.status {
				t.Fatalf("Expected status %d, got %d: %s", tc.status, resp.StatusCode(), resp.Body())
			}
			if apiErr := decodeError(t, resp); apiErr.Code != tc.code {
				t.Errorf("Expected code %s, got %s", tc.code, apiErr.Code)
			}
		})
	}
}

func TestCharts_UploadLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxUploadBytes = 64
	client := newTestServer(t, config)

	resp := upload(t, client, "drive.csv", strings.Repeat(rpmCSV, 10), url.Values{"all": {"true"}})
	if resp.StatusCode() != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413, got %d: %s", resp.StatusCode(), resp.Body())
	}
	if apiErr := decodeError(t, resp); apiErr.Code != ErrorCodePayloadTooLarge {
		t.Errorf("Expected code %s, got %s", ErrorCodePayloadTooLarge, apiErr.Code)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	client := newTestServer(t, DefaultConfig())

	resp, err := client.R().Get("/api/nothing")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if resp.StatusCode() != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode())
	}

	resp, err = client.R().Get("/api/charts")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if resp.StatusCode() != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode())
	}
	if apiErr := decodeError(t, resp); apiErr.Code != ErrorCodeMethodNotAllowed {
		t.Errorf("Expected code %s, got %s", ErrorCodeMethodNotAllowed, apiErr.Code)
	}
}

func TestMetrics(t *testing.T) {
	client := newTestServer(t, DefaultConfig())

	upload(t, client, "drive.csv", rpmCSV, url.Values{"chart": {"2", "11"}})

	resp, err := client.R().Get("/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}

	body := resp.String()
	for _, expected := range []string{
		`dashboard_charts_total{kind="rpm-over-time",outcome="drawn"} 1`,
		`dashboard_charts_total{kind="mass-air-flow",outcome="missing_columns"} 1`,
		`dashboard_http_requests_total{code="200",method="post"} 1`,
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("Expected metrics to contain %s", expected)
		}
	}
}

func TestCORS(t *testing.T) {
	config := DefaultConfig()
	config.AllowedOrigins = []string{"http://localhost:5173"}
	client := newTestServer(t, config)

	resp, err := client.R().
		SetHeader("Origin", "http://localhost:5173").
		SetHeader("Access-Control-Request-Method", http.MethodPost).
		Options("/api/charts")
	if err != nil {
		t.Fatalf("Failed to send preflight: %v", err)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected the origin to be allowed, got %q", got)
	}

	resp, err = client.R().SetHeader("Origin", "http://evil.example").Get("/health")
	if err != nil {
		t.Fatalf("Failed to get health: %v", err)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for a foreign origin, got %q", got)
	}
}
