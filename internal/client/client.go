// Package client talks to a running dashboard server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
	"github.com/roman-kulish/vehicle-dashboard/internal/render"
	"github.com/roman-kulish/vehicle-dashboard/internal/server"
)

const defaultTimeout = 2 * time.Minute

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets the timeout of every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.rest.SetTimeout(timeout)
	}
}

// Client is an HTTP client of the dashboard API.
type Client struct {
	rest   *resty.Client
	logger *slog.Logger
}

// New creates a client of the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		rest: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}
	for _, option := range options {
		option(c)
	}
	c.logger = c.logger.With(slog.String("component", "client"))
	return c
}

// ChartsRequest selects the charts and the format of an upload.
type ChartsRequest struct {
	Filename string        // Name of the uploaded file, its extension picks CSV or XLSX
	File     io.Reader     // File contents
	Charts   []string      // Kind IDs, names or numbers
	All      bool          // Select every kind, Charts is ignored
	Format   render.Format // Streamable output format, JSON when empty
}

// Kinds lists the chart kinds known to the server.
func (c *Client) Kinds(ctx context.Context) ([]server.Kind, error) {
	var kinds []server.Kind

	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&kinds).
		SetError(&server.APIError{}).
		Get("/api/kinds")
	if err != nil {
		return nil, fmt.Errorf("listing kinds: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return kinds, nil
}

// Charts uploads a telemetry file and returns the rendered report as is.
func (c *Client) Charts(ctx context.Context, req ChartsRequest) ([]byte, error) {
	form := url.Values{}
	for _, chart := range req.Charts {
		form.Add("chart", chart)
	}
	if req.All {
		form.Set("all", strconv.FormatBool(true))
	}
	if req.Format != "" {
		form.Set("format", string(req.Format))
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetFileReader("file", req.Filename, req.File).
		SetFormDataFromValues(form).
		SetError(&server.APIError{}).
		Post("/api/charts")
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", req.Filename, err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	c.logger.Debug("charts received",
		slog.String("file", req.Filename),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("duration", resp.Time()))

	return resp.Body(), nil
}

// Report uploads a telemetry file and decodes the JSON report.
func (c *Client) Report(ctx context.Context, req ChartsRequest) (*pipeline.Report, error) {
	req.Format = render.FormatJSON

	body, err := c.Charts(ctx, req)
	if err != nil {
		return nil, err
	}

	var report pipeline.Report
	if err = json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &report, nil
}

// apiError returns the decoded error body of a failed response, or a generic
// error when the body was not an API error.
func apiError(resp *resty.Response) error {
	if apiErr, ok := resp.Error().(*server.APIError); ok && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}
	return fmt.Errorf("unexpected response: %s", resp.Status())
}
