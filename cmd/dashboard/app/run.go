package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/roman-kulish/vehicle-dashboard/internal/catalog"
	"github.com/roman-kulish/vehicle-dashboard/internal/client"
	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
	"github.com/roman-kulish/vehicle-dashboard/internal/render"
	"github.com/roman-kulish/vehicle-dashboard/internal/server"
	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

// Render loads the telemetry file at path, computes the selected charts and
// writes them in the configured format. Streamable formats go to the output
// file or stdout, PNG previews to the output directory.
func Render(ctx context.Context, config *Config, path string, stdout io.Writer, logger *slog.Logger) error {
	if _, err := os.Stat(path); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("telemetry file '%s' does not exist: %w", path, err)
	}

	registry := catalog.Builtin()
	selection, err := selectCharts(registry, config.Charts)
	if err != nil {
		return err
	}

	table, err := telemetry.LoadFile(path,
		telemetry.WithLocation(config.Settings.TimeZone.Location),
		telemetry.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("telemetry loaded",
		slog.Group("table",
			slog.String("file", path),
			slog.String("rows", humanize.Comma(int64(table.Len()))),
			slog.Int("columns", len(table.Columns())),
		))

	p := pipeline.New(
		pipeline.WithRegistry(registry),
		pipeline.WithConcurrency(config.Settings.Concurrency),
		pipeline.WithLogger(logger))

	report, err := p.Run(ctx, table, selection)
	if err != nil {
		return fmt.Errorf("computing charts: %w", err)
	}

	for _, warning := range report.Warnings {
		logger.Warn(warning)
	}
	for _, slot := range report.Slots {
		if slot.Error != nil {
			logger.Warn("chart not drawn",
				slog.String("chart", slot.DisplayName()),
				slog.String("code", string(slot.Error.Code)),
				slog.String("reason", slot.Error.Message))
		}
	}

	return writeReport(config, report, stdout, logger)
}

func selectCharts(registry *catalog.Registry, charts ChartsConfig) (pipeline.Selection, error) {
	switch {
	case charts.All:
		return pipeline.SelectAll(registry), nil
	case len(charts.Select) == 0:
		return nil, ErrNoSelection
	default:
		return pipeline.ParseSelection(registry, charts.Select)
	}
}

func writeReport(config *Config, report *pipeline.Report, stdout io.Writer, logger *slog.Logger) (err error) {
	if config.Render.Format == render.FormatPNG {
		var renderer *render.PNGRenderer
		renderer, err = render.NewPNGRenderer(render.RenderConfig{
			Width:      config.Render.Width,
			Location:   config.Settings.TimeZone.Location,
			ColorTheme: config.Render.Theme,
		}, logger)
		if err != nil {
			return fmt.Errorf("creating png renderer: %w", err)
		}

		var paths []string
		paths, err = renderer.WriteDir(config.OutputDir(), report)
		if err != nil {
			return fmt.Errorf("writing png previews: %w", err)
		}

		logger.Info("charts written",
			slog.Group("image",
				slog.String("destination", config.OutputDir()),
				slog.String("theme", string(config.Render.Theme)),
				slog.Int("files", len(paths)),
			))
		return nil
	}

	w := stdout
	if config.Render.Output != "" {
		var f *os.File
		if f, err = os.Create(config.Render.Output); err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer closeWithError(f, &err)
		w = f
	}

	if err = render.Write(w, config.Render.Format, report, config.Render.Title); err != nil {
		return fmt.Errorf("rendering %s: %w", config.Render.Format, err)
	}

	if config.Render.Output != "" {
		logger.Info("charts written",
			slog.String("destination", config.Render.Output),
			slog.String("format", string(config.Render.Format)))
	}
	return nil
}

// Serve runs the HTTP API until ctx is cancelled. The server is configured
// from the environment; addr and loc override the listen address and the
// timezone when set.
func Serve(ctx context.Context, addr string, loc *time.Location, envFiles []string, logLevel *slog.LevelVar, logger *slog.Logger) error {
	config, err := serverConfig(addr, loc, envFiles)
	if err != nil {
		return err
	}
	if _, ok := os.LookupEnv(server.EnvLogLevel); ok {
		logLevel.Set(config.LogLevel)
	}

	logger.Info("server configuration",
		slog.String("addr", config.Addr),
		slog.String("origins", strings.Join(config.AllowedOrigins, ",")),
		slog.String("maxUpload", humanize.IBytes(uint64(config.MaxUploadBytes))),
		slog.String("timezone", config.Location.String()),
		slog.Int("concurrency", config.Concurrency))

	return server.New(config, server.WithLogger(logger)).ListenAndServe(ctx)
}

// serverConfig loads the server configuration and applies the command line
// overrides on top of it.
func serverConfig(addr string, loc *time.Location, envFiles []string) (server.Config, error) {
	config, err := server.LoadConfig(envFiles...)
	if err != nil {
		return server.Config{}, fmt.Errorf("loading server configuration: %w", err)
	}
	if addr != "" {
		config.Addr = addr
	}
	if loc != nil {
		config.Location = loc
	}
	return config, nil
}

// Kinds prints the chart catalogue, the built-in one or that of the server
// at serverURL.
func Kinds(ctx context.Context, serverURL string, stdout io.Writer, logger *slog.Logger) error {
	var kinds []server.Kind
	if serverURL != "" {
		var err error
		if kinds, err = client.New(serverURL, client.WithLogger(logger)).Kinds(ctx); err != nil {
			return err
		}
	} else {
		for _, def := range catalog.Builtin().All() {
			kinds = append(kinds, server.Kind{
				Number:      def.Number,
				ID:          def.ID,
				Name:        def.Name,
				Description: def.Description,
				Required:    def.Required,
			})
		}
	}

	data := pterm.TableData{{"#", "ID", "Name", "Required columns"}}
	for _, kind := range kinds {
		columns := make([]string, len(kind.Required))
		for i, c := range kind.Required {
			columns[i] = c.String()
		}
		data = append(data, []string{
			strconv.Itoa(kind.Number),
			string(kind.ID),
			kind.Name,
			strings.Join(columns, ", "),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("rendering kinds table: %w", err)
	}
	_, err = fmt.Fprintln(stdout, table)
	return err
}

// UploadRequest describes a file sent to a running server
type UploadRequest struct {
	Server string
	Path   string
	Charts []string
	All    bool
	Format render.Format
	Output string // Output file, stdout when empty
}

// Upload sends a telemetry file to a running server and writes the response.
func Upload(ctx context.Context, req UploadRequest, stdout io.Writer, logger *slog.Logger) (err error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return fmt.Errorf("opening telemetry file: %w", err)
	}
	defer closeWithError(f, &err)

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading telemetry file: %w", err)
	}

	logger.Info("uploading telemetry",
		slog.String("file", req.Path),
		slog.String("size", humanize.IBytes(uint64(stat.Size()))),
		slog.String("server", req.Server))

	body, err := client.New(req.Server, client.WithLogger(logger)).Charts(ctx, client.ChartsRequest{
		Filename: stat.Name(),
		File:     f,
		Charts:   req.Charts,
		All:      req.All,
		Format:   req.Format,
	})
	if err != nil {
		return err
	}

	if req.Output == "" {
		_, err = stdout.Write(body)
		return err
	}
	if err = os.WriteFile(req.Output, body, 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	logger.Info("charts written", slog.String("destination", req.Output))
	return nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
