package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roman-kulish/vehicle-dashboard/internal/render"
)

// ErrNoSelection is returned when neither --chart nor --all is given
var ErrNoSelection = errors.New("no chart kinds selected, use --chart or --all")

// NewRootCommand builds the dashboard command tree. The configuration is
// loaded before any subcommand runs and its log level is applied to logLevel.
func NewRootCommand(logLevel *slog.LevelVar, logger *slog.Logger) *cobra.Command {
	var (
		configPath string
		verbose    bool
		timezone   string
	)

	config := NewConfig()

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Draw diagnostic charts from vehicle telemetry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load configuration file %s: %w", configPath, err)
				}
				*config = *loaded
			}

			if timezone != "" {
				loc, err := time.LoadLocation(timezone)
				if err != nil {
					return fmt.Errorf("invalid timezone %q: %w", timezone, err)
				}
				config.Settings.TimeZone = Location{loc}
			}
			if verbose {
				config.Settings.LogLevel = LogLevel(slog.LevelDebug)
			}

			logLevel.Set(config.Settings.LogLevel.Level())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&timezone, "timezone", "", "Timezone of timestamps without an offset, e.g. Asia/Riyadh")

	root.AddCommand(
		newRenderCommand(config, logger),
		newServeCommand(config, logLevel, logger),
		newKindsCommand(logger),
		newUploadCommand(logger),
	)
	return root
}

func newRenderCommand(config *Config, logger *slog.Logger) *cobra.Command {
	var (
		charts      []string
		all         bool
		format      string
		output      string
		title       string
		theme       string
		width       int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render charts of a CSV or XLSX telemetry file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("chart") {
				config.Charts.Select = charts
				config.Charts.All = false
			}
			if f.Changed("all") {
				config.Charts.All = all
				if all {
					config.Charts.Select = nil
				}
			}
			if f.Changed("format") {
				parsed, err := render.ParseFormat(format)
				if err != nil {
					return err
				}
				config.Render.Format = parsed
			}
			if f.Changed("output") {
				config.Render.Output = output
			}
			if f.Changed("title") {
				config.Render.Title = title
			}
			if f.Changed("theme") {
				config.Render.Theme = render.ColorTheme(strings.ToLower(theme))
			}
			if f.Changed("width") {
				config.Render.Width = width
			}
			if f.Changed("concurrency") {
				config.Settings.Concurrency = concurrency
			}
			if err := config.Validate(); err != nil {
				return err
			}

			return Render(cmd.Context(), config, args[0], cmd.OutOrStdout(), logger)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&charts, "chart", nil, "Chart kinds to draw by ID, number or name (repeatable)")
	f.BoolVar(&all, "all", false, "Draw every chart kind")
	f.StringVarP(&format, "format", "f", string(render.FormatJSON), "Output format: json, html, png or text")
	f.StringVarP(&output, "output", "o", "", "Output file, or directory for png (default stdout, or ./charts for png)")
	f.StringVar(&title, "title", "", "HTML page title")
	f.StringVar(&theme, "theme", string(render.ViridisTheme), "PNG colour theme of the 3D chart")
	f.IntVar(&width, "width", 0, "PNG image width in pixels")
	f.IntVar(&concurrency, "concurrency", 1, "Number of chart kinds computed in parallel")
	return cmd
}

func newServeCommand(config *Config, logLevel *slog.LevelVar, logger *slog.Logger) *cobra.Command {
	var (
		addr     string
		envFiles []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var loc *time.Location
			if f := cmd.Flag("timezone"); f != nil && f.Changed {
				loc = config.Settings.TimeZone.Location
			}
			return Serve(cmd.Context(), addr, loc, envFiles, logLevel, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides DASHBOARD_ADDR")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Environment files to load")
	return cmd
}

func newKindsCommand(logger *slog.Logger) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the chart kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Kinds(cmd.Context(), serverURL, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "List the kinds of a running server, e.g. http://localhost:8080")
	return cmd
}

func newUploadCommand(logger *slog.Logger) *cobra.Command {
	var (
		serverURL string
		charts    []string
		all       bool
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a telemetry file to a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if !parsed.Streamable() {
				return fmt.Errorf("format %s cannot be uploaded, use render", parsed)
			}
			if !all && len(charts) == 0 {
				return ErrNoSelection
			}

			return Upload(cmd.Context(), UploadRequest{
				Server: serverURL,
				Path:   args[0],
				Charts: charts,
				All:    all,
				Format: parsed,
				Output: output,
			}, cmd.OutOrStdout(), logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&serverURL, "server", "http://localhost:8080", "Server base URL")
	f.StringSliceVar(&charts, "chart", nil, "Chart kinds to draw by ID, number or name (repeatable)")
	f.BoolVar(&all, "all", false, "Draw every chart kind")
	f.StringVarP(&format, "format", "f", string(render.FormatJSON), "Output format: json, html or text")
	f.StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
