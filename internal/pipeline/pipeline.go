// Package pipeline runs the selected chart kinds over one loaded telemetry
// table. Every kind is validated, transformed and composed independently; a
// failing kind only fills its own slot of the report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/roman-kulish/vehicle-dashboard/internal/catalog"
	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

// Report is the outcome of one pass over a table.
type Report struct {
	Warnings []string `json:"warnings,omitempty"` // Non-fatal load warnings, e.g. unparsable timestamps
	Slots    []Slot   `json:"charts"`             // One slot per selected kind, in display order
}

// Failed returns the number of slots that carry an error.
func (r *Report) Failed() int {
	var n int
	for _, slot := range r.Slots {
		if slot.Error != nil {
			n++
		}
	}
	return n
}

// Slot holds either the chart of one kind or the reason it could not be
// drawn, never both.
type Slot struct {
	Kind        catalog.KindID   `json:"kind"`
	Number      int              `json:"number"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Spec        *chart.Spec      `json:"spec,omitempty"`
	Error       *ErrorDescriptor `json:"error,omitempty"`
}

// DisplayName is the numbered kind name, e.g. "3. Line Graph of Coolant
// Temperature".
func (s Slot) DisplayName() string {
	return fmt.Sprintf("%d. %s", s.Number, s.Name)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger.With(slog.String("component", "pipeline"))
	}
}

// WithConcurrency sets how many kinds are computed at once. Values below 2
// run the kinds sequentially in display order.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// WithRegistry replaces the built-in catalogue of chart kinds.
func WithRegistry(registry *catalog.Registry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// Pipeline turns a table and a selection into a Report. It holds no state
// between runs and is safe for concurrent use.
type Pipeline struct {
	registry    *catalog.Registry
	logger      *slog.Logger
	concurrency int
}

// New creates a Pipeline over the built-in chart kinds.
func New(options ...Option) *Pipeline {
	p := Pipeline{
		registry:    catalog.Builtin(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
		concurrency: 1,
	}

	for _, option := range options {
		option(&p)
	}

	return &p
}

// Registry returns the chart kinds the pipeline draws from.
func (p *Pipeline) Registry() *catalog.Registry {
	return p.registry
}

// Run computes every selected kind of table. The returned error is non-nil
// only when ctx is cancelled before all kinds are done; per-kind failures are
// reported in their slots.
func (p *Pipeline) Run(ctx context.Context, table *telemetry.Table, selection Selection) (*Report, error) {
	defs := selection.resolve(p.registry)

	report := Report{
		Warnings: warnings(table),
		Slots:    make([]Slot, len(defs)),
	}

	if p.concurrency < 2 || len(defs) < 2 {
		for i, def := range defs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report.Slots[i] = p.compute(table, def)
		}
	} else {
		p.computeConcurrently(ctx, table, defs, report.Slots)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	p.logger.Info("charts computed",
		slog.Int("selected", len(defs)),
		slog.Int("failed", report.Failed()),
		slog.Int("warnings", len(report.Warnings)))

	return &report, nil
}

// computeConcurrently fans the kinds out over a bounded number of workers.
// Each worker writes only the slot at its own index.
func (p *Pipeline) computeConcurrently(ctx context.Context, table *telemetry.Table, defs []catalog.Definition, slots []Slot) {
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(p.concurrency, len(defs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i] = p.compute(table, defs[i])
			}
		}()
	}

	defer wg.Wait()
	defer close(jobs)

	for i := range defs {
		select {
		case <-ctx.Done():
			return
		case jobs <- i:
		}
	}
}

// compute validates and builds one kind. A panic in the build function is
// recovered and reported in the slot.
func (p *Pipeline) compute(table *telemetry.Table, def catalog.Definition) (slot Slot) {
	slot = Slot{
		Kind:        def.ID,
		Number:      def.Number,
		Name:        def.Name,
		Description: def.Description,
	}
	logger := p.logger.With(slog.String("kind", string(def.ID)))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("chart build panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))

			slot.Spec = nil
			slot.Error = &ErrorDescriptor{
				Code:    CodeInternal,
				Chart:   def.DisplayName(),
				Message: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	if err := catalog.Validate(table, def); err != nil {
		slot.Error = describe(def, err)
		logger.Debug("chart skipped", slog.String("reason", err.Error()))
		return slot
	}

	spec, err := def.Build(table)
	if err != nil {
		slot.Error = describe(def, err)
		logger.Debug("chart skipped", slog.String("reason", err.Error()))
		return slot
	}

	slot.Spec = spec
	logger.Debug("chart built",
		slog.Int("traces", len(spec.Traces)),
		slog.Duration("took", time.Since(start)))

	return slot
}

func warnings(table *telemetry.Table) []string {
	var out []string
	for _, w := range table.Warnings() {
		out = append(out, w.Error())
	}
	return out
}

// Run computes the selected kinds with a one-off Pipeline.
func Run(ctx context.Context, table *telemetry.Table, selection Selection, options ...Option) (*Report, error) {
	return New(options...).Run(ctx, table, selection)
}
