package report

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability/metrics"
)

// DefaultParallelism is how many sections a Generator renders at once by default.
const DefaultParallelism = 4

// Result is the rendered text of one section.
type Result struct {
	Name     string
	Text     string
	Duration time.Duration
}

// Report is a finished report run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Results     []Result // in section order
}

// Text returns the sections concatenated in order.
func (r *Report) Text() string {
	var b strings.Builder
	for _, res := range r.Results {
		b.WriteString(res.Text)
	}
	return b.String()
}

// WriteTo writes the report text to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Text())
	return int64(n), err
}

// Generator renders a list of sections concurrently.
type Generator struct {
	sections    []Section
	parallelism int
	metrics     *metrics.ReportMetrics
	log         logger.Logger
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithParallelism bounds how many sections run at once. Values below 1 mean one.
func WithParallelism(n int) GeneratorOption {
	return func(g *Generator) {
		g.parallelism = max(n, 1)
	}
}

// WithMetrics records section and report metrics to m.
func WithMetrics(m *metrics.ReportMetrics) GeneratorOption {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithLogger replaces the report module logger.
func WithLogger(l logger.Logger) GeneratorOption {
	return func(g *Generator) {
		g.log = l
	}
}

// NewGenerator returns a Generator for sections.
func NewGenerator(sections []Section, opts ...GeneratorOption) *Generator {
	g := &Generator{
		sections:    sections,
		parallelism: DefaultParallelism,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = GetLogger()
	}
	return g
}

// Generate renders every section against ac and images. The first section error cancels
// the sections that have not started yet and is returned; Results stay in section order
// regardless of completion order.
func (g *Generator) Generate(ctx context.Context, ac *analysis.Context, images []*model.ImageRecord) (*Report, error) {
	runID := uuid.NewString()
	ctx = logger.WithTraceID(ctx, runID)
	log := g.log.WithContext(ctx)
	start := time.Now()

	log.Info("generating report",
		logger.Int("sections", len(g.sections)),
		logger.Int("images", len(images)),
		logger.Int("parallelism", g.parallelism))

	results := make([]Result, len(g.sections))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.parallelism)

	for i, section := range g.sections {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				g.recordSection(section.Name(), metrics.StatusSkipped, 0, 0)
				return err
			}

			sectionStart := time.Now()
			text, err := section.Produce(ac, images)
			elapsed := time.Since(sectionStart)

			if err != nil {
				g.recordSection(section.Name(), metrics.StatusError, elapsed, 0)
				return errors.New(err).
					Component("report").
					Category(errors.CategoryReport).
					Context("section", section.Name()).
					Context("run_id", runID).
					Timing("produce_section", elapsed).
					Build()
			}

			g.recordSection(section.Name(), metrics.StatusSuccess, elapsed, len(text))
			log.Debug("section produced",
				logger.String("section", section.Name()),
				logger.Int("bytes", len(text)),
				logger.Duration("elapsed", elapsed))

			results[i] = Result{Name: section.Name(), Text: text, Duration: elapsed}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if g.metrics != nil {
			g.metrics.RecordReport(metrics.StatusError)
		}
		log.Error("report generation failed", logger.Error(err), logger.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	if g.metrics != nil {
		g.metrics.RecordReport(metrics.StatusSuccess)
	}
	log.Info("report generated", logger.Duration("elapsed", time.Since(start)))

	return &Report{RunID: runID, GeneratedAt: start, Results: results}, nil
}

func (g *Generator) recordSection(name, status string, elapsed time.Duration, bytes int) {
	if g.metrics == nil {
		return
	}
	g.metrics.RecordSection(name, status, elapsed.Seconds(), bytes)
}
