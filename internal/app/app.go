// Package app wires settings, logging, telemetry, metrics and the data sources that the
// command line tools share.
package app

import (
	"context"
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/buildinfo"
	"github.com/Chris-Schnaufer/sparcd-old/internal/catalog"
	"github.com/Chris-Schnaufer/sparcd-old/internal/conf"
	"github.com/Chris-Schnaufer/sparcd-old/internal/datastore"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
	"github.com/Chris-Schnaufer/sparcd-old/internal/observability"
	"github.com/Chris-Schnaufer/sparcd-old/internal/report"
)

const telemetryFlushTimeout = 2 * time.Second

// App is the state shared by every subcommand of one process.
type App struct {
	Settings *conf.Settings
	Metrics  *observability.Metrics
	Build    *buildinfo.Context

	central *logger.CentralLogger
}

// New creates an App with metrics ready and settings not yet loaded.
func New(build *buildinfo.Context) (*App, error) {
	m, err := observability.NewMetrics()
	if err != nil {
		return nil, err
	}
	return &App{Settings: &conf.Settings{}, Metrics: m, Build: build}, nil
}

// Initialize loads settings and installs the process logger and, when configured, the
// telemetry reporter. An empty configFile searches the default config locations.
func (a *App) Initialize(configFile string) error {
	settings, err := conf.Load(configFile)
	if err != nil {
		return err
	}
	return a.Apply(settings)
}

// Apply installs logging and telemetry for settings.
func (a *App) Apply(settings *conf.Settings) error {
	a.Settings = settings

	cfg := settings.Logging
	if settings.Debug {
		cfg.DefaultLevel = "debug"
		if cfg.Console != nil {
			console := *cfg.Console
			console.Level = "debug"
			cfg.Console = &console
		}
	}
	central, err := logger.NewCentralLogger(&cfg)
	if err != nil {
		return errors.New(err).
			Component("app").
			Category(errors.CategoryConfiguration).
			Context("operation", "create_logger").
			Build()
	}
	a.central = central
	logger.SetGlobal(central)

	if settings.Telemetry.Enabled {
		if err := errors.InitSentry(settings.Telemetry.DSN, a.Build.Release()); err != nil {
			return err
		}
		GetLogger().Info("telemetry enabled",
			logger.String("release", a.Build.Release()),
			logger.RedactedString("dsn", settings.Telemetry.DSN))
	}

	GetLogger().Debug("application initialized",
		logger.String("version", a.Build.GetVersion()),
		logger.Bool("debug", settings.Debug))
	return nil
}

// Close writes the metrics textfile and flushes telemetry and logs.
func (a *App) Close() error {
	var errs []error
	if err := a.Metrics.WriteTextfile(a.Settings.Metrics.File); err != nil {
		errs = append(errs, err)
	}
	if a.Settings.Telemetry.Enabled {
		errors.FlushTelemetry(telemetryFlushTimeout)
	}
	if a.central != nil {
		if err := a.central.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Timezone returns the analysis timezone.
func (a *App) Timezone() (*time.Location, error) {
	return a.Settings.Analysis.Location()
}

// OpenStore opens the configured datastore with metrics attached.
func (a *App) OpenStore(ctx context.Context) (datastore.Interface, error) {
	store, err := datastore.New(a.Settings)
	if err != nil {
		return nil, err
	}
	store.SetMetrics(a.Metrics.Datastore)
	if err := store.Open(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadImages reads the catalog files in paths into one registry. With no paths the
// images stored in the configured datastore are loaded instead.
func (a *App) LoadImages(ctx context.Context, paths ...string) (*model.Registry, []*model.ImageRecord, error) {
	tz, err := a.Timezone()
	if err != nil {
		return nil, nil, err
	}
	reg := model.NewRegistry()

	if len(paths) == 0 {
		store, err := a.OpenStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()

		images, err := store.LoadCatalog(ctx, reg)
		if err != nil {
			return nil, nil, err
		}
		return reg, images, nil
	}

	reader := catalog.NewReader(catalog.WithRegistry(reg), catalog.WithTimezone(tz))
	var images []*model.ImageRecord
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		c, err := reader.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		images = append(images, c.Images...)
	}
	return reg, images, nil
}

// NewContext builds the analysis context for images with the configured event interval
// and lunar step.
func (a *App) NewContext(images []*model.ImageRecord) *analysis.Context {
	start := time.Now()
	ac := analysis.NewContext(images, a.Settings.Analysis.EventInterval,
		analysis.WithLunarStep(a.Settings.Analysis.LunarStep()))
	a.Metrics.Report.RecordContextBuild(time.Since(start).Seconds(),
		ac.ImageCount(), len(ac.FullMoons()), len(ac.NewMoons()))
	return ac
}

// ReportOptions maps the analysis settings onto report section options.
func (a *App) ReportOptions() (report.Options, error) {
	tz, err := a.Timezone()
	if err != nil {
		return report.Options{}, err
	}
	s := a.Settings.Analysis
	return report.Options{
		MinSpeciesImages: s.MinSpeciesImages,
		ChiSquareCutoff:  s.ChiSquareCutoff,
		TopN:             s.TopN,
		LunarWindow:      s.LunarWindow(),
		Timezone:         tz,
		SunCalcMetrics:   a.Metrics.SunCalc,
	}, nil
}

// Sections resolves the configured report sections; an empty list selects every
// section.
func (a *App) Sections(names []string) ([]report.Section, error) {
	opts, err := a.ReportOptions()
	if err != nil {
		return nil, err
	}
	all := report.All(opts)
	if len(names) == 0 {
		names = a.Settings.Report.Sections
	}
	if len(names) == 0 {
		return all, nil
	}
	return report.Select(all, names)
}
