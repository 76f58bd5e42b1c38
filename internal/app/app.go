// Package app implements the application layer for prefab.
package app

import (
	"context"
	"io"
	"runtime"

	"go.trai.ch/prefab/internal/adapters/catalog"   //nolint:depguard // Wired in app layer
	"go.trai.ch/prefab/internal/adapters/protoreg"  //nolint:depguard // Wired in app layer
	"go.trai.ch/prefab/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/prefab/internal/engine/factories"
	"go.trai.ch/prefab/internal/engine/prefab"
	"go.trai.ch/prefab/internal/ui/report"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	locators     []ports.TypeLocator
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, tracer ports.Tracer) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
	}
}

// WithLocators adds locators consulted before the built-in ones.
func (a *App) WithLocators(locators ...ports.TypeLocator) *App {
	a.locators = append(a.locators, locators...)
	return a
}

// Options configures a single invocation.
type Options struct {
	// ConfigPath is the prefab.yaml to load. A missing file means defaults.
	ConfigPath string
	// JSONLogs forces JSON logs regardless of the configuration.
	JSONLogs bool
	// Trace logs every finished span with its duration.
	Trace bool
}

// jsonSwitch is implemented by loggers that can switch to JSON output.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// Show synthesises the values of every named type and writes them to w in
// the order given.
func (a *App) Show(ctx context.Context, names []string, opts Options, w io.Writer) (err error) {
	defer a.instrument(ctx, opts)()

	ctx, span := a.tracer.Start(ctx, "show", ports.WithAttribute("types", names))
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	if len(names) == 0 {
		return domain.ErrNoTypesSpecified
	}

	engine, err := a.setup(opts)
	if err != nil {
		return err
	}
	a.tracer.EmitRequest(ctx, names)

	tuples := make([]domain.Tuple, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range names {
		g.Go(func() error {
			tup, err := a.give(gctx, engine, name)
			tuples[i] = tup
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "failed to synthesise values")
	}

	r := report.New(w)
	for i, name := range names {
		if err := r.Tuple(name, tuples[i]); err != nil {
			return zerr.Wrap(err, "failed to write report")
		}
	}
	return nil
}

// Types writes every type name the engine can resolve to w.
func (a *App) Types(ctx context.Context, opts Options, w io.Writer) (err error) {
	defer a.instrument(ctx, opts)()

	_, span := a.tracer.Start(ctx, "types")
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	engine, err := a.setup(opts)
	if err != nil {
		return err
	}

	names := engine.Names()
	span.SetAttribute("count", len(names))
	if err := report.New(w).Names(names); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

func (a *App) give(ctx context.Context, engine *prefab.Engine, name string) (tup domain.Tuple, err error) {
	_, span := a.tracer.Start(ctx, "give", ports.WithAttribute("type", name))
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return domain.Tuple{}, err
	}

	tag, err := engine.TagByName(name)
	if err != nil {
		return domain.Tuple{}, err
	}
	span.SetAttribute("cached", engine.Realized(tag))
	return engine.Give(tag)
}

// instrument installs the span log bridge when tracing is requested and
// returns the function that removes it.
func (a *App) instrument(ctx context.Context, opts Options) func() {
	if !opts.Trace {
		return func() {}
	}
	shutdown := telemetry.Install(telemetry.NewLogBridge(a.logger))
	return func() { _ = shutdown(context.WithoutCancel(ctx)) }
}

// setup loads the configuration and builds an engine from it.
func (a *App) setup(opts Options) (*prefab.Engine, error) {
	settings, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if settings.JSONLogs || opts.JSONLogs {
		if js, ok := a.logger.(jsonSwitch); ok {
			js.SetJSON(true)
		}
	}

	engine, err := a.newEngine(settings)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to set up engine")
	}
	return engine, nil
}

func (a *App) newEngine(settings *domain.Settings) (*prefab.Engine, error) {
	locators := append([]ports.TypeLocator{}, a.locators...)
	locators = append(locators, catalog.Names(), protoreg.NewLocator(nil))

	engine := prefab.New(
		prefab.WithLogger(a.logger),
		prefab.WithLocators(locators...),
		prefab.WithUnexportedFields(settings.UnexportedFields),
	)
	if err := catalog.AddTo(engine); err != nil {
		return nil, err
	}
	if err := protoreg.Register(engine, nil); err != nil {
		return nil, err
	}

	for _, f := range settings.Fixtures {
		engine.RegisterDeferred(f.TypeName, factories.FromYAML(f.Red, f.Black))
	}
	return engine, nil
}
