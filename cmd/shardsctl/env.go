package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reglet-dev/shards-sdk/go/builtins"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/gui"
	"github.com/reglet-dev/shards-sdk/go/host"
	"github.com/reglet-dev/shards-sdk/go/infrastructure/integrator"
	"github.com/reglet-dev/shards-sdk/go/infrastructure/termui"
	"github.com/reglet-dev/shards-sdk/go/physics"
	"github.com/reglet-dev/shards-sdk/go/registry"
	"github.com/reglet-dev/shards-sdk/go/wasm"
)

// environment wires the registry, the terminal backend and the loader.
type environment struct {
	cfg      hostConfig
	logger   *zap.Logger
	backend  *termui.Backend
	input    *inputQueue
	registry *registry.Registry
	loader   *host.Loader
	frame    string
}

func newEnvironment(cfg hostConfig, logOut io.Writer) (*environment, error) {
	logger, err := newLogger(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	env := &environment{
		cfg:     cfg,
		logger:  logger,
		backend: termui.New(termui.WithWidth(cfg.Width)),
		input:   &inputQueue{delta: cfg.TickInterval},
	}

	physicsOpts := []integrator.Option{integrator.WithGravity(entities.Vec3{cfg.Gravity[0], cfg.Gravity[1], cfg.Gravity[2]})}
	if cfg.Floor != nil {
		physicsOpts = append(physicsOpts, integrator.WithFloor(*cfg.Floor))
	}

	env.registry, err = registry.New(
		registry.WithBundle(registry.Combine(
			builtins.Bundle(),
			gui.Bundle(env.backend,
				gui.WithInputSource(env.input.take),
				gui.WithFrameHook(func(out entities.FrameOutput) { env.frame = out.Text }),
			),
			physics.Bundle(integrator.New(physicsOpts...)),
			wasm.Bundle(),
		)),
		registry.WithMiddleware(
			registry.PanicRecoveryMiddleware(),
			registry.LoggingMiddleware(logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	env.loader = host.NewLoader(env.registry, host.WithStrictTemplates(cfg.Strict))
	return env, nil
}

// globals converts the configured globals to variables, sorted by name.
func (e *environment) globals() ([]string, []entities.Var, error) {
	names := make([]string, 0, len(e.cfg.Globals))
	for name := range e.cfg.Globals {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]entities.Var, len(names))
	for i, name := range names {
		v, err := entities.FromAny(e.cfg.Globals[name])
		if err != nil {
			return nil, nil, fmt.Errorf("global %q: %w", name, err)
		}
		values[i] = v
	}
	return names, values, nil
}

func newLogger(level string, out io.Writer) (*zap.Logger, error) {
	if out == nil || out == io.Discard {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(out), lvl)
	return zap.New(core), nil
}
