package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

func (a *app) runCommand(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	configPath := fs.String("config", "", "host configuration file (TOML)")
	ticks := fs.Int("ticks", -1, "number of ticks to run, 0 runs until stopped")
	headless := fs.Bool("headless", false, "never start the terminal UI")
	logFile := fs.String("log-file", "", "write logs to this file instead of stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: shardsctl run [flags] wire.yaml")
		return 2
	}

	cfg, err := loadHostConfig(*configPath)
	if err != nil {
		return a.fail(err)
	}
	if *ticks >= 0 {
		cfg.Ticks = *ticks
	}

	var logOut io.Writer = a.stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return a.fail(fmt.Errorf("failed to open log file: %w", err))
		}
		defer f.Close()
		logOut = f
	}

	interactive := !*headless && a.isTTY()
	if interactive && *logFile == "" {
		logOut = io.Discard
	}

	env, err := newEnvironment(cfg, logOut)
	if err != nil {
		return a.fail(err)
	}
	defer func() { _ = env.logger.Sync() }()

	wire, def, err := env.loader.LoadFile(fs.Arg(0), cfg.Vars)
	if err != nil {
		return a.fail(err)
	}

	names, values, err := env.globals()
	if err != nil {
		return a.fail(err)
	}
	opts := []shards.RunnerOption{shards.WithLogger(env.logger)}
	for i, name := range names {
		opts = append(opts, shards.WithGlobal(name, values[i]))
	}
	runner := shards.NewRunner(wire, opts...)

	limit := tickLimit(def, cfg.Ticks)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactive && usesGUI(def.Shards) {
		err = a.runInteractive(ctx, env, runner, def.Name, limit)
	} else {
		err = a.runHeadless(ctx, env, runner, limit)
	}
	if err != nil {
		return a.fail(err)
	}
	return 0
}

// tickLimit resolves how many ticks to run. Zero means until stopped, which
// only a looped wire does by default.
func tickLimit(def *entities.WireDefinition, configured int) int {
	if configured > 0 {
		return configured
	}
	if def.Looped {
		return 0
	}
	return 1
}

func usesGUI(defs []entities.ShardDefinition) bool {
	for _, sd := range defs {
		if sd.Name == "GUI" {
			return true
		}
	}
	return false
}

func (a *app) runHeadless(ctx context.Context, env *environment, runner *shards.Runner, limit int) (err error) {
	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, runner.Stop())
		logRunMetadata(env.logger, runner.Metadata())
	}()

	var ticker *time.Ticker
	if limit != 1 && env.cfg.TickInterval > 0 {
		ticker = time.NewTicker(env.cfg.TickInterval)
		defer ticker.Stop()
	}

	out := entities.None()
	for n := 0; limit == 0 || n < limit; n++ {
		if n > 0 && ticker != nil {
			select {
			case <-ctx.Done():
				env.logger.Info("interrupted", zap.Int("ticks", n))
				return a.printOutput(env, out)
			case <-ticker.C:
			}
		}
		if runner.Context().Stopped() {
			break
		}
		next, err := runner.Tick()
		if err != nil {
			if errors.Is(err, sdkErrors.ErrStopped) || errors.Is(err, context.Canceled) {
				break
			}
			return err
		}
		out = next
	}
	return a.printOutput(env, out)
}

func (a *app) printOutput(env *environment, out entities.Var) error {
	if env.frame != "" {
		_, err := fmt.Fprintln(a.stdout, env.frame)
		return err
	}
	if out.IsNone() {
		return nil
	}
	if s, err := out.AsString(); err == nil {
		_, err = fmt.Fprintln(a.stdout, s)
		return err
	}
	_, err := fmt.Fprintln(a.stdout, out.String())
	return err
}

func (a *app) runInteractive(ctx context.Context, env *environment, runner *shards.Runner, title string, limit int) (err error) {
	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, runner.Stop())
		logRunMetadata(env.logger, runner.Metadata())
	}()

	model := newTUIModel(env, runner, title, limit)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return model.err
}

func logRunMetadata(logger *zap.Logger, meta *entities.RunMetadata) {
	if meta == nil {
		return
	}
	logger.Info("run finished",
		zap.String("wire", meta.Wire),
		zap.Uint64("ticks", meta.Ticks),
		zap.Uint64("failures", meta.Failures),
		zap.Duration("duration", meta.Duration))
}
