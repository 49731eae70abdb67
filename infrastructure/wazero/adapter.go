package wazero

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultEntryPoint is the WASI command entry point.
const DefaultEntryPoint = "_start"

// DefaultMaxMessageSize bounds messages read from guest memory by host functions.
const DefaultMaxMessageSize = 64 * 1024

// Config holds configuration for compiled modules.
type Config struct {
	// HostModuleName is the import module of the host functions (default: "shards_host").
	HostModuleName string

	// MemoryLimitPages caps guest memory in 64 KiB pages. Zero keeps the runtime default.
	MemoryLimitPages uint32

	// MaxMessageSize limits the size of messages read from guest memory.
	MaxMessageSize uint32

	// MaxOutputSize limits the captured stdout and stderr of each run.
	MaxOutputSize int

	// Logger receives guest log messages.
	Logger *zap.Logger

	// CustomHandlers are exported from the host module next to log.
	CustomHandlers []CustomHandler
}

// CustomHandler is an additional host function.
type CustomHandler struct {
	// Name is the exported function name.
	Name string

	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// Option configures Compile.
type Option func(*Config)

// WithHostModuleName sets the host module name (default: "shards_host").
func WithHostModuleName(name string) Option {
	return func(c *Config) {
		c.HostModuleName = name
	}
}

// WithMemoryLimitPages caps guest memory.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *Config) {
		c.MemoryLimitPages = pages
	}
}

// WithMaxMessageSize sets the maximum message size read from guest memory.
func WithMaxMessageSize(size uint32) Option {
	return func(c *Config) {
		c.MaxMessageSize = size
	}
}

// WithMaxOutputSize bounds the captured output of each stream.
func WithMaxOutputSize(size int) Option {
	return func(c *Config) {
		c.MaxOutputSize = size
	}
}

// WithLogger sets the logger of guest log messages.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithCustomHandler adds a host function.
func WithCustomHandler(h CustomHandler) Option {
	return func(c *Config) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

func defaultConfig() Config {
	return Config{
		HostModuleName: "shards_host",
		MaxMessageSize: DefaultMaxMessageSize,
		MaxOutputSize:  DefaultMaxOutputSize,
		Logger:         zap.NewNop(),
	}
}

// Invocation describes one run of a module.
type Invocation struct {
	// Args are passed after the module name as WASI arguments.
	Args []string
	// EntryPoint is the exported function to call (default: "_start").
	EntryPoint string
	// Stdin is the content of the guest's standard input.
	Stdin []byte
}

// Result is the outcome of a run that did not trap.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode uint32
	// Truncated is set when output went past MaxOutputSize.
	Truncated bool
}

// Module is a compiled module ready to run.
type Module struct {
	name     string
	cfg      Config
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// Compile validates and compiles code. The returned module must be closed.
func Compile(ctx context.Context, name string, code []byte, opts ...Option) (*Module, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rc := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, rc)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to instantiate WASI: %w", err), runtime.Close(ctx))
	}
	if err := registerHostModule(ctx, runtime, cfg); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to instantiate host module: %w", err), runtime.Close(ctx))
	}

	compiled, err := runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to compile %s: %w", name, err), runtime.Close(ctx))
	}

	return &Module{name: name, cfg: cfg, runtime: runtime, compiled: compiled}, nil
}

// Name returns the module name given to Compile.
func (m *Module) Name() string { return m.name }

// Exports lists the exported function names.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	return names
}

// Run instantiates the module and calls the entry point. A WASI exit is
// reported through Result.ExitCode; traps and cancellation are errors.
func (m *Module) Run(ctx context.Context, inv Invocation) (Result, error) {
	entry := inv.EntryPoint
	if entry == "" {
		entry = DefaultEntryPoint
	}
	if _, ok := m.compiled.ExportedFunctions()[entry]; !ok {
		return Result{}, fmt.Errorf("entry point %q is not exported by %s", entry, m.name)
	}

	stdout := newBoundedBuffer(m.cfg.MaxOutputSize)
	stderr := newBoundedBuffer(m.cfg.MaxOutputSize)
	mc := wazero.NewModuleConfig().
		WithName("").
		WithArgs(append([]string{m.name}, inv.Args...)...).
		WithStdin(bytes.NewReader(inv.Stdin)).
		WithStdout(stdout).
		WithStderr(stderr).
		WithStartFunctions(entry)

	ctx = WithModuleName(ctx, m.name)
	mod, err := m.runtime.InstantiateModule(ctx, m.compiled, mc)
	if mod != nil {
		defer func() { _ = mod.Close(ctx) }()
	}

	res := Result{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.truncated || stderr.truncated,
	}
	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to run %s: %w", m.name, err)
	}
	return res, nil
}

// Close releases the runtime and everything compiled in it.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// registerHostModule exports log and the custom handlers.
func registerHostModule(ctx context.Context, runtime wazero.Runtime, cfg Config) error {
	builder := runtime.NewHostModuleBuilder(cfg.HostModuleName)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			handleLog(ctx, mod, stack, cfg)
		}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{}).
		Export("log")

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	_, err := builder.Instantiate(ctx)
	return err
}

// handleLog reads a message from guest memory and logs it.
func handleLog(ctx context.Context, mod api.Module, stack []uint64, cfg Config) {
	module := GetModuleName(ctx, mod)
	ptr, length := unpackPtrLen(stack[0])

	if length > cfg.MaxMessageSize {
		cfg.Logger.Warn("guest log message too large",
			zap.String("module", module),
			zap.Uint32("size", length),
			zap.Uint32("max", cfg.MaxMessageSize))
		return
	}

	mem := mod.Memory()
	if mem == nil {
		cfg.Logger.Warn("guest has no memory", zap.String("module", module))
		return
	}
	msg, ok := mem.Read(ptr, length)
	if !ok {
		cfg.Logger.Warn("failed to read log message from guest memory",
			zap.String("module", module),
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", length))
		return
	}
	cfg.Logger.Info(string(msg), zap.String("module", module))
}

// packPtrLen packs a pointer and length into a single i64.
// Upper 32 bits: pointer, lower 32 bits: length.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: Packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: Packed format stores 32-bit values
	return ptr, length
}
