// Package wazero runs WebAssembly command modules on the wazero runtime.
//
// Modules are compiled once and instantiated for every run with fresh WASI
// arguments, stdin and captured stdout/stderr. Each compiled module owns its
// runtime so memory limits apply per module.
//
// # Basic Usage
//
//	mod, err := wazero.Compile(ctx, "filter", code,
//	    wazero.WithMemoryLimitPages(16),
//	    wazero.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer mod.Close(ctx)
//
//	res, err := mod.Run(ctx, wazero.Invocation{Stdin: []byte("input")})
//
// # Host Functions
//
// The host module (default "shards_host") exports log, which takes one i64
// packing a guest pointer in the upper 32 bits and a length in the lower 32
// bits, and writes the message to the configured zap logger. Further
// functions can be added with WithCustomHandler.
package wazero
