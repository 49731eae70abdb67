// Package wasm provides the Wasm.Run shard, which runs a WebAssembly command
// module (WASI) once per activation. The input string is the module's stdin
// and the captured stdout is the output.
package wasm
