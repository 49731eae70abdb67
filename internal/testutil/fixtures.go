// Package testutil holds guest modules used by the wazero and Wasm.Run tests.
package testutil

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasm-runtime/wat"
)

// MustCompile compiles WAT source and panics on error.
func MustCompile(source string) []byte {
	b, err := wat.Compile(source)
	if err != nil {
		panic(fmt.Sprintf("testutil: compile wat: %v", err))
	}
	return b
}

// Empty exports a _start that does nothing.
func Empty() []byte {
	return MustCompile(`(module (func (export "_start")))`)
}

// Entries exports _start, which does nothing, and fail, which traps.
func Entries() []byte {
	return MustCompile(`(module
		(func (export "_start"))
		(func (export "fail") unreachable))`)
}

// Echo copies up to 64 bytes of stdin to stdout.
func Echo() []byte {
	// iovec {buf: 32, len: 64} at 0, nread at 16, nwritten at 20
	return MustCompile(`(module
		(import "wasi_snapshot_preview1" "fd_read" (func $fd_read (param i32 i32 i32 i32) (result i32)))
		(import "wasi_snapshot_preview1" "fd_write" (func $fd_write (param i32 i32 i32 i32) (result i32)))
		(memory (export "memory") 1)
		(data (i32.const 0) "\20\00\00\00\40\00\00\00")
		(func (export "_start")
			(drop (call $fd_read (i32.const 0) (i32.const 0) (i32.const 1) (i32.const 16)))
			(i32.store (i32.const 4) (i32.load (i32.const 16)))
			(drop (call $fd_write (i32.const 1) (i32.const 0) (i32.const 1) (i32.const 20)))))`)
}

// Exit calls proc_exit with code.
func Exit(code int32) []byte {
	return MustCompile(fmt.Sprintf(`(module
		(import "wasi_snapshot_preview1" "proc_exit" (func $exit (param i32)))
		(memory (export "memory") 1)
		(func (export "_start") (call $exit (i32.const %d))))`, code))
}

// Log passes msg to the host log function of hostModule as a packed
// (offset<<32 | length) pointer.
func Log(hostModule, msg string) []byte {
	const offset = 8
	return MustCompile(fmt.Sprintf(`(module
		(import %q "log" (func $log (param i64)))
		(memory (export "memory") 1)
		(data (i32.const %d) "%s")
		(func (export "_start") (call $log (i64.const %d))))`,
		hostModule, offset, escape(msg), int64(offset)<<32|int64(len(msg))))
}

// Memory declares a memory of pages and does nothing.
func Memory(pages uint32) []byte {
	return MustCompile(fmt.Sprintf(`(module
		(memory (export "memory") %d)
		(func (export "_start")))`, pages))
}

func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		fmt.Fprintf(&b, `\%02x`, s[i])
	}
	return b.String()
}
