// Package registry provides the immutable catalogue of shard kinds.
//
// Each kind registers a unique name, a semantic version and a factory. The
// pair (name, version) yields a stable 32-bit hash that serves as the
// persisted identity of the kind. A registry is built once with functional
// options and is safe for concurrent lookups afterwards.
//
// Example usage:
//
//	reg, err := registry.New(
//	    registry.WithMiddleware(registry.PanicRecoveryMiddleware()),
//	    registry.WithBundle(builtins.Bundle()),
//	    registry.WithShard("Custom", "v1.0.0", newCustom),
//	)
//	shard, err := reg.Create("Custom")
package registry
