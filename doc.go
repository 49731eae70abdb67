// Package shards is the execution core of the SDK: composable units
// ("shards") arranged into ordered wires, composed once against a static
// variable context and then warmed up, activated every tick, and cleaned up.
//
// # Lifecycle
//
// Every shard implements the same protocol:
//
//	Compose  top-down, once per (re)build, side-effect free
//	Warmup   top-down, once per execution start, fail-fast
//	Activate top-down, once per tick, first error aborts the tick
//	Cleanup  bottom-up, once per execution end, always on every child
//
// A Runner drives the whole sequence for a root wire:
//
//	wire := shards.NewWire("main",
//	    builtins.NewConst(entities.Int(42)),
//	    builtins.NewSet("answer"),
//	)
//	runner := shards.NewRunner(wire)
//	out, err := runner.Run(ctx, 10)
//
// # Variables
//
// Shards publish named variables with ExposedVariables and demand them with
// RequiredVariables. Compose checks every requirement against the variables
// exposed by ancestors and earlier siblings before any resource is touched.
// ParamVar binds a parameter to such a variable and resolves it at warmup.
//
// # Identity
//
// Each shard instance receives an arena-assigned InstanceID at construction.
// Containers derive entities.IdentityKey values from it to let immediate-mode
// backends recognise the same region across ticks.
package shards
