// Package builtins provides the general-purpose shards every wire can use:
// constants, context variable access, logging and stopping a run.
package builtins
