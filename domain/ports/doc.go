// Package ports defines interfaces for the external subsystems shards drive.
// Unit packages depend on these abstractions; infrastructure adapters
// implement them.
package ports
