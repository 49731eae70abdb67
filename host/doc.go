// Package host turns declarative wire definitions into runnable wires.
//
// The loading pipeline renders the definition template with host
// configuration, parses the YAML, validates its structure and every shard's
// parameters, then instantiates the shards through a registry and sets their
// parameters by name. Nested wires ({wire: [...]}) are built recursively and
// passed to their container as wire parameters.
package host
