// Package entities provides the value and type model shared by every shard:
// the tagged Var union, TypeInfo descriptors and their matching rules,
// exposed/required variable records, parameter descriptions, identity keys and
// the plain data exchanged with UI and physics backends.
package entities
