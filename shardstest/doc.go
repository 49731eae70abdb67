// Package shardstest provides call-recording stub shards, a fake UI backend
// and assertions for tests of shard containers and hosts.
package shardstest
