package ports

import "github.com/reglet-dev/shards-sdk/go/domain/entities"

// WireParser decodes a declarative wire definition.
type WireParser interface {
	Parse(data []byte) (*entities.WireDefinition, error)
}

// ShardCatalog exposes the parameter tables of registered shard kinds.
type ShardCatalog interface {
	Parameters(name string) (entities.Parameters, bool)
}
