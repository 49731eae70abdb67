package entities

// WireDefinition is the declarative form of a wire loaded from YAML.
type WireDefinition struct {
	Name   string            `json:"name" yaml:"name" validate:"required"`
	Shards []ShardDefinition `json:"shards" yaml:"shards" validate:"dive"`
	Looped bool              `json:"looped,omitempty" yaml:"looped,omitempty"`
}

// ShardDefinition names a registered shard and its parameters by name.
//
// Parameter values are plain YAML data. Two map forms are reserved:
// {var: name} binds a context variable and {wire: [...]} nests a wire.
type ShardDefinition struct {
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Name   string         `json:"shard" yaml:"shard" validate:"required"`
}
