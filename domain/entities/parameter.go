package entities

// ParameterInfo describes one index-addressed shard parameter.
type ParameterInfo struct {
	Name  string `json:"name" validate:"required"`
	Help  string `json:"help"`
	Types Types  `json:"-" validate:"min=1"`
}

// Parameters is the ordered parameter list of a shard kind.
type Parameters []ParameterInfo

// IndexOf returns the index of the named parameter or -1.
func (p Parameters) IndexOf(name string) int {
	for i, info := range p {
		if info.Name == name {
			return i
		}
	}
	return -1
}
