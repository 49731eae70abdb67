package entities

// ExposedInfo describes a named variable a shard publishes to, or demands
// from, the ancestor scope.
type ExposedInfo struct {
	Name string
	Help string
	Type TypeInfo
	// Mutable allows later shards to adopt and write the variable.
	Mutable bool
	// Protected entries are injected by containers for their children and are
	// hidden from user-chosen variable names.
	Protected bool
	// Global marks a variable living in the host scope rather than the run scope.
	Global bool
}

// ExposedTypes is an ordered set of exposed or required variables.
type ExposedTypes []ExposedInfo

// Find returns the entry with the given name, including protected entries.
func (e ExposedTypes) Find(name string) (ExposedInfo, bool) {
	// later entries shadow earlier ones
	for i := len(e) - 1; i >= 0; i-- {
		if e[i].Name == name {
			return e[i], true
		}
	}
	return ExposedInfo{}, false
}

// FindPublic is Find restricted to entries visible to user-chosen names.
func (e ExposedTypes) FindPublic(name string) (ExposedInfo, bool) {
	info, ok := e.Find(name)
	if !ok || info.Protected {
		return ExposedInfo{}, false
	}
	return info, true
}

// Clone returns an independent copy that can be extended.
func (e ExposedTypes) Clone() ExposedTypes {
	if e == nil {
		return nil
	}
	out := make(ExposedTypes, len(e))
	copy(out, e)
	return out
}

// With returns a copy of e extended with extra entries. e is left untouched.
func (e ExposedTypes) With(extra ...ExposedInfo) ExposedTypes {
	out := make(ExposedTypes, len(e), len(e)+len(extra))
	copy(out, e)
	return append(out, extra...)
}

// Names lists entry names in order.
func (e ExposedTypes) Names() []string {
	names := make([]string, len(e))
	for i, info := range e {
		names[i] = info.Name
	}
	return names
}
