package registry

// Bundle is a pre-configured set of related shard kinds.
// Bundles allow registering several kinds at once.
type Bundle interface {
	Entries() []Entry
}

// staticBundle implements Bundle with a fixed entry list.
type staticBundle struct {
	entries []Entry
}

func (b *staticBundle) Entries() []Entry {
	return b.entries
}

// NewBundle creates a bundle from entries.
func NewBundle(entries ...Entry) Bundle {
	return &staticBundle{entries: entries}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []Bundle
}

func (b *compositeBundle) Entries() []Entry {
	var result []Entry
	for _, bundle := range b.bundles {
		result = append(result, bundle.Entries()...)
	}
	return result
}

// Combine returns a bundle containing the entries of every given bundle.
func Combine(bundles ...Bundle) Bundle {
	return &compositeBundle{bundles: bundles}
}
