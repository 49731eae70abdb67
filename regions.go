package shards

import (
	"go.uber.org/multierr"
)

// Regions is a fixed set of named slots visited in a documented order that
// does not depend on parameter order. Cleanup visits them in reverse.
type Regions struct {
	slots []Slot
	names []string
	order []int
}

// NewRegions creates len(names) empty slots. order lists slot indices in
// traversal order and must be a permutation of them.
func NewRegions(names []string, order []int) *Regions {
	if len(order) != len(names) {
		panic("regions: order must cover every slot")
	}
	return &Regions{
		slots: make([]Slot, len(names)),
		names: names,
		order: order,
	}
}

// Slot returns the slot at parameter index i.
func (r *Regions) Slot(i int) *Slot { return &r.slots[i] }

// Name returns the name of slot i.
func (r *Regions) Name(i int) string { return r.names[i] }

// Order returns the traversal order.
func (r *Regions) Order() []int { return r.order }

// Len returns the number of slots.
func (r *Regions) Len() int { return len(r.slots) }

// Compose composes every non-empty slot in traversal order, each against data.
// Slots do not see each other's exposures.
func (r *Regions) Compose(data InstanceData) error {
	for _, i := range r.order {
		if r.slots[i].IsEmpty() {
			continue
		}
		if _, err := r.slots[i].Compose(data); err != nil {
			return err
		}
	}
	return nil
}

// Warmup warms the non-empty slots in traversal order and stops at the first failure.
func (r *Regions) Warmup(ctx *Context) error {
	for _, i := range r.order {
		if r.slots[i].IsEmpty() {
			continue
		}
		if err := r.slots[i].Warmup(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Each calls fn for every non-empty slot in traversal order and stops at the
// first error.
func (r *Regions) Each(fn func(index int, slot *Slot) error) error {
	for _, i := range r.order {
		if r.slots[i].IsEmpty() {
			continue
		}
		if err := fn(i, &r.slots[i]); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup cleans every non-empty slot in reverse traversal order.
func (r *Regions) Cleanup() error {
	var errs error
	for k := len(r.order) - 1; k >= 0; k-- {
		i := r.order[k]
		if r.slots[i].IsEmpty() {
			continue
		}
		errs = multierr.Append(errs, r.slots[i].Cleanup())
	}
	return errs
}

// Params binds every slot to a ParamSet at the same index offset.
func (r *Regions) Params(p *ParamSet, offset int) *ParamSet {
	for i := range r.slots {
		p.Slot(offset+i, &r.slots[i])
	}
	return p
}
