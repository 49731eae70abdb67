package shardstest

import (
	"fmt"
	"sync"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// Recorder collects lifecycle calls of several stubs in global order.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Record appends "op:label".
func (r *Recorder) Record(op, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op+":"+label)
}

// Calls returns every recorded call.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Ops returns the labels recorded for one operation, in order.
func (r *Recorder) Ops(op string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	prefix := op + ":"
	for _, c := range r.calls {
		if len(c) > len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c[len(prefix):])
		}
	}
	return out
}

// Reset forgets every call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Stub is a configurable shard that counts and records its lifecycle calls.
type Stub struct {
	shards.Base

	Label    string
	In       entities.Types
	Out      entities.Types
	Required entities.ExposedTypes
	Exposed  entities.ExposedTypes
	Params   entities.Parameters

	// Output is returned by Activate when ActivateFn is nil.
	Output     entities.Var
	ActivateFn func(ctx *shards.Context, input entities.Var) (entities.Var, error)
	ComposeErr error
	WarmupErr  error
	CleanupErr error

	Recorder *Recorder
	Counts   map[string]int

	values []entities.Var
}

// NewStub creates a passthrough stub accepting and returning Any.
func NewStub(label string, rec *Recorder) *Stub {
	return &Stub{
		Base:     shards.NewBase(),
		Label:    label,
		In:       entities.AnyTypes,
		Out:      entities.AnyTypes,
		Recorder: rec,
		Counts:   make(map[string]int),
	}
}

// Failing returns a stub whose activation fails with err.
func Failing(label string, rec *Recorder, err error) *Stub {
	s := NewStub(label, rec)
	s.ActivateFn = func(*shards.Context, entities.Var) (entities.Var, error) {
		return entities.None(), err
	}
	return s
}

func (s *Stub) record(op string) {
	s.Counts[op]++
	if s.Recorder != nil {
		s.Recorder.Record(op, s.Label)
	}
}

// Calls returns the number of calls to op.
func (s *Stub) Calls(op string) int { return s.Counts[op] }

func (s *Stub) Name() string { return "Stub." + s.Label }

func (s *Stub) InputTypes() entities.Types { return s.In }

func (s *Stub) OutputTypes() entities.Types { return s.Out }

func (s *Stub) Parameters() entities.Parameters { return s.Params }

func (s *Stub) SetParam(index int, value entities.Var) error {
	if index < 0 || index >= len(s.Params) {
		return fmt.Errorf("index %d out of range", index)
	}
	if s.values == nil {
		s.values = make([]entities.Var, len(s.Params))
	}
	s.values[index] = value
	return nil
}

func (s *Stub) GetParam(index int) entities.Var {
	if index < 0 || index >= len(s.values) {
		return entities.None()
	}
	return s.values[index]
}

func (s *Stub) RequiredVariables() entities.ExposedTypes { return s.Required }

func (s *Stub) ExposedVariables() entities.ExposedTypes { return s.Exposed }

func (s *Stub) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	s.record("compose")
	if s.ComposeErr != nil {
		return entities.TypeInfo{}, s.ComposeErr
	}
	return shards.PassthroughCompose(s, data), nil
}

func (s *Stub) Warmup(*shards.Context) error {
	s.record("warmup")
	return s.WarmupErr
}

func (s *Stub) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	s.record("activate")
	if s.ActivateFn != nil {
		return s.ActivateFn(ctx, input)
	}
	if s.Output.IsNone() {
		return input, nil
	}
	return s.Output, nil
}

func (s *Stub) Cleanup() error {
	s.record("cleanup")
	return s.CleanupErr
}
