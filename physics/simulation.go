package physics

import (
	"fmt"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
	"github.com/reglet-dev/shards-sdk/go/infrastructure/integrator"
)

var simulationParameters = entities.Parameters{
	{Name: "TimeStep", Help: "Seconds simulated per activation. Defaults to 1/60.", Types: entities.FloatVarOrNone},
}

const defaultTimeStep = 1.0 / 60

// Simulation owns a World and steps it once per activation. Its input passes through.
type Simulation struct {
	shards.Base
	backend  ports.PhysicsBackend
	timeStep shards.ParamVar
	world    *World
	sim      shards.ParamVar
	params   *shards.ParamSet
}

// NewSimulation creates a simulation stepping backend. A nil backend uses
// the built-in integrator.
func NewSimulation(backend ports.PhysicsBackend) *Simulation {
	if backend == nil {
		backend = integrator.New()
	}
	s := &Simulation{
		Base:    shards.NewBase(),
		backend: backend,
		sim:     shards.NewParamVar(entities.ContextVar(SimulationName)),
	}
	s.params = shards.NewParamSet(SimulationName, simulationParameters).Var(0, &s.timeStep)
	return s
}

func (s *Simulation) Name() string                    { return SimulationName }
func (s *Simulation) Help() string                    { return "Steps a rigid body simulation." }
func (s *Simulation) InputTypes() entities.Types      { return entities.AnyTypes }
func (s *Simulation) OutputTypes() entities.Types     { return entities.AnyTypes }
func (s *Simulation) Parameters() entities.Parameters { return simulationParameters }

func (s *Simulation) SetParam(index int, value entities.Var) error { return s.params.Set(index, value) }

func (s *Simulation) GetParam(index int) entities.Var { return s.params.Get(index) }

func (s *Simulation) RequiredVariables() entities.ExposedTypes {
	return requirement(&s.timeStep, entities.FloatType)
}

func (s *Simulation) ExposedVariables() entities.ExposedTypes {
	return entities.ExposedTypes{{
		Name:      SimulationName,
		Help:      "The physics simulation.",
		Type:      SimulationType,
		Protected: true,
	}}
}

func (s *Simulation) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	return data.InputType, nil
}

// World returns the world of the current run, nil outside warmup and cleanup.
func (s *Simulation) World() *World { return s.world }

func (s *Simulation) Warmup(ctx *shards.Context) error {
	if err := s.timeStep.Warmup(ctx); err != nil {
		return err
	}
	if err := s.sim.Warmup(ctx); err != nil {
		return err
	}
	s.world = NewWorld(s.backend)
	s.sim.Set(entities.NewObject(SimulationObjectType, s.world))
	return nil
}

func (s *Simulation) Activate(_ *shards.Context, input entities.Var) (entities.Var, error) {
	dt, err := float(s.timeStep.Get(), defaultTimeStep)
	if err != nil {
		return entities.None(), fmt.Errorf("invalid time step: %w", err)
	}
	if err := s.world.Step(dt); err != nil {
		return entities.None(), err
	}
	return input, nil
}

func (s *Simulation) Cleanup() error {
	if s.sim.IsResolved() {
		s.sim.Set(entities.None())
	}
	s.sim.Cleanup()
	s.timeStep.Cleanup()
	s.world = nil
	return nil
}
