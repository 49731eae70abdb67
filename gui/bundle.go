package gui

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
	"github.com/reglet-dev/shards-sdk/go/registry"
)

// Bundle returns the registry entries of this package. Every GUI shard it
// creates draws on backend.
func Bundle(backend ports.UIBackend, opts ...Option) registry.Bundle {
	return registry.NewBundle(
		registry.Entry{Name: "GUI", Version: "v1.0.0", Factory: func() shards.Shard { return NewGUI(backend, opts...) }},
		registry.Entry{Name: "GUI.Panels", Version: "v1.0.0", Factory: func() shards.Shard { return NewPanels() }},
		registry.Entry{Name: "UI.Group", Version: "v1.0.0", Factory: func() shards.Shard { return NewGroup() }},
		registry.Entry{Name: "UI.Label", Version: "v1.0.0", Factory: func() shards.Shard { return NewLabel() }},
		registry.Entry{Name: "UI.Combo", Version: "v1.0.0", Factory: func() shards.Shard { return NewCombo() }},
		registry.Entry{Name: "UI.TextInput", Version: "v1.0.0", Factory: func() shards.Shard { return NewTextInput() }},
		registry.Entry{Name: "UI.Plot", Version: "v1.0.0", Factory: func() shards.Shard { return NewPlot() }},
		registry.Entry{Name: "UI.PlotLine", Version: "v1.0.0", Factory: func() shards.Shard { return NewPlotLine() }},
	)
}
