package host

import (
	"fmt"
	"os"
	"sort"

	shards "github.com/reglet-dev/shards-sdk/go"
	apptemplate "github.com/reglet-dev/shards-sdk/go/application/template"
	"github.com/reglet-dev/shards-sdk/go/application/validation"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
	"github.com/reglet-dev/shards-sdk/go/infrastructure/parser"
	"github.com/reglet-dev/shards-sdk/go/registry"
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	templateEngine  ports.TemplateEngine
	parser          ports.WireParser
	strictTemplates bool // Fail on missing template keys
	validate        bool
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		parser:          parser.NewYamlWireParser(),
		strictTemplates: true, // Secure default: fail on missing keys
		validate:        true,
	}
}

// Loader orchestrates the wire loading pipeline.
type Loader struct {
	registry  *registry.Registry
	validator *validation.DefinitionValidator
	config    loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithParser sets a custom wire parser.
func WithParser(p ports.WireParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// WithTemplateEngine sets a template engine.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(c *loaderConfig) {
		c.templateEngine = t
	}
}

// WithStrictTemplates enables/disables strict template mode.
// When enabled (default), template rendering fails if a referenced key is missing.
func WithStrictTemplates(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.strictTemplates = enabled
	}
}

// WithValidation enables/disables schema validation before building.
// Parameters are still type-checked by SetParam when disabled.
func WithValidation(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.validate = enabled
	}
}

// NewLoader creates a new Loader creating shards from reg.
func NewLoader(reg *registry.Registry, opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Create default template engine if not provided
	if cfg.templateEngine == nil {
		cfg.templateEngine = apptemplate.NewGoTemplateEngine(
			apptemplate.WithStrict(cfg.strictTemplates),
		)
	}

	l := &Loader{registry: reg, config: cfg}
	if cfg.validate {
		l.validator = validation.NewDefinitionValidator(reg)
	}
	return l
}

// LoadDefinition renders, parses and validates a wire definition.
func (l *Loader) LoadDefinition(raw []byte, config map[string]interface{}) (*entities.WireDefinition, error) {
	data := raw

	if l.config.templateEngine != nil {
		var err error
		data, err = l.config.templateEngine.Render(raw, config)
		if err != nil {
			return nil, fmt.Errorf("failed to render wire: %w", err)
		}
	}

	def, err := l.config.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wire: %w", err)
	}

	if err := l.Validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Validate checks def against the registry. It is a no-op when validation is disabled.
func (l *Loader) Validate(def *entities.WireDefinition) error {
	if l.validator == nil {
		return nil
	}
	res, err := l.validator.Validate(def)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return res.Err()
}

// Load runs the whole pipeline and builds the wire.
func (l *Loader) Load(raw []byte, config map[string]interface{}) (*shards.Wire, *entities.WireDefinition, error) {
	def, err := l.LoadDefinition(raw, config)
	if err != nil {
		return nil, nil, err
	}
	w, err := l.Build(def)
	if err != nil {
		return nil, nil, err
	}
	return w, def, nil
}

// LoadFile reads path and calls Load.
func (l *Loader) LoadFile(path string, config map[string]interface{}) (*shards.Wire, *entities.WireDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read wire: %w", err)
	}
	return l.Load(raw, config)
}

// Build instantiates every shard of def and sets its parameters.
func (l *Loader) Build(def *entities.WireDefinition) (*shards.Wire, error) {
	w := shards.NewWire(def.Name)
	for _, sd := range def.Shards {
		s, err := l.buildShard(def.Name, sd)
		if err != nil {
			return nil, err
		}
		w.Add(s)
	}
	return w, nil
}

func (l *Loader) buildShard(wireName string, sd entities.ShardDefinition) (shards.Shard, error) {
	s, err := l.registry.Create(sd.Name)
	if err != nil {
		return nil, fmt.Errorf("wire %s: %w", wireName, err)
	}
	params := s.Parameters()

	// Parameters are applied in declaration order
	names := make([]string, 0, len(sd.Params))
	for name := range sd.Params {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return params.IndexOf(names[i]) < params.IndexOf(names[j])
	})

	for _, name := range names {
		idx := params.IndexOf(name)
		if idx < 0 {
			return nil, &sdkErrors.ConfigurationError{Shard: sd.Name, Param: name, Index: idx, Err: sdkErrors.ErrParamIndex}
		}
		v, err := l.convert(wireName, sd.Name, name, params[idx].Types, sd.Params[name])
		if err != nil {
			return nil, &sdkErrors.ConfigurationError{Shard: sd.Name, Param: name, Index: idx, Err: err}
		}
		if err := s.SetParam(idx, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (l *Loader) convert(wireName, shard, param string, types entities.Types, raw any) (entities.Var, error) {
	if nested, ok := validation.NestedWire(raw); ok {
		sub, err := l.Build(&entities.WireDefinition{
			Name:   wireName + "/" + shard + "." + param,
			Shards: nested,
		})
		if err != nil {
			return entities.None(), err
		}
		return shards.WireVar(sub), nil
	}
	v, err := entities.FromAny(raw)
	if err != nil {
		return entities.None(), err
	}
	return Coerce(v, types), nil
}

// Coerce widens integer literals where only floats are accepted, including
// inside sequences, so that YAML like "Position: [0, 1, 0]" fits a float
// sequence parameter.
func Coerce(v entities.Var, types entities.Types) entities.Var {
	if types.MatchValue(v) {
		return v
	}
	for _, t := range types {
		if c, ok := coerceTo(v, t); ok {
			return c
		}
	}
	return v
}

func coerceTo(v entities.Var, t entities.TypeInfo) (entities.Var, bool) {
	switch {
	case t.Basic == entities.TypeFloat && v.Kind() == entities.TypeInt:
		f, _ := v.AsFloat()
		return entities.Float(f), true
	case t.Basic == entities.TypeSeq && v.Kind() == entities.TypeSeq && len(t.Elements) > 0:
		items, _ := v.AsSeq()
		out := make([]entities.Var, len(items))
		for i, item := range items {
			out[i] = Coerce(item, entities.Types(t.Elements))
		}
		seq := entities.Seq(out...)
		return seq, t.MatchesValue(seq)
	}
	return v, false
}
