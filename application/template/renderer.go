// Package template renders wire definitions with host configuration values
// before they are parsed.
//
// Values are addressed as {{ .config.key }}. Besides the text/template
// builtins, definitions may use:
//
//	default  {{ .config.width | default 80 }}   fallback for missing or empty values
//	yaml     {{ .config.points | yaml }}        inline YAML flow form of any value
//	required {{ required "title" .config.title }} fails when the value is missing
package template

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

type engineConfig struct {
	funcs  template.FuncMap
	strict bool
}

// Option configures a GoTemplateEngine.
type Option func(*engineConfig)

// WithStrict makes references to missing keys fail rendering (the default).
func WithStrict(enabled bool) Option {
	return func(c *engineConfig) {
		c.strict = enabled
	}
}

// WithFuncs adds template functions. They override the builtins of the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(c *engineConfig) {
		for name, fn := range funcs {
			c.funcs[name] = fn
		}
	}
}

// GoTemplateEngine renders definitions with text/template.
type GoTemplateEngine struct {
	cfg engineConfig
}

var _ ports.TemplateEngine = (*GoTemplateEngine)(nil)

// NewGoTemplateEngine creates an engine. Strict mode is on by default.
func NewGoTemplateEngine(opts ...Option) *GoTemplateEngine {
	cfg := engineConfig{
		strict: true,
		funcs: template.FuncMap{
			"default":  defaultValue,
			"yaml":     inlineYAML,
			"required": required,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{cfg: cfg}
}

// Render executes raw as a template over config.
func (e *GoTemplateEngine) Render(raw []byte, config map[string]interface{}) ([]byte, error) {
	tmpl := template.New("wire").Funcs(e.cfg.funcs)
	if e.cfg.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse wire template: %w", err)
	}

	if config == nil {
		config = map[string]interface{}{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{"config": config}); err != nil {
		return nil, fmt.Errorf("failed to execute wire template: %w", err)
	}
	return buf.Bytes(), nil
}

// defaultValue returns fallback when value is nil or the zero value of its type.
func defaultValue(fallback, value interface{}) interface{} {
	if value == nil {
		return fallback
	}
	if rv := reflect.ValueOf(value); rv.IsZero() {
		return fallback
	}
	return value
}

func inlineYAML(value interface{}) (string, error) {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return "", err
	}
	setFlowStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func setFlowStyle(n *yaml.Node) {
	if n.Kind == yaml.SequenceNode || n.Kind == yaml.MappingNode {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlowStyle(c)
	}
}

func required(name string, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, fmt.Errorf("%s is required", name)
	}
	return value, nil
}
