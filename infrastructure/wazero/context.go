package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// contextKey is a private type for context keys.
type contextKey struct {
	name string
}

var moduleNameKey = &contextKey{name: "module_name"}

// WithModuleName adds the name of the running module to the context.
// Host functions use it to attribute log lines.
func WithModuleName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, moduleNameKey, name)
}

// ModuleNameFromContext retrieves the module name from the context.
func ModuleNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(moduleNameKey).(string)
	return name, ok
}

// GetModuleName extracts the module name from context, falling back to the
// instance name.
func GetModuleName(ctx context.Context, mod api.Module) string {
	if name, ok := ModuleNameFromContext(ctx); ok {
		return name
	}
	return mod.Name()
}
