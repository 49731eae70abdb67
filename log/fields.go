package log

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
)

// toZapField converts a slog.Attr to the equivalent zap field.
func toZapField(attr slog.Attr) zap.Field {
	attr.Value = attr.Value.Resolve()

	switch attr.Value.Kind() {
	case slog.KindString:
		return zap.String(attr.Key, attr.Value.String())
	case slog.KindInt64:
		return zap.Int64(attr.Key, attr.Value.Int64())
	case slog.KindUint64:
		return zap.Uint64(attr.Key, attr.Value.Uint64())
	case slog.KindBool:
		return zap.Bool(attr.Key, attr.Value.Bool())
	case slog.KindFloat64:
		return zap.Float64(attr.Key, attr.Value.Float64())
	case slog.KindTime:
		return zap.Time(attr.Key, attr.Value.Time())
	case slog.KindDuration:
		return zap.Duration(attr.Key, attr.Value.Duration())
	case slog.KindGroup:
		group := attr.Value.Group()
		fields := make([]zap.Field, len(group))
		for i, a := range group {
			fields[i] = toZapField(a)
		}
		return zap.Dict(attr.Key, fields...)
	case slog.KindAny:
		v := attr.Value.Any()
		if err, isErr := v.(error); isErr {
			return zap.NamedError(attr.Key, err)
		}
		if s, isStringer := v.(fmt.Stringer); isStringer {
			return zap.Stringer(attr.Key, s)
		}
		return zap.Any(attr.Key, v)
	}
	return zap.Any(attr.Key, attr.Value.Any())
}
