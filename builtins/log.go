package builtins

import (
	"fmt"
	"log/slog"
	"strings"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

var logParameters = entities.Parameters{
	{Name: "Prefix", Help: "Message logged with the value.", Types: entities.StringOrNone},
	{Name: "Level", Help: "One of debug, info, warn or error.", Types: entities.StringOrNone},
}

// Log writes its input to the run logger and passes it on.
type Log struct {
	shards.Base
	prefix string
	level  slog.Level
	params *shards.ParamSet
}

// NewLog creates a Log shard logging at info level.
func NewLog(prefix string) *Log {
	l := &Log{Base: shards.NewBase(), prefix: prefix, level: slog.LevelInfo}
	l.params = shards.NewParamSet("Log", logParameters).
		Bind(0, l.getPrefix, l.setPrefix).
		Bind(1, l.getLevel, l.setLevel)
	return l
}

func (l *Log) getPrefix() entities.Var { return entities.String(l.prefix) }

func (l *Log) setPrefix(v entities.Var) error {
	l.prefix, _ = v.AsString()
	return nil
}

func (l *Log) getLevel() entities.Var { return entities.String(strings.ToLower(l.level.String())) }

func (l *Log) setLevel(v entities.Var) error {
	s, _ := v.AsString()
	if s == "" {
		l.level = slog.LevelInfo
		return nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("unknown log level %q", s)
	}
	l.level = level
	return nil
}

func (l *Log) Name() string                    { return "Log" }
func (l *Log) Help() string                    { return "Logs the input value and outputs it unchanged." }
func (l *Log) InputTypes() entities.Types      { return entities.AnyTypes }
func (l *Log) OutputTypes() entities.Types     { return entities.AnyTypes }
func (l *Log) Parameters() entities.Parameters { return logParameters }

func (l *Log) SetParam(index int, value entities.Var) error { return l.params.Set(index, value) }

func (l *Log) GetParam(index int) entities.Var { return l.params.Get(index) }

func (l *Log) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	return data.InputType, nil
}

func (l *Log) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	msg := l.prefix
	if msg == "" {
		msg = "value"
	}
	ctx.Slog().Log(ctx.Context(), l.level, msg,
		slog.String("value", input.String()),
		slog.Uint64("tick", ctx.Tick()),
	)
	return input, nil
}

// Stop ends the run after the current shard. Shards after it are skipped.
type Stop struct {
	shards.Base
}

// NewStop creates a Stop shard.
func NewStop() *Stop {
	return &Stop{Base: shards.NewBase()}
}

func (s *Stop) Name() string                    { return "Stop" }
func (s *Stop) Help() string                    { return "Requests the run to stop." }
func (s *Stop) InputTypes() entities.Types      { return entities.AnyTypes }
func (s *Stop) OutputTypes() entities.Types     { return entities.AnyTypes }
func (s *Stop) Parameters() entities.Parameters { return nil }

func (s *Stop) SetParam(index int, value entities.Var) error {
	return shards.NewParamSet("Stop", nil).Set(index, value)
}

func (s *Stop) GetParam(int) entities.Var { return entities.None() }

func (s *Stop) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	return data.InputType, nil
}

func (s *Stop) Activate(ctx *shards.Context, input entities.Var) (entities.Var, error) {
	ctx.Stop()
	return input, nil
}
