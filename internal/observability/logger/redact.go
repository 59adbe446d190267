package logger

import (
	"go.uber.org/zap/zapcore"
)

// sensitiveKeys nunca llegan en claro al output, vengan del helper que vengan.
var sensitiveKeys = map[string]struct{}{
	"access_token":   {},
	"refresh_token":  {},
	"client_secret":  {},
	"code":           {},
	"authorization":  {},
	"linkedin_token": {},
	"service_key":    {},
}

// redactCore enmascara los campos string de sensitiveKeys.
type redactCore struct {
	zapcore.Core
}

func newRedactCore(c zapcore.Core) zapcore.Core { return &redactCore{Core: c} }

func (c *redactCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactCore{Core: c.Core.With(redact(fields))}
}

func (c *redactCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *redactCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(e, redact(fields))
}

func redact(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		if _, ok := sensitiveKeys[f.Key]; !ok || f.Type != zapcore.StringType {
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
		}
		out[i].String = Mask(f.String)
	}
	if out == nil {
		return fields
	}
	return out
}
