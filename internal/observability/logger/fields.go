package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

func DurationMs(v time.Duration) zap.Field { return zap.Int64("duration_ms", v.Milliseconds()) }

// =================================================================================
// DOMINIO
// =================================================================================

// UserID is the internal account id, never the provider's.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// ExternalID is the provider-side subject.
func ExternalID(v string) zap.Field { return zap.String("external_profile_id", v) }

func Provider(v string) zap.Field { return zap.String("provider", v) }

// Stage is the callback state machine position.
func Stage(v string) zap.Field { return zap.String("stage", v) }

// ErrCode is the machine-readable code sent back to the UI.
func ErrCode(v string) zap.Field { return zap.String("error_code", v) }

// Token logs a masked token.
func Token(key, v string) zap.Field { return zap.String(key, Mask(v)) }

// =================================================================================
// SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }

// Mask keeps the first and last 3 characters of a secret.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:3] + "…" + s[len(s)-3:]
}
