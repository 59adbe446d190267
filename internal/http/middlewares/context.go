package middlewares

import "context"

type ctxKey int

const (
	ctxRequestIDKey ctxKey = iota
	ctxUserIDKey
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, rid)
}

// GetRequestID devuelve el request id del contexto, o "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxRequestIDKey).(string)
	return v
}

// WithUserID guarda el id del usuario autenticado.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

// GetUserID devuelve el id del usuario autenticado, o "".
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserIDKey).(string)
	return v
}
