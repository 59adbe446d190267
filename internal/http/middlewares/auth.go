package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	httperrors "github.com/dropDatabas3/autolink/internal/http/errors"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// TokenVerifier valida un bearer token y devuelve el subject (user id).
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// HS256Verifier valida los access tokens emitidos por el proveedor de auth
// (Supabase firma con HS256 y aud=authenticated).
type HS256Verifier struct {
	secret   []byte
	audience string
	leeway   time.Duration
}

func NewHS256Verifier(secret, audience string) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret), audience: audience, leeway: 30 * time.Second}
}

var errMissingSub = errors.New("token has no subject")

func (v *HS256Verifier) Verify(raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...); err != nil {
		return "", err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errMissingSub
	}
	return claims.Subject, nil
}

func bearer(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[7:])
}

// RequireAuth valida Authorization: Bearer <JWT> y guarda el user id en el contexto.
// Si el token es inválido o no está presente, responde 401.
func RequireAuth(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			sub, err := v.Verify(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				if errors.Is(err, jwt.ErrTokenExpired) {
					httperrors.WriteError(w, httperrors.ErrTokenExpired)
					return
				}
				httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithCause(fmt.Errorf("verify bearer: %w", err)))
				return
			}

			ctx := WithUserID(r.Context(), sub)
			ctx = logger.WithFields(ctx, logger.UserID(sub))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
