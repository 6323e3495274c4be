package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/uday132/hackhub/internal/models"
)

type ctxKey string

const (
	CtxUserID    ctxKey = "user_id"
	CtxUserRole  ctxKey = "user_role"
	CtxRequestID ctxKey = "request_id"
)

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// RequestIDMiddleware tags every request with an id, honoring one supplied by
// the caller.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), CtxRequestID, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
		}
		if id, ok := r.Context().Value(CtxRequestID).(string); ok {
			attrs = append(attrs, slog.String("request_id", id))
		}
		logger.Info("request", attrs...)
		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err))
				writeError(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// JWTAuthMiddlewareWithSecret validates the bearer token and resolves the
// caller's identity and role into the request context. Missing or invalid
// credentials are an authentication failure (401); role checks are separate
// (see RequireAdmin).
func JWTAuthMiddlewareWithSecret(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if tokenString == "" || tokenString == authHeader {
				writeError(w, "Invalid Authorization header", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}

				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeError(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			id, ok := claims["user_id"].(float64)
			if !ok || id <= 0 {
				writeError(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}
			role := models.RoleUser
			if s, ok := claims["role"].(string); ok && models.Role(s).Valid() {
				role = models.Role(s)
			}

			ctx := context.WithValue(r.Context(), CtxUserID, int64(id))
			ctx = context.WithValue(ctx, CtxUserRole, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route on the resolved role. Wrong role is an
// authorization failure (403), distinct from the 401s above.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch callerRole(r) {
		case models.RoleAdmin:
			next.ServeHTTP(w, r)
		case models.RoleUser:
			writeError(w, "Admin access required", http.StatusForbidden)
		default:
			writeError(w, "Admin access required", http.StatusForbidden)
		}
	})
}

func callerID(r *http.Request) int64 {
	if id, ok := r.Context().Value(CtxUserID).(int64); ok {
		return id
	}
	return 0
}

func callerRole(r *http.Request) models.Role {
	if role, ok := r.Context().Value(CtxUserRole).(models.Role); ok {
		return role
	}
	return models.RoleUser
}
