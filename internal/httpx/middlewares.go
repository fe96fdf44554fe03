package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nikolayk812/grocery-cart/internal/identity"
	"github.com/nikolayk812/grocery-cart/internal/session"
	"go.uber.org/zap"
)

const deviceCookie = "device_id"

type contextKey string

const (
	ctxKeySession contextKey = "session"
	ctxKeyToken   contextKey = "token"
)

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxKeySession).(*session.Session)
	return s
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(ctxKeyToken).(string)
	return t
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// attachDevice loads the session of the device_id cookie, issuing a new
// device id when the cookie is missing or malformed.
func (h *Handler) attachDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := ""
		if c, err := r.Cookie(deviceCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				deviceID = c.Value
			}
		}

		if deviceID == "" {
			deviceID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     deviceCookie,
				Value:    deviceID,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				Secure:   h.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		s, err := h.sessions.Get(r.Context(), deviceID)
		if err != nil {
			h.logger.Error("session lookup failed", zap.String("device_id", deviceID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "session_error", msgGeneric)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// attachIdentity moves the device to the identity of the bearer token,
// or to the guest when there is none.
func (h *Handler) attachIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)

		id, err := h.tokens.Resolve(token)
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				h.logger.Error("token resolve failed", zap.Error(err))
			}
			writeError(w, http.StatusUnauthorized, "invalid_token", msgSessionExpired)
			return
		}

		s := sessionFrom(r.Context())
		if s.Identity.Set(r.Context(), id) {
			h.logger.Debug("identity changed",
				zap.String("device_id", s.DeviceID),
				zap.Stringer("identity", id))
		}

		ctx := context.WithValue(r.Context(), ctxKeyToken, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}
