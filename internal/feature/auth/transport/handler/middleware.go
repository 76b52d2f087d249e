package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
	"ohlcv_dashboard/internal/feature/auth/transport/http/dto"
	"ohlcv_dashboard/internal/feature/auth/usecase"
	jwtmw "ohlcv_dashboard/internal/platform/jwt"
)

const ContextSession = "session"

// SessionRequired returns a Gin middleware that loads the session referenced
// by the cookie, applies the idle timeout and rejects unauthenticated requests.
// It must run after jwtmw.CookieRequired.
func (h *AuthHandler) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString(jwtmw.ContextSessionID)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
			return
		}

		session, err := h.guard.Resume(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, usecase.ErrSessionNotFound) {
				h.ClearCookie(c)
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid session"})
				return
			}
			slog.Error("failed to load session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
			return
		}

		session, err = h.guard.CheckIdle(c.Request.Context(), session)
		if err != nil {
			if errors.Is(err, usecase.ErrSessionExpired) {
				slog.Info("session timed out due to inactivity", "session_id", sessionID)
				h.ClearCookie(c)
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "session expired"})
				return
			}
			slog.Error("failed to update session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
			return
		}

		if !session.IsAuthenticated() {
			h.ClearCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
			return
		}

		c.Set(ContextSession, session)
		c.Set(jwtmw.ContextUsername, session.Username)
		c.Set(jwtmw.ContextDisplayName, session.DisplayName)
		c.Next()
	}
}

// SessionFromContext returns the session stored by SessionRequired.
func SessionFromContext(c *gin.Context) (*entity.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*entity.Session)
	return session, ok
}
