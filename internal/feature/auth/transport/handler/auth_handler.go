// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
	"ohlcv_dashboard/internal/feature/auth/transport/http/dto"
	"ohlcv_dashboard/internal/feature/auth/usecase"
)

// SessionGuard はセッションのログイン状態管理を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type SessionGuard interface {
	// Login はユーザーを認証し、認証済みセッションを作成します。
	Login(ctx context.Context, username, password string) (*entity.Session, error)
	// Resume はセッションIDからセッションを取得します。
	Resume(ctx context.Context, id string) (*entity.Session, error)
	// CheckIdle はアイドルタイムアウトを判定し、最終操作時刻を更新します。
	CheckIdle(ctx context.Context, session *entity.Session) (*entity.Session, error)
	// Logout はセッションを未認証状態に戻します。
	Logout(ctx context.Context, session *entity.Session) (*entity.Session, error)
}

// TokenGenerator はセッションIDを署名付きCookie値に変換します。
type TokenGenerator interface {
	GenerateToken(sessionID string) (string, error)
}

// LoginLimiter はクライアントごとのログイン試行回数を制限します。
type LoginLimiter interface {
	Allow(key string) bool
}

// CookieOptions はセッションCookieの属性を保持します。
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	guard   SessionGuard
	tokens  TokenGenerator
	limiter LoginLimiter
	cookie  CookieOptions
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// limiterがnilの場合、ログイン試行は制限されません。
func NewAuthHandler(guard SessionGuard, tokens TokenGenerator, limiter LoginLimiter, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{guard: guard, tokens: tokens, limiter: limiter, cookie: cookie}
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 試行回数超過時は429を返却
// - 認証失敗時は401を返却
// - 認証成功時はセッションCookieを設定して200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		slog.Warn("login rate limited", "remote_addr", c.ClientIP())
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "too many login attempts"})
		return
	}

	session, err := h.guard.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrAuthenticationFailed) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "username/password is incorrect"})
			return
		}
		slog.Error("login error", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}

	token, err := h.tokens.GenerateToken(session.ID)
	if err != nil {
		slog.Error("failed to issue session cookie", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	h.setCookie(c, token, int(h.cookie.MaxAge.Seconds()))

	slog.Info("user login successful", "username", session.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginResponse{User: dto.UserResponse{
		Username:    session.Username,
		DisplayName: session.DisplayName,
	}})
}

// Logout はログアウトAPIエンドポイントを処理します。
// SessionRequiredミドルウェアの後段で呼ばれ、セッションを未認証に戻してCookieを削除します。
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
		return
	}
	if _, err := h.guard.Logout(c.Request.Context(), session); err != nil {
		slog.Error("logout failed", "error", err, "session_id", session.ID)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	h.setCookie(c, "", -1)

	slog.Info("user logout", "username", session.Username)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// ClearCookie はセッションCookieを削除します。
func (h *AuthHandler) ClearCookie(c *gin.Context) {
	h.setCookie(c, "", -1)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
