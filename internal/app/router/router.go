// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "ohlcv_dashboard/internal/feature/auth/transport/handler"
	ohlcvhandler "ohlcv_dashboard/internal/feature/ohlcv/transport/handler"
	"ohlcv_dashboard/internal/platform/http/handler"
)

// NewRouter はすべてのルートを登録したGinエンジンを返します。
// cookieMWは署名付きセッションCookieを検証するミドルウェアです。
func NewRouter(health *handler.HealthHandler, authHandler *authhandler.AuthHandler,
	dashboard *ohlcvhandler.DashboardHandler, cookieMW gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)
	// ログイン（セッションCookie発行）
	r.POST("/login", authHandler.Login)

	// 認証必須のルート
	// → Cookieの署名検証の後、セッションのアイドルタイムアウトを判定する
	api := r.Group("/api")
	api.Use(cookieMW, authHandler.SessionRequired())
	{
		api.POST("/logout", authHandler.Logout)
		api.GET("/dashboard", dashboard.Dashboard)
		api.POST("/dataset", dashboard.Upload)
		api.DELETE("/dataset", dashboard.ResetUpload)
		api.GET("/export", dashboard.Export)
	}

	return r
}
