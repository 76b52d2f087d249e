// Package dto はohlcvフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// DashboardQuery はダッシュボードとエクスポートのクエリパラメータを表します。
// symbolsはカンマ区切り、または複数指定のどちらも受け付けます。
type DashboardQuery struct {
	Symbols []string `form:"symbols"`
	Start   string   `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End     string   `form:"end" binding:"omitempty,datetime=2006-01-02"`
}

// ErrorResponse はエラーレスポンスを表します。
type ErrorResponse struct {
	Error string `json:"error"`
}
