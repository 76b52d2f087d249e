// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse はログイン中のユーザー情報を表します。
type UserResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// LoginResponse は/loginエンドポイントの成功レスポンスを表します。
type LoginResponse struct {
	User UserResponse `json:"user"`
}

// ErrorResponse はエラーレスポンスを表します。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は汎用メッセージレスポンスを表します。
type MessageResponse struct {
	Message string `json:"message"`
}
