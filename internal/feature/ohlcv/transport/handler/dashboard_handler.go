// Package handler はohlcvフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ohlcv_dashboard/internal/feature/ohlcv/transport/http/dto"
	"ohlcv_dashboard/internal/feature/ohlcv/usecase"
	jwtmw "ohlcv_dashboard/internal/platform/jwt"
)

// multipartOverhead はマルチパートの境界やヘッダー分として許容する追加バイト数です。
const multipartOverhead = 1 << 20

// DashboardUsecase はダッシュボードのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type DashboardUsecase interface {
	Render(ctx context.Context, viewer usecase.Viewer, in usecase.SelectionInput) (*usecase.ViewModel, error)
	Export(ctx context.Context, viewer usecase.Viewer, in usecase.SelectionInput) (*usecase.Export, error)
	StoreUpload(ctx context.Context, viewer usecase.Viewer, filename string, data []byte) error
	ClearUpload(ctx context.Context, viewer usecase.Viewer) error
}

// DashboardHandler はダッシュボードのHTTPリクエストを処理します。
type DashboardHandler struct {
	uc             DashboardUsecase
	maxUploadBytes int64
}

// NewDashboardHandler はDashboardHandlerの新しいインスタンスを生成します。
func NewDashboardHandler(uc DashboardUsecase, maxUploadBytes int64) *DashboardHandler {
	return &DashboardHandler{uc: uc, maxUploadBytes: maxUploadBytes}
}

// Dashboard は現在のデータセットと選択条件でダッシュボードを描画します。
//
// エンドポイント例:
// GET /api/dashboard?symbols=AAPL,MSFT&start=2024-01-01&end=2024-03-31
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	in, ok := bindSelection(c)
	if !ok {
		return
	}
	vm, err := h.uc.Render(c.Request.Context(), viewerFrom(c), in)
	if err != nil {
		slog.Error("failed to render dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, vm)
}

// Upload はCSVファイルを受け取り、セッションのデータセットとして保存します。
// 読み込みに失敗した場合は422とともにエラーメッセージ付きのダッシュボードを返します。
//
// エンドポイント例:
// POST /api/dataset (multipart/form-data, field "file")
func (h *DashboardHandler) Upload(c *gin.Context) {
	in, ok := bindSelection(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectTooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file is required"})
		return
	}
	if fh.Size > h.maxUploadBytes {
		h.rejectTooLarge(c)
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to read file"})
		return
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to read file"})
		return
	}

	viewer := viewerFrom(c)
	if err := h.uc.StoreUpload(c.Request.Context(), viewer, fh.Filename, data); err != nil {
		slog.Error("failed to store upload", "error", err, "session_id", viewer.SessionID)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	slog.Info("dataset uploaded", "filename", fh.Filename, "bytes", len(data), "username", viewer.Username)

	vm, err := h.uc.Render(c.Request.Context(), viewer, in)
	if err != nil {
		slog.Error("failed to render dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	if vm.Status == usecase.StatusUnavailable {
		c.JSON(http.StatusUnprocessableEntity, vm)
		return
	}
	c.JSON(http.StatusOK, vm)
}

// ResetUpload はアップロードを破棄し、サンプルデータに戻します。
//
// エンドポイント例:
// DELETE /api/dataset
func (h *DashboardHandler) ResetUpload(c *gin.Context) {
	in, ok := bindSelection(c)
	if !ok {
		return
	}
	viewer := viewerFrom(c)
	if err := h.uc.ClearUpload(c.Request.Context(), viewer); err != nil {
		slog.Error("failed to clear upload", "error", err, "session_id", viewer.SessionID)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	vm, err := h.uc.Render(c.Request.Context(), viewer, in)
	if err != nil {
		slog.Error("failed to render dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, vm)
}

// Export はフィルタ済みの行をCSVファイルとしてダウンロードさせます。
//
// エンドポイント例:
// GET /api/export?symbols=AAPL&start=2024-01-01&end=2024-01-31
func (h *DashboardHandler) Export(c *gin.Context) {
	in, ok := bindSelection(c)
	if !ok {
		return
	}
	out, err := h.uc.Export(c.Request.Context(), viewerFrom(c), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoSelection):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "please select at least one symbol and a valid date range"})
		case errors.Is(err, usecase.ErrEmptyResult):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no data found for the selected filters"})
		case usecase.IsDataError(err):
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to export csv", "error", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out.Data)
}

func (h *DashboardHandler) rejectTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "file is too large"})
}

// bindSelection はクエリパラメータを選択条件に変換します。
// 不正な日付形式の場合は400を返してfalseを返します。
func bindSelection(c *gin.Context) (usecase.SelectionInput, bool) {
	var q dto.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid query"})
		return usecase.SelectionInput{}, false
	}
	_, symbolsSet := c.GetQueryArray("symbols")
	return usecase.SelectionInput{
		Symbols:    splitSymbols(q.Symbols),
		SymbolsSet: symbolsSet,
		Start:      q.Start,
		End:        q.End,
	}, true
}

// splitSymbols はカンマ区切りの値を展開し、空要素を取り除きます。
func splitSymbols(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func viewerFrom(c *gin.Context) usecase.Viewer {
	return usecase.Viewer{
		SessionID:   c.GetString(jwtmw.ContextSessionID),
		Username:    c.GetString(jwtmw.ContextUsername),
		DisplayName: c.GetString(jwtmw.ContextDisplayName),
	}
}
