package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PlacesIngest-App/internal/usecase"
)

// StatusHandler 実行中の取り込み状況を返すHTTPハンドラー
// バッチ実行中だけ立ち上がる読み取り専用のエンドポイント
type StatusHandler struct {
	ingestUseCase usecase.IngestUseCase
}

// NewStatusHandler StatusHandlerの新しいインスタンスを作成
func NewStatusHandler(ingestUseCase usecase.IngestUseCase) *StatusHandler {
	return &StatusHandler{
		ingestUseCase: ingestUseCase,
	}
}

// RegisterRoutes ルーティングを登録する
func (h *StatusHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/health", h.Health)
	r.GET("/api/progress", h.Progress)
}

// Health GET /api/health - ヘルスチェック
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "PlacesIngest-App",
	})
}

// Progress GET /api/progress - 取り込みの進捗スナップショットを返す
func (h *StatusHandler) Progress(c *gin.Context) {
	c.JSON(http.StatusOK, h.ingestUseCase.Progress())
}
