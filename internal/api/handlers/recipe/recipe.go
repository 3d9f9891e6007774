package recipe

import (
	"net/http"
	"strconv"

	coreRecipe "zerowaste-backend/internal/core/recipe"
	"zerowaste-backend/internal/core/rating"
	"zerowaste-backend/internal/core/recommend"
	"zerowaste-backend/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateRequest 評分請求
// rating 為 null 時表示撤銷既有評分
type RateRequest struct {
	RecipeID int64 `json:"recipe_id" binding:"required"`
	Rating   *bool `json:"rating"`
}

// Handler 食譜推薦處理程序
type Handler struct {
	views   *recommend.Views
	ratings *rating.Service
}

// NewHandler 創建食譜推薦處理程序
func NewHandler(views *recommend.Views, ratings *rating.Service) *Handler {
	return &Handler{
		views:   views,
		ratings: ratings,
	}
}

// userEmail 從標頭取出使用者信箱（認證在外部閘道完成）
func userEmail(c *gin.Context) string {
	return c.GetHeader("X-User-Email")
}

// requestID 取得或補發請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
		c.Header("X-Request-ID", id)
	}
	return id
}

// pageParams 解析 limit/offset，未提供時沿用預設值
func pageParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// respondError 依錯誤類型回應對應的狀態碼
func respondError(c *gin.Context, err error, reqID string) {
	if custom, ok := err.(*common.CustomError); ok {
		c.JSON(custom.Status, gin.H{
			"error": custom.Message,
			"code":  custom.Code,
		})
		return
	}
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	common.LogError("請求處理失敗",
		zap.Error(err),
		zap.String("request_id", reqID),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}

// HandleList 取得推薦分頁
func (h *Handler) HandleList(c *gin.Context) {
	reqID := requestID(c)

	email := userEmail(c)
	if email == "" {
		respondError(c, common.ErrMissingUserEmail, reqID)
		return
	}

	limit, offset := pageParams(c)

	page, err := h.views.ListPage(c.Request.Context(), email, limit, offset)
	if err != nil {
		respondError(c, err, reqID)
		return
	}

	c.JSON(http.StatusOK, page)
}

// HandleSearch 在推薦結果中搜尋名稱
func (h *Handler) HandleSearch(c *gin.Context) {
	reqID := requestID(c)

	email := userEmail(c)
	if email == "" {
		respondError(c, common.ErrMissingUserEmail, reqID)
		return
	}

	limit, offset := pageParams(c)
	search := c.Query("search")

	page, err := h.views.SearchPage(c.Request.Context(), email, limit, offset, search)
	if err != nil {
		respondError(c, err, reqID)
		return
	}

	c.JSON(http.StatusOK, page)
}

// HandleFilter 依條件過濾推薦結果
func (h *Handler) HandleFilter(c *gin.Context) {
	reqID := requestID(c)

	email := userEmail(c)
	if email == "" {
		respondError(c, common.ErrMissingUserEmail, reqID)
		return
	}

	limit, offset := pageParams(c)

	var filter coreRecipe.Filter
	if err := c.ShouldBindJSON(&filter); err != nil {
		common.LogWarn("過濾條件格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	page, err := h.views.FilterPage(c.Request.Context(), email, limit, offset, &filter)
	if err != nil {
		respondError(c, err, reqID)
		return
	}

	c.JSON(http.StatusOK, page)
}

// HandleRate 評分或撤銷評分
func (h *Handler) HandleRate(c *gin.Context) {
	reqID := requestID(c)

	email := userEmail(c)
	if email == "" {
		respondError(c, common.ErrMissingUserEmail, reqID)
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("評分請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.ratings.Rate(c.Request.Context(), email, req.RecipeID, req.Rating); err != nil {
		respondError(c, err, reqID)
		return
	}

	c.Status(http.StatusOK)
}

// HandleRefresh 驅逐快取並重新請求推薦
func (h *Handler) HandleRefresh(c *gin.Context) {
	reqID := requestID(c)

	email := userEmail(c)
	if email == "" {
		respondError(c, common.ErrMissingUserEmail, reqID)
		return
	}

	if err := h.views.Refresh(c.Request.Context(), email); err != nil {
		respondError(c, err, reqID)
		return
	}

	c.Status(http.StatusOK)
}
