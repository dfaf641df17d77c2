package handler

import (
	"net/http"
	"strconv"

	"github.com/etymograph/moderation/internal/middleware"
	"github.com/etymograph/moderation/internal/service"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ModerationHandler exposes the moderation service over HTTP.
type ModerationHandler struct {
	svc *service.Service
}

func NewModerationHandler(svc *service.Service) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

// ClassifyRequest is the body of POST /api/moderation/classify.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// Classify returns the verdict for arbitrary text
func (h *ModerationHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, status.Error(codes.InvalidArgument, "invalid request body"))
		return
	}

	verdict, err := h.svc.Classify(c.Request.Context(), middleware.IdentityFrom(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// Ingest is called by the content service for every newly created item
func (h *ModerationHandler) Ingest(c *gin.Context) {
	var ev service.ContentEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		writeError(c, status.Error(codes.InvalidArgument, "invalid request body"))
		return
	}

	if err := h.svc.Ingest(c.Request.Context(), ev); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListQueue returns moderation queue records with pagination and filters
func (h *ModerationHandler) ListQueue(c *gin.Context) {
	// 잘못된 숫자 값은 미지정으로 처리 (서비스에서 기본값 적용)
	q := service.QueueQuery{
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
		Status:   c.Query("status"),
		Severity: c.Query("severity"),
	}

	page, err := h.svc.ListQueue(c.Request.Context(), middleware.IdentityFrom(c), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Review approves or rejects a pending queue record
func (h *ModerationHandler) Review(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, status.Error(codes.InvalidArgument, "invalid request body"))
		return
	}

	res, err := h.svc.Review(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// queryInt returns nil when the parameter is absent or not a number.
func queryInt(c *gin.Context, key string) *int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}
