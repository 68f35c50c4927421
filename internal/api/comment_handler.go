package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/comment-gateway-api/internal/config"
	"github.com/comment-gateway-api/internal/models"
	"github.com/comment-gateway-api/internal/ratelimit"
	"github.com/comment-gateway-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services     *service.Services
	cacheControl string
	log          zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *CommentHandler {
	cacheControl := cfg.Storage.CacheControl()
	if cfg.Storage.CacheMaxAge <= 0 {
		cacheControl = "public, max-age=10, stale-while-revalidate=59"
	}
	return &CommentHandler{
		services:     services,
		cacheControl: cacheControl,
		log:          log.With().Str("handler", "comment").Logger(),
	}
}

// ListComments handles GET /comments/:itemId
func (h *CommentHandler) ListComments(c *gin.Context) {
	itemID := c.Param("itemId")

	comments, err := h.services.Comment.List(c.Request.Context(), itemID)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	c.Header("Cache-Control", h.cacheControl)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"comments": comments,
	})
}

// CreateComment handles POST /comments/:itemId
func (h *CommentHandler) CreateComment(c *gin.Context) {
	itemID := c.Param("itemId")

	// A body that does not parse carries no token, so it is rejected by the
	// pipeline after the rate check like any other unverified request.
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Str("item_id", itemID).Msg("Unreadable comment body")
		req = models.CreateCommentRequest{}
	}

	fingerprint := ratelimit.Fingerprint(forwardedAddr(c), c.GetHeader("User-Agent"))

	comment, err := h.services.Comment.Submit(c.Request.Context(), service.SubmitInput{
		ItemID:            itemID,
		Author:            req.Author,
		Content:           req.Content,
		Mood:              req.Mood,
		VerificationToken: req.VerificationToken,
		Fingerprint:       fingerprint,
		RemoteIP:          c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, err, fingerprint)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": comment,
	})
}

// DeleteComment handles DELETE /comments/:itemId?commentId=...
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	itemID := c.Param("itemId")
	commentID := c.Query("commentId")

	if err := h.services.Comment.Delete(c.Request.Context(), itemID, commentID); err != nil {
		h.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment deleted",
	})
}

// respondError maps orchestrator errors onto status codes and short messages
func (h *CommentHandler) respondError(c *gin.Context, err error, fingerprint string) {
	code := service.Code(err)

	status := http.StatusBadRequest
	message := err.Error()

	switch code {
	case service.CodeRateLimited:
		status = http.StatusTooManyRequests
		if wait := h.services.Comment.RetryAfter(fingerprint); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
	case service.CodeInvalidInput:
		var invalid *service.InvalidInputError
		if errors.As(err, &invalid) {
			message = invalid.Reason
		}
	case service.CodeStorageError:
		status = http.StatusInternalServerError
		if !errors.Is(err, service.ErrStorageUnavailable) {
			h.log.Error().Err(err).Msg("Unexpected error from comment service")
		}
		message = service.ErrStorageUnavailable.Error()
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// forwardedAddr returns the client address as reported by the proxy chain,
// falling back to the connection's address.
func forwardedAddr(c *gin.Context) string {
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); fwd != "" {
		return fwd
	}
	if real := strings.TrimSpace(c.GetHeader("X-Real-IP")); real != "" {
		return real
	}
	return c.ClientIP()
}
