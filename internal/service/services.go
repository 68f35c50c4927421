package service

import (
	"context"
	"time"

	"github.com/comment-gateway-api/internal/config"
	"github.com/comment-gateway-api/internal/models"
	"github.com/comment-gateway-api/internal/repository"
	"github.com/comment-gateway-api/internal/verification"
	"github.com/rs/zerolog"
)

// SubmitInput is everything the orchestrator needs for one write request
type SubmitInput struct {
	ItemID            string
	Author            string
	Content           string
	Mood              string
	VerificationToken string
	Fingerprint       string
	RemoteIP          string
}

// Stats summarizes gateway state for the metrics endpoint
type Stats struct {
	StorageMode    string `json:"storage_mode"`
	StoredComments int    `json:"stored_comments"`
	TrackedClients int    `json:"tracked_clients"`
}

// CommentService defines the accept/list/delete operations of the gateway
type CommentService interface {
	Submit(ctx context.Context, in SubmitInput) (*models.PublicComment, error)
	List(ctx context.Context, itemID string) ([]*models.PublicComment, error)
	Delete(ctx context.Context, itemID, commentID string) error
	RetryAfter(fingerprint string) time.Duration
	Stats(ctx context.Context) (*Stats, error)
	Health(ctx context.Context) error
}

// RateLimiter is the subset of the fixed-window limiter the service uses
type RateLimiter interface {
	Allow(key string) bool
	RetryAfter(key string) time.Duration
	Len() int
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, limiter RateLimiter, verifier verification.Verifier, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Comment: newCommentService(repos.Comment, limiter, verifier, cfg, log),
	}
}
