package repository

import (
	"context"
	"errors"

	"github.com/comment-gateway-api/internal/database"
	"github.com/comment-gateway-api/internal/models"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"
)

// Storage modes reported by CommentRepository.Mode
const (
	ModePostgres = "postgres"
	ModeMemory   = "memory"
)

// MaxListSize bounds how many comments a single list returns
const MaxListSize = 1000

// ErrInvalidRecord is returned when the store rejects a record's shape
var ErrInvalidRecord = errors.New("record violates storage constraints")

// CommentRepository defines the storage operations for comments.
// Implementations never expose the client fingerprint.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.PublicComment, error)
	ListByItem(ctx context.Context, itemID string) ([]*models.PublicComment, error)
	Delete(ctx context.Context, itemID, commentID string) error
	Count(ctx context.Context) (int, error)
	HealthCheck(ctx context.Context) error
	Mode() string
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
}

// New selects the comment backend once: PostgreSQL when a connection is
// available, otherwise the bounded in-memory fallback.
func New(db *database.DB, memoryCap int, log zerolog.Logger) *Repositories {
	if db == nil {
		log.Warn().
			Int("per_item_cap", memoryCap).
			Msg("Durable store not configured, using in-memory comments (data is lost on restart)")
		return &Repositories{Comment: NewMemoryCommentRepo(memoryCap)}
	}

	return &Repositories{Comment: NewCommentRepo(db)}
}

// toPublic projects a stored comment onto the response shape
func toPublic(comment *models.Comment) (*models.PublicComment, error) {
	public := &models.PublicComment{}
	if err := copier.Copy(public, comment); err != nil {
		return nil, err
	}
	return public, nil
}
