package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comment-gateway-api/internal/database"
	"github.com/comment-gateway-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// pqCheckViolation is the PostgreSQL SQLSTATE for CHECK constraint failures
const pqCheckViolation = "23514"

// commentRepo is the PostgreSQL implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new PostgreSQL comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment and returns its public view
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) (*models.PublicComment, error) {
	query := `
		INSERT INTO comments (id, item_id, author, content, mood, client_fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, item_id, author, content, mood, created_at
	`

	stored, err := scanComment(r.db.QueryRowContext(ctx, query,
		comment.ID, comment.ItemID, comment.Author, comment.Content,
		nullMood(comment.Mood), comment.ClientFingerprint, comment.CreatedAt,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqCheckViolation {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRecord, pqErr.Constraint)
		}
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return toPublic(stored)
}

// ListByItem returns an item's comments, newest first
func (r *commentRepo) ListByItem(ctx context.Context, itemID string) ([]*models.PublicComment, error) {
	query := `
		SELECT id, item_id, author, content, mood, created_at
		FROM comments
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, itemID, MaxListSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.PublicComment, 0)
	for rows.Next() {
		stored, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		public, err := toPublic(stored)
		if err != nil {
			return nil, err
		}
		comments = append(comments, public)
	}

	return comments, rows.Err()
}

// Delete removes a comment only when it belongs to itemID
func (r *commentRepo) Delete(ctx context.Context, itemID, commentID string) error {
	// Ids are UUIDs; anything else cannot match a row
	if _, err := uuid.Parse(commentID); err != nil {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1 AND item_id = $2`,
		commentID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

// HealthCheck pings the database
func (r *commentRepo) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// Mode reports the durable backend
func (r *commentRepo) Mode() string {
	return ModePostgres
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		comment models.Comment
		mood    sql.NullString
	)
	err := row.Scan(
		&comment.ID, &comment.ItemID, &comment.Author, &comment.Content,
		&mood, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	comment.Mood = models.Mood(mood.String)
	return &comment, nil
}

func nullMood(mood models.Mood) sql.NullString {
	return sql.NullString{String: string(mood), Valid: mood != ""}
}
