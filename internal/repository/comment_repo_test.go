package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/comment-gateway-api/internal/database"
	"github.com/comment-gateway-api/internal/models"
	"github.com/comment-gateway-api/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var commentColumns = []string{"id", "item_id", "author", "content", "mood", "created_at"}

func newSQLMockRepo(t *testing.T) (repository.CommentRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return repository.NewCommentRepo(&database.DB{DB: sqlDB}), mock
}

func TestCommentRepo_Create(t *testing.T) {
	repo, mock := newSQLMockRepo(t)
	comment := newComment("post-1", 1)
	comment.Mood = models.MoodHappy

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments")).
		WithArgs(comment.ID, "post-1", comment.Author, comment.Content, "happy", comment.ClientFingerprint, comment.CreatedAt).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow(comment.ID, "post-1", comment.Author, comment.Content, "happy", comment.CreatedAt))

	created, err := repo.Create(context.Background(), comment)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != comment.ID || created.Mood != models.MoodHappy {
		t.Errorf("Unexpected created comment %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCommentRepo_CreateErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantInvalid bool
	}{
		{"check violation", &pq.Error{Code: "23514", Constraint: "comments_author_check"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"connection failure", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newSQLMockRepo(t)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments")).WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), newComment("post-1", 1))
			if err == nil {
				t.Fatal("Expected error")
			}
			if got := errors.Is(err, repository.ErrInvalidRecord); got != tt.wantInvalid {
				t.Errorf("errors.Is(err, ErrInvalidRecord) = %v, want %v (err: %v)", got, tt.wantInvalid, err)
			}
		})
	}
}

func TestCommentRepo_ListByItemNewestFirst(t *testing.T) {
	repo, mock := newSQLMockRepo(t)
	newer := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(`WHERE item_id = \$1\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$2`).
		WithArgs("post-1", repository.MaxListSize).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow("b", "post-1", "Bo", "second", nil, newer).
			AddRow("a", "post-1", "Ava", "first", "love", older))

	comments, err := repo.ListByItem(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("ListByItem failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != "b" || comments[0].Mood != "" {
		t.Errorf("Unexpected first comment %+v", comments[0])
	}
	if comments[1].Mood != models.MoodLove {
		t.Errorf("Expected mood love, got %q", comments[1].Mood)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCommentRepo_DeleteScopedToItem(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name      string
		commentID string
		expectSQL bool
		execErr   error
		wantErr   bool
	}{
		{name: "scoped by id and item", commentID: id, expectSQL: true},
		{name: "non uuid id is a no-op", commentID: "not-a-uuid", expectSQL: false},
		{name: "storage failure", commentID: id, expectSQL: true, execErr: errors.New("connection reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newSQLMockRepo(t)
			if tt.expectSQL {
				exec := mock.ExpectExec(regexp.QuoteMeta("DELETE FROM comments WHERE id = $1 AND item_id = $2")).
					WithArgs(tt.commentID, "post-1")
				if tt.execErr != nil {
					exec.WillReturnError(tt.execErr)
				} else {
					exec.WillReturnResult(sqlmock.NewResult(0, 0))
				}
			}

			err := repo.Delete(context.Background(), "post-1", tt.commentID)
			if (err != nil) != tt.wantErr {
				t.Errorf("Delete error = %v, wantErr %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}
