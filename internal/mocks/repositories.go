package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/comment-gateway-api/internal/models"
	"github.com/comment-gateway-api/internal/repository"
)

// MockCommentRepository is a mock implementation of CommentRepository.
// Unlike the memory backend it keeps the full stored record, so tests can
// inspect fields that never leave the storage layer.
type MockCommentRepository struct {
	mu          sync.Mutex
	Comments    map[string]*models.Comment
	CreateError error
	ListError   error
	DeleteError error
	CreateCalls int
	DeleteCalls int
	StorageMode string
}

// Verify interface compliance
var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments:    make(map[string]*models.Comment),
		StorageMode: "mock",
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.PublicComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	stored := *comment
	m.Comments[stored.ID] = &stored
	return toPublic(&stored), nil
}

func (m *MockCommentRepository) ListByItem(ctx context.Context, itemID string) ([]*models.PublicComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	comments := make([]*models.PublicComment, 0)
	for _, c := range m.Comments {
		if c.ItemID == itemID {
			comments = append(comments, toPublic(c))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, itemID, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if c, ok := m.Comments[commentID]; ok && c.ItemID == itemID {
		delete(m.Comments, commentID)
	}
	return nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Comments), nil
}

func (m *MockCommentRepository) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockCommentRepository) Mode() string {
	return m.StorageMode
}

// Stored returns the full stored record for id, or nil
func (m *MockCommentRepository) Stored(id string) *models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Comments[id]
}

func toPublic(c *models.Comment) *models.PublicComment {
	return &models.PublicComment{
		ID:        c.ID,
		ItemID:    c.ItemID,
		Author:    c.Author,
		Content:   c.Content,
		Mood:      c.Mood,
		CreatedAt: c.CreatedAt,
	}
}
