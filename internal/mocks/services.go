package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/comment-gateway-api/internal/models"
	"github.com/comment-gateway-api/internal/service"
	"github.com/comment-gateway-api/internal/verification"
)

// MockVerifier is a mock implementation of Verifier
type MockVerifier struct {
	mu     sync.Mutex
	Result verification.Result
	Tokens []string
}

// Verify interface compliance
var _ verification.Verifier = (*MockVerifier)(nil)

func NewMockVerifier(result verification.Result) *MockVerifier {
	return &MockVerifier{Result: result}
}

func (m *MockVerifier) Verify(ctx context.Context, token, remoteIP string) verification.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens = append(m.Tokens, token)
	return m.Result
}

// Calls returns how many times Verify was called
func (m *MockVerifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tokens)
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	SubmitFunc  func(ctx context.Context, in service.SubmitInput) (*models.PublicComment, error)
	ListFunc    func(ctx context.Context, itemID string) ([]*models.PublicComment, error)
	DeleteFunc  func(ctx context.Context, itemID, commentID string) error
	HealthError error
	Submitted   []service.SubmitInput
	Deleted     [][2]string
	Wait        time.Duration
	StatsValue  service.Stats
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{
		Submitted: make([]service.SubmitInput, 0),
		Deleted:   make([][2]string, 0),
	}
}

func (m *MockCommentService) Submit(ctx context.Context, in service.SubmitInput) (*models.PublicComment, error) {
	m.Submitted = append(m.Submitted, in)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, in)
	}
	return &models.PublicComment{
		ID:        "test-comment-id",
		ItemID:    in.ItemID,
		Author:    in.Author,
		Content:   in.Content,
		Mood:      models.Mood(in.Mood),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (m *MockCommentService) List(ctx context.Context, itemID string) ([]*models.PublicComment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, itemID)
	}
	return []*models.PublicComment{}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, itemID, commentID string) error {
	m.Deleted = append(m.Deleted, [2]string{itemID, commentID})
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, itemID, commentID)
	}
	return nil
}

func (m *MockCommentService) RetryAfter(fingerprint string) time.Duration {
	return m.Wait
}

func (m *MockCommentService) Stats(ctx context.Context) (*service.Stats, error) {
	stats := m.StatsValue
	return &stats, nil
}

func (m *MockCommentService) Health(ctx context.Context) error {
	return m.HealthError
}
