package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comment-gateway-api/internal/models"
)

// DefaultMemoryCap is the per-item comment limit of the in-memory backend
const DefaultMemoryCap = 1000

// memoryCommentRepo is the in-memory fallback used when no durable store is
// configured. It is process-local and loses everything on restart.
type memoryCommentRepo struct {
	mu    sync.RWMutex
	items map[string][]*models.Comment // newest first
	cap   int
}

// NewMemoryCommentRepo creates an in-memory repository keeping at most
// perItemCap comments per item.
func NewMemoryCommentRepo(perItemCap int) CommentRepository {
	if perItemCap <= 0 {
		perItemCap = DefaultMemoryCap
	}
	return &memoryCommentRepo{
		items: make(map[string][]*models.Comment),
		cap:   perItemCap,
	}
}

// Create stores a copy of comment, evicting the oldest entries first so the
// item never holds more than cap comments.
func (r *memoryCommentRepo) Create(ctx context.Context, comment *models.Comment) (*models.PublicComment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if comment.Author == "" || comment.Content == "" {
		return nil, ErrInvalidRecord
	}

	stored := *comment

	r.mu.Lock()
	list := r.items[stored.ItemID]

	// A full item only admits comments newer than its oldest entry; an older
	// one would be the first evicted.
	if len(list) >= r.cap && stored.CreatedAt.Before(list[len(list)-1].CreatedAt) {
		r.mu.Unlock()
		return toPublic(&stored)
	}

	// Requests can reach the lock out of timestamp order, so insert by
	// position instead of always prepending.
	idx := sort.Search(len(list), func(i int) bool {
		return !list[i].CreatedAt.After(stored.CreatedAt)
	})

	next := make([]*models.Comment, 0, len(list)+1)
	next = append(next, list[:idx]...)
	next = append(next, &stored)
	next = append(next, list[idx:]...)
	if len(next) > r.cap {
		for i := r.cap; i < len(next); i++ {
			next[i] = nil
		}
		next = next[:r.cap]
	}
	r.items[stored.ItemID] = next
	r.mu.Unlock()

	return toPublic(&stored)
}

// ListByItem returns an item's comments, newest first
func (r *memoryCommentRepo) ListByItem(ctx context.Context, itemID string) ([]*models.PublicComment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	list := r.items[itemID]
	snapshot := make([]models.Comment, len(list))
	for i, c := range list {
		snapshot[i] = *c
	}
	r.mu.RUnlock()

	if len(snapshot) > MaxListSize {
		snapshot = snapshot[:MaxListSize]
	}

	comments := make([]*models.PublicComment, 0, len(snapshot))
	for i := range snapshot {
		public, err := toPublic(&snapshot[i])
		if err != nil {
			return nil, err
		}
		comments = append(comments, public)
	}
	return comments, nil
}

// Delete removes a comment only when it belongs to itemID
func (r *memoryCommentRepo) Delete(ctx context.Context, itemID, commentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[itemID]
	for i, c := range list {
		if c.ID != commentID {
			continue
		}
		next := make([]*models.Comment, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(r.items, itemID)
		} else {
			r.items[itemID] = next
		}
		return nil
	}
	return nil
}

// Count returns the total number of stored comments
func (r *memoryCommentRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, list := range r.items {
		total += len(list)
	}
	return total, nil
}

// HealthCheck always succeeds for the in-memory backend
func (r *memoryCommentRepo) HealthCheck(ctx context.Context) error {
	return nil
}

// Mode reports the fallback backend
func (r *memoryCommentRepo) Mode() string {
	return ModeMemory
}
