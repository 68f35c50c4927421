package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/comment-gateway-api/internal/config"
	"github.com/comment-gateway-api/internal/models"
	"github.com/comment-gateway-api/internal/moderation"
	"github.com/comment-gateway-api/internal/repository"
	"github.com/comment-gateway-api/internal/sanitize"
	"github.com/comment-gateway-api/internal/validation"
	"github.com/comment-gateway-api/internal/verification"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultCallTimeout bounds external calls when config leaves it unset
const defaultCallTimeout = 5 * time.Second

// commentService is the concrete implementation of CommentService
type commentService struct {
	repo          repository.CommentRepository
	limiter       RateLimiter
	verifier      verification.Verifier
	classifier    *moderation.Classifier
	validator     *validation.Validator
	verifyTimeout time.Duration
	storeTimeout  time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

// newCommentService creates a new CommentService
func newCommentService(repo repository.CommentRepository, limiter RateLimiter, verifier verification.Verifier, cfg *config.Config, log zerolog.Logger) *commentService {
	return &commentService{
		repo:          repo,
		limiter:       limiter,
		verifier:      verifier,
		classifier:    moderation.NewClassifier(),
		validator:     validation.NewValidator(),
		verifyTimeout: orDefault(cfg.Verification.Timeout),
		storeTimeout:  orDefault(cfg.Storage.Timeout),
		log:           log.With().Str("service", "comment").Logger(),
		now:           time.Now,
	}
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultCallTimeout
	}
	return d
}

// Submit runs a write request through the pipeline: rate check,
// verification, validation, classification, sanitization, persistence.
// It stops at the first failing stage.
func (s *commentService) Submit(ctx context.Context, in SubmitInput) (*models.PublicComment, error) {
	log := s.log.With().Str("item_id", in.ItemID).Logger()

	if !s.limiter.Allow(in.Fingerprint) {
		log.Debug().Str("reason", CodeRateLimited).Msg("Comment rejected")
		return nil, ErrRateLimited
	}

	token := strings.TrimSpace(in.VerificationToken)
	if token == "" {
		log.Debug().Str("reason", CodeVerificationRequired).Msg("Comment rejected")
		return nil, ErrVerificationRequired
	}

	verifyCtx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	result := s.verifier.Verify(verifyCtx, token, in.RemoteIP)
	cancel()
	if !result.OK() {
		event := log.Debug()
		if result == verification.Unavailable {
			event = log.Warn()
		}
		event.Str("reason", CodeVerificationFailed).Str("verdict", result.String()).Msg("Comment rejected")
		return nil, ErrVerificationFailed
	}

	if errs := s.validator.ValidateItemID(in.ItemID); len(errs) > 0 {
		return nil, invalidInput(errs[0].Field, errs[0].Message)
	}

	author := strings.TrimSpace(in.Author)
	content := strings.TrimSpace(in.Content)
	mood := strings.ToLower(strings.TrimSpace(in.Mood))

	if err := s.validateFields(author, content, mood); err != nil {
		log.Debug().Str("reason", CodeInvalidInput).Err(err).Msg("Comment rejected")
		return nil, err
	}

	if s.classifier.IsFlagged(author) || s.classifier.IsFlagged(content) {
		log.Info().Str("reason", CodeFlaggedContent).Msg("Comment rejected")
		return nil, ErrFlaggedContent
	}

	cleanAuthor := sanitize.Sanitize(author)
	cleanContent := sanitize.Sanitize(content)

	// Markup can split a term across tags; check the text that would be stored
	if s.classifier.IsFlagged(cleanAuthor) || s.classifier.IsFlagged(cleanContent) {
		log.Info().Str("reason", CodeFlaggedContent).Msg("Comment rejected after sanitization")
		return nil, ErrFlaggedContent
	}

	// Sanitization can empty a field that was only markup
	if err := s.validateFields(cleanAuthor, cleanContent, mood); err != nil {
		log.Debug().Str("reason", CodeInvalidInput).Err(err).Msg("Comment rejected after sanitization")
		return nil, err
	}

	comment := &models.Comment{
		ID:                uuid.New().String(),
		ItemID:            in.ItemID,
		Author:            cleanAuthor,
		Content:           cleanContent,
		Mood:              models.Mood(mood),
		CreatedAt:         s.now().UTC(),
		ClientFingerprint: in.Fingerprint,
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	created, err := s.repo.Create(storeCtx, comment)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRecord) {
			return nil, invalidInput("", "comment could not be saved as submitted")
		}
		log.Error().Err(err).Str("storage_mode", s.repo.Mode()).Msg("Failed to store comment")
		return nil, ErrStorageUnavailable
	}

	log.Info().Str("comment_id", created.ID).Msg("Comment accepted")
	return created, nil
}

func (s *commentService) validateFields(author, content, mood string) error {
	errs := s.validator.ValidateComment(author, content, mood)
	if len(errs) == 0 {
		return nil
	}

	reasons := make([]string, 0, len(errs))
	for _, e := range errs {
		reasons = append(reasons, e.Message)
	}
	return invalidInput(errs[0].Field, joinReasons(reasons))
}

// List returns an item's comments, newest first
func (s *commentService) List(ctx context.Context, itemID string) ([]*models.PublicComment, error) {
	if errs := s.validator.ValidateItemID(itemID); len(errs) > 0 {
		return nil, invalidInput(errs[0].Field, errs[0].Message)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	comments, err := s.repo.ListByItem(storeCtx, itemID)
	if err != nil {
		s.log.Error().Err(err).Str("item_id", itemID).Str("storage_mode", s.repo.Mode()).Msg("Failed to list comments")
		return nil, ErrStorageUnavailable
	}
	return comments, nil
}

// Delete removes a comment scoped to its item. Deleting a comment that does
// not exist, or belongs to another item, succeeds without effect.
func (s *commentService) Delete(ctx context.Context, itemID, commentID string) error {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return invalidInput("commentId", "commentId is required")
	}
	if errs := s.validator.ValidateItemID(itemID); len(errs) > 0 {
		return invalidInput(errs[0].Field, errs[0].Message)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Delete(storeCtx, itemID, commentID); err != nil {
		s.log.Error().Err(err).
			Str("item_id", itemID).
			Str("comment_id", commentID).
			Str("storage_mode", s.repo.Mode()).
			Msg("Failed to delete comment")
		return ErrStorageUnavailable
	}

	s.log.Info().Str("item_id", itemID).Str("comment_id", commentID).Msg("Comment deleted")
	return nil
}

// RetryAfter reports how long a rate limited client should wait
func (s *commentService) RetryAfter(fingerprint string) time.Duration {
	return s.limiter.RetryAfter(fingerprint)
}

// Stats returns storage and limiter counters
func (s *commentService) Stats(ctx context.Context) (*Stats, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		StorageMode:    s.repo.Mode(),
		StoredComments: count,
		TrackedClients: s.limiter.Len(),
	}, nil
}

// Health checks the active storage backend
func (s *commentService) Health(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
