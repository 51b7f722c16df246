package service

import (
	"context"
	"strings"

	"skyhub/internal/models"
	"skyhub/internal/repository"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	forumRepo    repository.ForumRepository
}

type AddReactionInput struct {
	UserID       uint
	PostID       uint
	ReactionType string
}

// ReactionCount is the result of CountByType.
type ReactionCount struct {
	PostID       uint                `json:"post_id"`
	ReactionType models.ReactionType `json:"reaction_type"`
	Count        int64               `json:"count"`
}

func NewReactionService(reactionRepo repository.ReactionRepository, forumRepo repository.ForumRepository) *ReactionService {
	return &ReactionService{reactionRepo: reactionRepo, forumRepo: forumRepo}
}

func parseReactionType(s string) (models.ReactionType, error) {
	t := models.ReactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", models.NewValidationError("reaction_type must be like or dislike")
	}
	return t, nil
}

func (s *ReactionService) Add(ctx context.Context, in AddReactionInput) (*models.PostReaction, error) {
	if err := requireCaller(in.UserID); err != nil {
		return nil, err
	}
	t, err := parseReactionType(in.ReactionType)
	if err != nil {
		return nil, err
	}
	if _, err := s.forumRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	reaction := &models.PostReaction{PostID: in.PostID, UserID: in.UserID, ReactionType: t}
	if err := s.reactionRepo.Create(ctx, reaction); err != nil {
		return nil, err
	}
	return reaction, nil
}

func (s *ReactionService) ListByPost(ctx context.Context, postID uint, page, size int) ([]models.PostReaction, error) {
	limit, offset := PageOffset(page, size)
	return s.reactionRepo.ListByPost(ctx, postID, limit, offset)
}

func (s *ReactionService) CountByType(ctx context.Context, postID uint, reactionType string) (*ReactionCount, error) {
	if postID == 0 {
		return nil, models.NewValidationError("post_id is required")
	}
	t, err := parseReactionType(reactionType)
	if err != nil {
		return nil, err
	}
	n, err := s.reactionRepo.CountByType(ctx, postID, t)
	if err != nil {
		return nil, err
	}
	return &ReactionCount{PostID: postID, ReactionType: t, Count: n}, nil
}
