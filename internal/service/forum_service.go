package service

import (
	"context"
	"strings"

	"skyhub/internal/models"
	"skyhub/internal/repository"
)

const maxForumTitleLen = 200

type ForumService struct {
	forumRepo repository.ForumRepository
}

type CreateForumEntryInput struct {
	AuthorID uint
	Title    string
	Body     string
}

type UpdateForumEntryInput struct {
	CallerID uint
	EntryID  uint
	Title    string
	Body     string
}

func NewForumService(forumRepo repository.ForumRepository) *ForumService {
	return &ForumService{forumRepo: forumRepo}
}

func (s *ForumService) Create(ctx context.Context, in CreateForumEntryInput) (*models.ForumEntry, error) {
	if err := requireCaller(in.AuthorID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		return nil, models.NewValidationError("title and body are required")
	}
	if len(title) > maxForumTitleLen {
		return nil, models.NewValidationError("title too long (max 200 characters)")
	}
	entry := &models.ForumEntry{Title: title, Body: body, AuthorID: in.AuthorID}
	if err := s.forumRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ForumService) Get(ctx context.Context, id uint) (*models.ForumEntry, error) {
	return s.forumRepo.GetByID(ctx, id)
}

func (s *ForumService) List(ctx context.Context, page, size int) ([]models.ForumEntry, error) {
	limit, offset := PageOffset(page, size)
	return s.forumRepo.List(ctx, limit, offset)
}

func (s *ForumService) authored(ctx context.Context, callerID, entryID uint) (*models.ForumEntry, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	entry, err := s.forumRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.AuthorID != callerID {
		return nil, models.NewForbiddenError("Only the author can modify this entry")
	}
	return entry, nil
}

func (s *ForumService) Update(ctx context.Context, in UpdateForumEntryInput) (*models.ForumEntry, error) {
	entry, err := s.authored(ctx, in.CallerID, in.EntryID)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		if len(title) > maxForumTitleLen {
			return nil, models.NewValidationError("title too long (max 200 characters)")
		}
		entry.Title = title
	}
	if body := strings.TrimSpace(in.Body); body != "" {
		entry.Body = body
	}
	if err := s.forumRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the entry and its reactions.
func (s *ForumService) Delete(ctx context.Context, callerID, entryID uint) error {
	if _, err := s.authored(ctx, callerID, entryID); err != nil {
		return err
	}
	return s.forumRepo.Delete(ctx, entryID)
}
