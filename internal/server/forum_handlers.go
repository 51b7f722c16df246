package server

import (
	"skyhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type forumEntryRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type reactionRequest struct {
	PostID       uint   `json:"post_id"`
	ReactionType string `json:"reaction_type"`
}

// ListForumEntries handles GET /api/forum
// @Summary List forum entries
// @Tags forum
// @Produce json
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.ForumEntry
// @Router /forum [get]
func (s *Server) ListForumEntries(c *fiber.Ctx) error {
	p := parsePage(c)
	entries, err := s.forumService.List(c.UserContext(), p.Page, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entries)
}

// GetForumEntry handles GET /api/forum/:id
// @Summary Get forum entry
// @Tags forum
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} models.ForumEntry
// @Router /forum/{id} [get]
func (s *Server) GetForumEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	entry, err := s.forumService.Get(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entry)
}

// CreateForumEntry handles POST /api/forum
// @Summary Create forum entry
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body forumEntryRequest true "Entry"
// @Success 201 {object} models.ForumEntry
// @Router /forum [post]
func (s *Server) CreateForumEntry(c *fiber.Ctx) error {
	var req forumEntryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	entry, err := s.forumService.Create(c.UserContext(), service.CreateForumEntryInput{
		AuthorID: callerID(c),
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateForumEntry handles PUT /api/forum/:id
// @Summary Update forum entry (author only)
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body forumEntryRequest true "Fields to change"
// @Success 200 {object} models.ForumEntry
// @Router /forum/{id} [put]
func (s *Server) UpdateForumEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req forumEntryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	entry, err := s.forumService.Update(c.UserContext(), service.UpdateForumEntryInput{
		CallerID: callerID(c),
		EntryID:  id,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entry)
}

// DeleteForumEntry handles DELETE /api/forum/:id
// @Summary Delete forum entry (author only)
// @Tags forum
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 204
// @Router /forum/{id} [delete]
func (s *Server) DeleteForumEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.forumService.Delete(c.UserContext(), callerID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddReaction handles POST /api/forum/reactions
// @Summary React to a forum entry
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reactionRequest true "Reaction"
// @Success 201 {object} models.PostReaction
// @Router /forum/reactions [post]
func (s *Server) AddReaction(c *fiber.Ctx) error {
	var req reactionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	reaction, err := s.reactionService.Add(c.UserContext(), service.AddReactionInput{
		UserID:       callerID(c),
		PostID:       req.PostID,
		ReactionType: req.ReactionType,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reaction)
}

// ListReactions handles GET /api/forum/reactions/:postId
// @Summary List reactions on an entry
// @Tags forum
// @Produce json
// @Param postId path int true "Entry ID"
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.PostReaction
// @Router /forum/reactions/{postId} [get]
func (s *Server) ListReactions(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	p := parsePage(c)
	reactions, err := s.reactionService.ListByPost(c.UserContext(), postID, p.Page, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reactions)
}

// CountReactions handles GET /api/forum/reactions/count?post_id=&reaction_type=
// @Summary Count reactions of one type
// @Tags forum
// @Produce json
// @Param post_id query int true "Entry ID"
// @Param reaction_type query string true "like or dislike"
// @Success 200 {object} service.ReactionCount
// @Router /forum/reactions/count [get]
func (s *Server) CountReactions(c *fiber.Ctx) error {
	postID := c.QueryInt("post_id", 0)
	if postID < 0 {
		postID = 0
	}
	count, err := s.reactionService.CountByType(c.UserContext(), uint(postID), c.Query("reaction_type"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(count)
}
