package server

import (
	"skyhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateUserRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Friends  *[]uint `json:"friends"`
	Role     string  `json:"role"`
}

type favoriteRequest struct {
	DroneID uint `json:"drone_id"`
}

// ListUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePage(c)
	users, err := s.userService.List(c.UserContext(), p.Page, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.Get(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body updateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	in := service.UpdateUserInput{
		CallerID: callerID(c),
		TargetID: id,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	if req.Friends != nil {
		in.Friends = append([]uint{}, *req.Friends...)
	}

	user, err := s.userService.Update(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id (soft delete)
// @Summary Deactivate user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.SoftDelete(c.UserContext(), callerID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListFavorites handles GET /api/users/:id/favorites
// @Summary List favorite drones
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Drone
// @Router /users/{id}/favorites [get]
func (s *Server) ListFavorites(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	drones, err := s.userService.ListFavorites(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drones)
}

// AddFavorite handles POST /api/users/:id/favorites
// @Summary Add favorite
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body favoriteRequest true "Drone to favorite"
// @Success 204
// @Router /users/{id}/favorites [post]
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req favoriteRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.userService.AddFavorite(c.UserContext(), callerID(c), id, req.DroneID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/users/:id/favorites/:droneId
// @Summary Remove favorite
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param droneId path int true "Drone ID"
// @Success 204
// @Router /users/{id}/favorites/{droneId} [delete]
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	droneID, err := parseID(c, "droneId")
	if err != nil {
		return nil
	}
	if err := s.userService.RemoveFavorite(c.UserContext(), callerID(c), id, droneID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
