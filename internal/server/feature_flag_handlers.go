package server

import "github.com/gofiber/fiber/v2"

type featureFlagsResponse struct {
	Configured map[string]string `json:"configured"`
	Effective  map[string]bool   `json:"effective"`
}

// GetFeatureFlags handles GET /api/admin/feature-flags
// @Summary Configured flags and their value for the calling admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} featureFlagsResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(featureFlagsResponse{
		Configured: s.featureFlags.Raw(),
		Effective:  s.featureFlags.Snapshot(callerID(c)),
	})
}
