package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"skyhub/internal/auth"
	"skyhub/internal/models"
	"skyhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already committed the response.
// Handlers return nil when they see it.
var errResponseWritten = errors.New("response already written")

// mapServiceError maps an AppError code to its HTTP status.
func mapServiceError(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeDuplicateEmail, models.CodeDuplicateUsername:
		return fiber.StatusConflict
	case models.CodeUnauthenticated, models.CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// respondServiceError writes err with the status mapServiceError picks.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, mapServiceError(err), err)
}

// Page holds parsed page/limit query parameters.
type Page struct {
	Page  int
	Limit int
}

// parsePage reads ?page= and ?limit= (1-indexed). Bounds are applied by the services.
func parsePage(c *fiber.Ctx) Page {
	return Page{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", service.DefaultPageSize),
	}
}

// callerID returns the authenticated user's ID, or 0 on public routes.
func callerID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

func callerClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("claims").(*auth.Claims)
	return claims
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body or writes a 400.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// humanizeParam turns "id" into "ID" and "droneId" into "drone ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(strings.Join(splitCamel(param[:len(param)-2]), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}
