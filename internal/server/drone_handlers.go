package server

import (
	"io"
	"strconv"
	"strings"

	"skyhub/internal/models"
	"skyhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createDroneRequest struct {
	LegacyID    *uint    `json:"legacy_id"`
	Name        string   `json:"name"`
	Model       string   `json:"model"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Type        string   `json:"type"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Contact     string   `json:"contact"`
	Category    string   `json:"category"`
}

type updateDroneRequest struct {
	Name        string   `json:"name"`
	Model       string   `json:"model"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Type        string   `json:"type"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Contact     string   `json:"contact"`
	Category    string   `json:"category"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ListDrones handles GET /api/drones
// @Summary List drones, newest first
// @Tags drones
// @Produce json
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.Drone
// @Router /drones [get]
func (s *Server) ListDrones(c *fiber.Ctx) error {
	p := parsePage(c)
	drones, err := s.droneService.List(c.UserContext(), p.Page, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drones)
}

// GetDrone handles GET /api/drones/:id
// @Summary Get drone with reviews
// @Tags drones
// @Produce json
// @Param id path int true "Drone ID"
// @Success 200 {object} models.Drone
// @Failure 404 {object} models.ErrorResponse
// @Router /drones/{id} [get]
func (s *Server) GetDrone(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	drone, err := s.droneService.Get(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drone)
}

// GetDroneByLegacyID handles GET /api/drones/legacy/:legacyId
// @Summary Get drone by legacy ID
// @Tags drones
// @Produce json
// @Param legacyId path int true "Legacy drone ID"
// @Success 200 {object} models.Drone
// @Failure 404 {object} models.ErrorResponse
// @Router /drones/legacy/{legacyId} [get]
func (s *Server) GetDroneByLegacyID(c *fiber.Ctx) error {
	legacyID, err := parseID(c, "legacyId")
	if err != nil {
		return nil
	}
	drone, err := s.droneService.GetByLegacyID(c.UserContext(), legacyID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drone)
}

// ListDronesByCategory handles GET /api/drones/category/:category
// @Summary List drones in a category
// @Tags drones
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} models.Drone
// @Router /drones/category/{category} [get]
func (s *Server) ListDronesByCategory(c *fiber.Ctx) error {
	drones, err := s.droneService.ListByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drones)
}

// ListDronesByPrice handles GET /api/drones/price?min=&max=
// @Summary List drones in an inclusive price range
// @Tags drones
// @Produce json
// @Param min query number true "Minimum price"
// @Param max query number true "Maximum price"
// @Success 200 {array} models.Drone
// @Failure 400 {object} models.ErrorResponse
// @Router /drones/price [get]
func (s *Server) ListDronesByPrice(c *fiber.Ctx) error {
	minPrice, minErr := strconv.ParseFloat(strings.TrimSpace(c.Query("min")), 64)
	maxPrice, maxErr := strconv.ParseFloat(strings.TrimSpace(c.Query("max")), 64)
	if minErr != nil || maxErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("min and max must be numbers"))
	}
	drones, err := s.droneService.ListByPriceRange(c.UserContext(), minPrice, maxPrice)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drones)
}

// CreateDrone handles POST /api/drones
// @Summary Create a listing
// @Tags drones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createDroneRequest true "Listing"
// @Success 201 {object} models.Drone
// @Failure 400 {object} models.ErrorResponse
// @Router /drones [post]
func (s *Server) CreateDrone(c *fiber.Ctx) error {
	var req createDroneRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	drone, err := s.droneService.Create(c.UserContext(), service.CreateDroneInput{
		SellerID:    callerID(c),
		LegacyID:    req.LegacyID,
		Name:        req.Name,
		Model:       req.Model,
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Images,
		Type:        req.Type,
		Condition:   req.Condition,
		Location:    req.Location,
		Contact:     req.Contact,
		Category:    req.Category,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(drone)
}

// UpdateDrone handles PUT /api/drones/:id
// @Summary Update a listing (seller only)
// @Tags drones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drone ID"
// @Param request body updateDroneRequest true "Fields to change"
// @Success 200 {object} models.Drone
// @Failure 403 {object} models.ErrorResponse
// @Router /drones/{id} [put]
func (s *Server) UpdateDrone(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateDroneRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	drone, err := s.droneService.Update(c.UserContext(), service.UpdateDroneInput{
		CallerID:    callerID(c),
		DroneID:     id,
		Name:        req.Name,
		Model:       req.Model,
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Images,
		Type:        req.Type,
		Condition:   req.Condition,
		Location:    req.Location,
		Contact:     req.Contact,
		Category:    req.Category,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drone)
}

// DeleteDrone handles DELETE /api/drones/:id
// @Summary Delete a listing (seller only)
// @Tags drones
// @Security BearerAuth
// @Param id path int true "Drone ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /drones/{id} [delete]
func (s *Server) DeleteDrone(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.droneService.Delete(c.UserContext(), callerID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddReview handles POST /api/drones/:id/review
// @Summary Review a drone
// @Tags drones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drone ID"
// @Param request body reviewRequest true "Review"
// @Success 201 {object} models.Drone
// @Failure 400 {object} models.ErrorResponse
// @Router /drones/{id}/review [post]
func (s *Server) AddReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req reviewRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	drone, err := s.droneService.AddReview(c.UserContext(), service.AddReviewInput{
		DroneID: id,
		UserID:  callerID(c),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(drone)
}

// UploadDroneImage handles POST /api/drones/:id/images (multipart field "image")
// @Summary Upload a listing photo (seller only)
// @Tags drones
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drone ID"
// @Param image formData file true "Image file"
// @Success 200 {object} models.Drone
// @Failure 400 {object} models.ErrorResponse
// @Router /drones/{id}/images [post]
func (s *Server) UploadDroneImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("No file uploaded"))
	}
	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}

	drone, err := s.droneService.UploadImage(c.UserContext(), service.UploadDroneImageInput{
		CallerID:    callerID(c),
		DroneID:     id,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drone)
}

// ListSellerDrones handles GET /api/users/:id/drones
// @Summary Listings owned by a seller
// @Tags drones
// @Produce json
// @Param id path int true "Seller ID"
// @Success 200 {array} models.Drone
// @Router /users/{id}/drones [get]
func (s *Server) ListSellerDrones(c *fiber.Ctx) error {
	sellerID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	drones, err := s.droneService.ListBySeller(c.UserContext(), sellerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drones)
}
