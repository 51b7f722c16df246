package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"skyhub/internal/models"
	"skyhub/internal/observability"
	"skyhub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type DroneService struct {
	droneRepo  repository.DroneRepository
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	images     *ImageProcessor
}

type CreateDroneInput struct {
	SellerID    uint
	LegacyID    *uint
	Name        string
	Model       string
	Price       float64
	Description string
	Images      []string
	Type        string
	Condition   string
	Location    string
	Contact     string
	Category    string
}

// UpdateDroneInput is a partial update; nil or empty fields are left untouched.
type UpdateDroneInput struct {
	CallerID    uint
	DroneID     uint
	Name        string
	Model       string
	Price       *float64
	Description string
	Images      []string
	Type        string
	Condition   string
	Location    string
	Contact     string
	Category    string
}

type AddReviewInput struct {
	DroneID uint
	UserID  uint
	Rating  int
	Comment string
}

type UploadDroneImageInput struct {
	CallerID    uint
	DroneID     uint
	ContentType string
	Content     []byte
}

func NewDroneService(
	droneRepo repository.DroneRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	images *ImageProcessor,
) *DroneService {
	return &DroneService{droneRepo: droneRepo, reviewRepo: reviewRepo, userRepo: userRepo, images: images}
}

func (s *DroneService) Create(ctx context.Context, in CreateDroneInput) (drone *models.Drone, err error) {
	ctx, span := observability.StartSpan(ctx, "drones", "create")
	defer func() { span.End(err) }()

	if err := requireCaller(in.SellerID); err != nil {
		return nil, err
	}

	required := map[string]string{
		"name":        in.Name,
		"model":       in.Model,
		"description": in.Description,
		"type":        in.Type,
		"condition":   in.Condition,
		"location":    in.Location,
		"contact":     in.Contact,
		"category":    in.Category,
	}
	for _, field := range []string{"name", "model", "description", "type", "condition", "location", "contact", "category"} {
		if blank(required[field]) {
			return nil, models.NewValidationError(fmt.Sprintf("%s is required", field))
		}
	}
	if in.Price <= 0 {
		return nil, models.NewValidationError("price must be greater than 0")
	}
	droneType, ok := models.ParseDroneType(in.Type)
	if !ok {
		return nil, models.NewValidationError("type must be sale or rental")
	}
	condition, ok := models.ParseDroneCondition(in.Condition)
	if !ok {
		return nil, models.NewValidationError("condition must be new or used")
	}

	drone = &models.Drone{
		LegacyID:    in.LegacyID,
		Name:        strings.TrimSpace(in.Name),
		Model:       strings.TrimSpace(in.Model),
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
		Images:      models.StringList(in.Images),
		Type:        droneType,
		Condition:   condition,
		Location:    strings.TrimSpace(in.Location),
		Contact:     strings.TrimSpace(in.Contact),
		Category:    strings.TrimSpace(in.Category),
		SellerID:    in.SellerID,
		Reviews:     []models.Review{},
	}
	if drone.Images == nil {
		drone.Images = models.StringList{}
	}
	if err := s.droneRepo.Create(ctx, drone); err != nil {
		return nil, err
	}
	return drone, nil
}

func (s *DroneService) Get(ctx context.Context, id uint) (*models.Drone, error) {
	return s.droneRepo.GetByID(ctx, id)
}

func (s *DroneService) GetByLegacyID(ctx context.Context, legacyID uint) (*models.Drone, error) {
	return s.droneRepo.GetByLegacyID(ctx, legacyID)
}

func (s *DroneService) List(ctx context.Context, page, size int) ([]models.Drone, error) {
	limit, offset := PageOffset(page, size)
	return s.droneRepo.List(ctx, limit, offset)
}

func (s *DroneService) ListByCategory(ctx context.Context, category string) ([]models.Drone, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, models.NewValidationError("category is required")
	}
	return s.droneRepo.ListByCategory(ctx, category)
}

// ListByPriceRange is inclusive on both bounds.
func (s *DroneService) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Drone, error) {
	if !finite(minPrice) || !finite(maxPrice) {
		return nil, models.NewValidationError("price bounds must be finite numbers")
	}
	if minPrice < 0 || maxPrice < 0 {
		return nil, models.NewValidationError("price bounds must not be negative")
	}
	if minPrice > maxPrice {
		return nil, models.NewValidationError("min price must not exceed max price")
	}
	return s.droneRepo.ListByPriceRange(ctx, minPrice, maxPrice)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *DroneService) ListBySeller(ctx context.Context, sellerID uint) ([]models.Drone, error) {
	return s.droneRepo.ListBySeller(ctx, sellerID)
}

// ownedDrone loads a drone and checks that callerID is its seller.
func (s *DroneService) ownedDrone(ctx context.Context, callerID, droneID uint) (*models.Drone, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	drone, err := s.droneRepo.GetByID(ctx, droneID)
	if err != nil {
		return nil, err
	}
	if drone.SellerID != callerID {
		return nil, models.NewForbiddenError("Only the seller can modify this drone")
	}
	return drone, nil
}

func (s *DroneService) Update(ctx context.Context, in UpdateDroneInput) (drone *models.Drone, err error) {
	ctx, span := observability.StartSpan(ctx, "drones", "update", attribute.Int("drone.id", int(in.DroneID)))
	defer func() { span.End(err) }()

	drone, err = s.ownedDrone(ctx, in.CallerID, in.DroneID)
	if err != nil {
		return nil, err
	}

	setString := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	setString(&drone.Name, in.Name)
	setString(&drone.Model, in.Model)
	setString(&drone.Description, in.Description)
	setString(&drone.Location, in.Location)
	setString(&drone.Contact, in.Contact)
	setString(&drone.Category, in.Category)

	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, models.NewValidationError("price must be greater than 0")
		}
		drone.Price = *in.Price
	}
	if in.Images != nil {
		drone.Images = models.StringList(in.Images)
	}
	if in.Type != "" {
		t, ok := models.ParseDroneType(in.Type)
		if !ok {
			return nil, models.NewValidationError("type must be sale or rental")
		}
		drone.Type = t
	}
	if in.Condition != "" {
		c, ok := models.ParseDroneCondition(in.Condition)
		if !ok {
			return nil, models.NewValidationError("condition must be new or used")
		}
		drone.Condition = c
	}

	if err := s.droneRepo.Update(ctx, drone); err != nil {
		return nil, err
	}
	return drone, nil
}

// Delete removes the drone together with its reviews and favorites rows.
func (s *DroneService) Delete(ctx context.Context, callerID, droneID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "drones", "delete", attribute.Int("drone.id", int(droneID)))
	defer func() { span.End(err) }()

	if _, err := s.ownedDrone(ctx, callerID, droneID); err != nil {
		return err
	}
	return s.droneRepo.Delete(ctx, droneID)
}

// AddReview appends a review and returns the drone with its reviews.
func (s *DroneService) AddReview(ctx context.Context, in AddReviewInput) (drone *models.Drone, err error) {
	ctx, span := observability.StartSpan(ctx, "drones", "add_review", attribute.Int("drone.id", int(in.DroneID)))
	defer func() { span.End(err) }()

	if err := requireCaller(in.UserID); err != nil {
		return nil, err
	}
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, models.NewValidationError(fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, models.NewValidationError("comment is required")
	}

	if _, err := s.droneRepo.GetByID(ctx, in.DroneID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	review := &models.Review{
		DroneID: in.DroneID,
		UserID:  in.UserID,
		Rating:  in.Rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return s.droneRepo.GetByID(ctx, in.DroneID)
}

// UploadImage processes a photo and appends its public path to the drone's images.
func (s *DroneService) UploadImage(ctx context.Context, in UploadDroneImageInput) (drone *models.Drone, err error) {
	ctx, span := observability.StartSpan(ctx, "drones", "upload_image", attribute.Int("drone.id", int(in.DroneID)))
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "rejected"
			if models.ErrorCode(err) == models.CodeInternal {
				outcome = "error"
			}
		}
		observability.ImageUploadsTotal.WithLabelValues(outcome).Inc()
		span.End(err)
	}()

	if s.images == nil {
		return nil, models.NewInternalError(fmt.Errorf("image processing not configured"))
	}
	drone, err = s.ownedDrone(ctx, in.CallerID, in.DroneID)
	if err != nil {
		return nil, err
	}

	processed, err := s.images.Process(fmt.Sprintf("drone:%d", drone.ID), in.Content, in.ContentType)
	if err != nil {
		return nil, err
	}
	for _, existing := range drone.Images {
		if existing == processed.PublicPath {
			return drone, nil
		}
	}

	drone.Images = append(drone.Images, processed.PublicPath)
	if err := s.droneRepo.Update(ctx, drone); err != nil {
		s.images.Remove(processed.Hash)
		return nil, err
	}
	return drone, nil
}
