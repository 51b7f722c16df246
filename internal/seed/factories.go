// Package seed fills a database with demo marketplace data. It is meant for
// development and tests only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"skyhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword satisfies the signup password policy so seeded accounts can log in.
const DefaultPassword = "Passw0rd!"

var (
	droneCategories = []string{"camera", "racing", "agriculture", "mapping", "toy", "cinema"}
	droneBrands     = []string{"DJI", "Autel", "Parrot", "Skydio", "Holy Stone", "Walkera"}
	reviewComments  = []string{
		"Flies smooth, battery as described.",
		"Seller answered every question quickly.",
		"Gimbal needed recalibration but works now.",
		"Exactly what I was looking for.",
		"Props were a bit worn.",
	}
)

// Factory builds domain rows with gofakeit and persists them.
type Factory struct {
	db       *gorm.DB
	rnd      *rand.Rand
	hashed   string
	sequence int
}

// NewFactory binds a Factory to db. A zero seed picks one from the clock.
func NewFactory(db *gorm.DB, seed int64, hashCost int) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	// one hash for every seeded account keeps large runs fast
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{db: db, rnd: rand.New(rand.NewSource(seed)), hashed: string(hashed)}, nil
}

// username returns a unique name that passes signup validation (4-20 chars, [A-Za-z0-9_]).
func (f *Factory) username() string {
	f.sequence++
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, gofakeit.FirstName()+"_"+gofakeit.LastName())
	suffix := fmt.Sprintf("%d", f.sequence)
	if limit := 20 - len(suffix); len(base) > limit {
		base = base[:limit]
	}
	if len(base) < 3 {
		base = "pilot"
	}
	return base + suffix
}

// CreateUser persists a user with DefaultPassword. Overrides run before the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := f.username()
	user := &models.User{
		Username: name,
		Email:    strings.ToLower(name) + "@" + gofakeit.DomainName(),
		Password: f.hashed,
		Role:     models.RoleUser,
	}
	for _, o := range overrides {
		o(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// BuildDrone returns an unsaved listing for seller.
func (f *Factory) BuildDrone(seller *models.User) *models.Drone {
	brand := droneBrands[f.rnd.Intn(len(droneBrands))]
	droneType := models.DroneTypeSale
	if f.rnd.Intn(4) == 0 {
		droneType = models.DroneTypeRental
	}
	condition := models.DroneConditionUsed
	if f.rnd.Intn(3) == 0 {
		condition = models.DroneConditionNew
	}
	return &models.Drone{
		Name:        brand + " " + gofakeit.Adjective(),
		Model:       strings.ToUpper(gofakeit.LetterN(2)) + "-" + fmt.Sprint(gofakeit.Number(1, 9)),
		Price:       float64(gofakeit.Number(50, 6000)),
		Description: gofakeit.Sentence(14),
		Images:      models.StringList{fmt.Sprintf("https://picsum.photos/seed/%s/800/600", uuid.NewString())},
		Type:        droneType,
		Condition:   condition,
		Location:    gofakeit.City(),
		Contact:     seller.Email,
		Category:    droneCategories[f.rnd.Intn(len(droneCategories))],
		SellerID:    seller.ID,
	}
}

// CreateDrones persists n listings for seller in one batch.
func (f *Factory) CreateDrones(seller *models.User, n int) ([]*models.Drone, error) {
	if n <= 0 {
		return nil, nil
	}
	drones := make([]*models.Drone, n)
	for i := range drones {
		drones[i] = f.BuildDrone(seller)
	}
	if err := f.db.Create(&drones).Error; err != nil {
		return nil, fmt.Errorf("create drones: %w", err)
	}
	return drones, nil
}

// CreateReview persists a 1-5 star review.
func (f *Factory) CreateReview(drone *models.Drone, author *models.User) (*models.Review, error) {
	review := &models.Review{
		DroneID: drone.ID,
		UserID:  author.ID,
		Rating:  1 + f.rnd.Intn(5),
		Comment: reviewComments[f.rnd.Intn(len(reviewComments))],
	}
	if err := f.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// CreateForumEntry persists a post authored by author.
func (f *Factory) CreateForumEntry(author *models.User) (*models.ForumEntry, error) {
	entry := &models.ForumEntry{
		Title:    strings.TrimSuffix(gofakeit.Sentence(6), "."),
		Body:     gofakeit.Paragraph(1, 3, 10, " "),
		AuthorID: author.ID,
	}
	if err := f.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("create forum entry: %w", err)
	}
	return entry, nil
}

// CreateMessage persists a message sent at a random time in the last week.
func (f *Factory) CreateMessage(from, to *models.User) (*models.Message, error) {
	msg := &models.Message{
		SenderID:   from.ID,
		ReceiverID: to.ID,
		Content:    gofakeit.Question(),
		Timestamp:  time.Now().UTC().Add(-time.Duration(f.rnd.Intn(7*24*60)) * time.Minute),
	}
	if err := f.db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}
