package models

import (
	"strings"
	"time"
)

// DroneType is the kind of transaction a listing offers.
type DroneType string

const (
	DroneTypeSale   DroneType = "sale"
	DroneTypeRental DroneType = "rental"
)

// DroneCondition describes the state of the listed drone.
type DroneCondition string

const (
	DroneConditionNew  DroneCondition = "new"
	DroneConditionUsed DroneCondition = "used"
)

// ParseDroneType accepts the canonical values and the legacy "venta"/"alquiler".
func ParseDroneType(s string) (DroneType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "venta":
		return DroneTypeSale, true
	case "rental", "alquiler":
		return DroneTypeRental, true
	}
	return "", false
}

// ParseDroneCondition accepts the canonical values and the legacy "nuevo"/"usado".
func ParseDroneCondition(s string) (DroneCondition, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new", "nuevo":
		return DroneConditionNew, true
	case "used", "usado":
		return DroneConditionUsed, true
	}
	return "", false
}

// Drone is a listing owned by exactly one seller.
type Drone struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	LegacyID    *uint          `gorm:"uniqueIndex" json:"legacy_id,omitempty"`
	Name        string         `gorm:"size:120;not null" json:"name"`
	Model       string         `gorm:"size:120;not null" json:"model"`
	Price       float64        `gorm:"not null;index" json:"price"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Images      StringList     `gorm:"type:text" json:"images"`
	Type        DroneType      `gorm:"size:10;not null" json:"type"`
	Condition   DroneCondition `gorm:"size:10;not null" json:"condition"`
	Location    string         `gorm:"size:160;not null" json:"location"`
	Contact     string         `gorm:"size:160;not null" json:"contact"`
	Category    string         `gorm:"size:80;not null;index" json:"category"`
	SellerID    uint           `gorm:"not null;index" json:"seller_id"`
	Reviews     []Review       `gorm:"foreignKey:DroneID" json:"reviews"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Review is an append-only rating left on a drone.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DroneID   uint      `gorm:"not null;index" json:"drone_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	MinRating = 1
	MaxRating = 5
)
