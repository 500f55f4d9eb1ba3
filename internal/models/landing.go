package models

import "time"

type LandingSectionKind string

const (
	SectionServices LandingSectionKind = "services"
	SectionFeatures LandingSectionKind = "features"
	SectionCta      LandingSectionKind = "cta"
)

// ValidSectionKind reports whether kind names an item-bearing section.
func ValidSectionKind(kind string) bool {
	switch LandingSectionKind(kind) {
	case SectionServices, SectionFeatures:
		return true
	}
	return false
}

// LandingSection holds the heading and button settings of one landing-page
// section. The services and features rows use only Title; the cta row also
// carries the subtitle and the two buttons.
type LandingSection struct {
	ID               uint64             `gorm:"primarykey" json:"id"`
	Kind             LandingSectionKind `gorm:"type:varchar(20);uniqueIndex;not null" json:"kind"`
	Title            string             `gorm:"type:varchar(255)" json:"title"`
	Subtitle         string             `gorm:"type:varchar(500)" json:"subtitle"`
	PrimaryBtnText   string             `gorm:"type:varchar(100)" json:"primary_btn_text"`
	PrimaryBtnLink   string             `gorm:"type:varchar(100)" json:"primary_btn_link"`
	SecondaryBtnText string             `gorm:"type:varchar(100)" json:"secondary_btn_text"`
	SecondaryBtnLink string             `gorm:"type:varchar(100)" json:"secondary_btn_link"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// LandingItem is one card inside the services or features section. Icon is
// either an emoji or an uploaded image path, IsImage tells them apart.
type LandingItem struct {
	ID          uint64             `gorm:"primarykey" json:"id"`
	Kind        LandingSectionKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Icon        string             `gorm:"type:varchar(500);not null" json:"icon"`
	Title       string             `gorm:"type:varchar(255);not null" json:"title"`
	Description string             `gorm:"type:varchar(500)" json:"description"`
	LinkText    string             `gorm:"type:varchar(255)" json:"link_text"`
	LinkURL     string             `gorm:"type:varchar(500)" json:"link_url"`
	IsImage     bool               `gorm:"default:false" json:"is_image"`
	SortOrder   int                `gorm:"default:0;index" json:"sort_order"`
	IsActive    bool               `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
