package models

import "time"

type Slider struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Image     string    `gorm:"type:varchar(500);not null" json:"image"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Subtitle  string    `gorm:"type:varchar(255)" json:"subtitle"`
	Link      string    `gorm:"type:varchar(500)" json:"link"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
