package models

import "time"

// HeaderSetting is a single-row table holding the site header theme plus the
// footer visibility switch.
type HeaderSetting struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	LogoImage     string    `gorm:"type:varchar(500);default:'/BIKRANS-FINAL.png'" json:"logo_image"`
	LogoHeight    int       `gorm:"default:36" json:"logo_height"`
	HeaderHeight  int       `gorm:"default:56" json:"header_height"`
	HeaderBgColor string    `gorm:"type:varchar(20);default:'#ffffff'" json:"header_bg_color"`
	ShowSearchBtn bool      `gorm:"default:true" json:"show_search_btn"`
	AppBtnText    string    `gorm:"type:varchar(100)" json:"app_btn_text"`
	AppBtnLink    string    `gorm:"type:varchar(500)" json:"app_btn_link"`
	AppBtnBgColor string    `gorm:"type:varchar(20);default:'#52B788'" json:"app_btn_bg_color"`
	ShowMenuBtn   bool      `gorm:"default:true" json:"show_menu_btn"`
	ShowFooter    bool      `gorm:"default:true" json:"show_footer"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultHeaderSetting returns the theme served before an admin has saved one.
func DefaultHeaderSetting() HeaderSetting {
	return HeaderSetting{
		LogoImage:     "/BIKRANS-FINAL.png",
		LogoHeight:    36,
		HeaderHeight:  56,
		HeaderBgColor: "#ffffff",
		ShowSearchBtn: true,
		AppBtnText:    "বিক্রান্স অ্যাপ",
		AppBtnBgColor: "#52B788",
		ShowMenuBtn:   true,
		ShowFooter:    true,
	}
}

type FooterNavItem struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Icon      string    `gorm:"type:varchar(50);not null" json:"icon"`
	Label     string    `gorm:"type:varchar(100);not null" json:"label"`
	Link      string    `gorm:"type:varchar(500);not null" json:"link"`
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
