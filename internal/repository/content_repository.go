package repository

import (
	"errors"

	"github.com/bikrans/platform-api/internal/models"
	"gorm.io/gorm"
)

// SliderRepository defines the interface for slider data access
type SliderRepository interface {
	Create(slider *models.Slider) error
	FindByID(id uint64) (*models.Slider, error)

	// List returns all sliders ordered by sort_order; activeOnly narrows to
	// the public set
	List(activeOnly bool) ([]models.Slider, error)

	UpdateFields(id uint64, fields map[string]interface{}) error
	Delete(id uint64) error

	// Reorder applies a sort_order per slider id
	Reorder(order map[uint64]int) error
}

// ThemeRepository defines the interface for header/footer theme data access
type ThemeRepository interface {
	// GetHeader returns the single header settings row, or gorm.ErrRecordNotFound
	GetHeader() (*models.HeaderSetting, error)

	// SaveHeader inserts the row if absent, otherwise applies the field map
	SaveHeader(fields map[string]interface{}) (*models.HeaderSetting, error)

	CreateNavItem(item *models.FooterNavItem) error
	FindNavItem(id uint64) (*models.FooterNavItem, error)
	ListNavItems(activeOnly bool) ([]models.FooterNavItem, error)
	UpdateNavItemFields(id uint64, fields map[string]interface{}) error
	DeleteNavItem(id uint64) error
	ReorderNavItems(order map[uint64]int) error
}

// LandingRepository defines the interface for landing-page content access
type LandingRepository interface {
	// GetSection returns the settings row for a section kind, or
	// gorm.ErrRecordNotFound
	GetSection(kind models.LandingSectionKind) (*models.LandingSection, error)

	// SaveSection inserts the section row if absent, otherwise applies the
	// field map
	SaveSection(kind models.LandingSectionKind, fields map[string]interface{}) (*models.LandingSection, error)

	CreateItem(item *models.LandingItem) error
	FindItem(id uint64, kind models.LandingSectionKind) (*models.LandingItem, error)
	ListItems(kind models.LandingSectionKind, activeOnly bool) ([]models.LandingItem, error)
	UpdateItemFields(id uint64, fields map[string]interface{}) error
	DeleteItem(id uint64) error
	ReorderItems(kind models.LandingSectionKind, order map[uint64]int) error
}

// GormSliderRepository is a GORM implementation of SliderRepository
type GormSliderRepository struct {
	db *gorm.DB
}

// NewSliderRepository creates a new SliderRepository
func NewSliderRepository(db *gorm.DB) SliderRepository {
	return &GormSliderRepository{db: db}
}

func (r *GormSliderRepository) Create(slider *models.Slider) error {
	return r.db.Create(slider).Error
}

func (r *GormSliderRepository) FindByID(id uint64) (*models.Slider, error) {
	var slider models.Slider
	if err := r.db.First(&slider, id).Error; err != nil {
		return nil, err
	}
	return &slider, nil
}

func (r *GormSliderRepository) List(activeOnly bool) ([]models.Slider, error) {
	var sliders []models.Slider
	query := r.db.Order("sort_order ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&sliders).Error
	return sliders, err
}

func (r *GormSliderRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.Slider{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormSliderRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Slider{}, id).Error
}

func (r *GormSliderRepository) Reorder(order map[uint64]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, sortOrder := range order {
			err := tx.Model(&models.Slider{}).Where("id = ?", id).
				Update("sort_order", sortOrder).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GormThemeRepository is a GORM implementation of ThemeRepository
type GormThemeRepository struct {
	db *gorm.DB
}

// NewThemeRepository creates a new ThemeRepository
func NewThemeRepository(db *gorm.DB) ThemeRepository {
	return &GormThemeRepository{db: db}
}

func (r *GormThemeRepository) GetHeader() (*models.HeaderSetting, error) {
	var settings models.HeaderSetting
	if err := r.db.First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *GormThemeRepository) SaveHeader(fields map[string]interface{}) (*models.HeaderSetting, error) {
	var settings models.HeaderSetting
	err := r.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.DefaultHeaderSetting()
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.Model(&models.HeaderSetting{}).Where("id = ?", settings.ID).
			Updates(fields).Error
		if err != nil {
			return nil, err
		}
	}
	return r.GetHeader()
}

func (r *GormThemeRepository) CreateNavItem(item *models.FooterNavItem) error {
	return r.db.Create(item).Error
}

func (r *GormThemeRepository) FindNavItem(id uint64) (*models.FooterNavItem, error) {
	var item models.FooterNavItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormThemeRepository) ListNavItems(activeOnly bool) ([]models.FooterNavItem, error) {
	var items []models.FooterNavItem
	query := r.db.Order("sort_order ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&items).Error
	return items, err
}

func (r *GormThemeRepository) UpdateNavItemFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.FooterNavItem{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormThemeRepository) DeleteNavItem(id uint64) error {
	return r.db.Delete(&models.FooterNavItem{}, id).Error
}

func (r *GormThemeRepository) ReorderNavItems(order map[uint64]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, sortOrder := range order {
			err := tx.Model(&models.FooterNavItem{}).Where("id = ?", id).
				Update("sort_order", sortOrder).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GormLandingRepository is a GORM implementation of LandingRepository
type GormLandingRepository struct {
	db *gorm.DB
}

// NewLandingRepository creates a new LandingRepository
func NewLandingRepository(db *gorm.DB) LandingRepository {
	return &GormLandingRepository{db: db}
}

func (r *GormLandingRepository) GetSection(kind models.LandingSectionKind) (*models.LandingSection, error) {
	var section models.LandingSection
	if err := r.db.Where("kind = ?", kind).First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *GormLandingRepository) SaveSection(kind models.LandingSectionKind, fields map[string]interface{}) (*models.LandingSection, error) {
	var section models.LandingSection
	err := r.db.Where("kind = ?", kind).First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		section = models.LandingSection{Kind: kind}
		if err := r.db.Create(&section).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.Model(&models.LandingSection{}).Where("id = ?", section.ID).
			Updates(fields).Error
		if err != nil {
			return nil, err
		}
	}
	return r.GetSection(kind)
}

func (r *GormLandingRepository) CreateItem(item *models.LandingItem) error {
	return r.db.Create(item).Error
}

func (r *GormLandingRepository) FindItem(id uint64, kind models.LandingSectionKind) (*models.LandingItem, error) {
	var item models.LandingItem
	if err := r.db.Where("id = ? AND kind = ?", id, kind).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormLandingRepository) ListItems(kind models.LandingSectionKind, activeOnly bool) ([]models.LandingItem, error) {
	var items []models.LandingItem
	query := r.db.Where("kind = ?", kind).Order("sort_order ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&items).Error
	return items, err
}

func (r *GormLandingRepository) UpdateItemFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.LandingItem{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormLandingRepository) DeleteItem(id uint64) error {
	return r.db.Delete(&models.LandingItem{}, id).Error
}

func (r *GormLandingRepository) ReorderItems(kind models.LandingSectionKind, order map[uint64]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, sortOrder := range order {
			err := tx.Model(&models.LandingItem{}).
				Where("id = ? AND kind = ?", id, kind).
				Update("sort_order", sortOrder).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
