package services

import (
	"errors"
	"fmt"

	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNavItemNotFound = errors.New("footer nav item not found")
var ErrNavItemFieldsRequired = errors.New("icon, label, and link are required")

// ThemeService backs the site header theme and footer navigation.
type ThemeService struct {
	themeRepo repository.ThemeRepository
}

// NewThemeService creates a new ThemeService
func NewThemeService(themeRepo repository.ThemeRepository) *ThemeService {
	return &ThemeService{themeRepo: themeRepo}
}

// HeaderSettings returns the saved theme, or the defaults when no admin has
// saved one yet.
func (s *ThemeService) HeaderSettings() (*models.HeaderSetting, error) {
	settings, err := s.themeRepo.GetHeader()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := models.DefaultHeaderSetting()
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to get header settings: %w", err)
	}
	return settings, nil
}

// UpdateHeaderSettings applies the provided field map, creating the settings
// row on first save.
func (s *ThemeService) UpdateHeaderSettings(fields map[string]interface{}) (*models.HeaderSetting, error) {
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}
	settings, err := s.themeRepo.SaveHeader(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update header settings: %w", err)
	}
	return settings, nil
}

// SetLogo swaps in a newly uploaded logo, returning the previous path so the
// handler can remove the old file.
func (s *ThemeService) SetLogo(logoPath string) (string, error) {
	previous := ""
	if current, err := s.themeRepo.GetHeader(); err == nil {
		previous = current.LogoImage
	}
	_, err := s.themeRepo.SaveHeader(map[string]interface{}{"logo_image": logoPath})
	if err != nil {
		return "", fmt.Errorf("failed to save logo: %w", err)
	}
	return previous, nil
}

// SetFooterVisibility flips the site-wide footer switch.
func (s *ThemeService) SetFooterVisibility(show bool) (bool, error) {
	settings, err := s.themeRepo.SaveHeader(map[string]interface{}{"show_footer": show})
	if err != nil {
		return false, fmt.Errorf("failed to update footer visibility: %w", err)
	}
	return settings.ShowFooter, nil
}

// PublicNavItems returns the active footer navigation in display order.
func (s *ThemeService) PublicNavItems() ([]models.FooterNavItem, error) {
	items, err := s.themeRepo.ListNavItems(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list footer nav items: %w", err)
	}
	return items, nil
}

// AdminNavItems returns every footer nav item in display order.
func (s *ThemeService) AdminNavItems() ([]models.FooterNavItem, error) {
	items, err := s.themeRepo.ListNavItems(false)
	if err != nil {
		return nil, fmt.Errorf("failed to list footer nav items: %w", err)
	}
	return items, nil
}

// CreateNavItemInput carries a new footer nav entry.
type CreateNavItemInput struct {
	Icon      string
	Label     string
	Link      string
	SortOrder int
	IsActive  bool
}

// CreateNavItem adds a footer navigation entry.
func (s *ThemeService) CreateNavItem(input CreateNavItemInput) (*models.FooterNavItem, error) {
	if input.Icon == "" || input.Label == "" || input.Link == "" {
		return nil, ErrNavItemFieldsRequired
	}
	item := &models.FooterNavItem{
		Icon:      input.Icon,
		Label:     input.Label,
		Link:      input.Link,
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
	}
	if err := s.themeRepo.CreateNavItem(item); err != nil {
		return nil, fmt.Errorf("failed to create footer nav item: %w", err)
	}
	return item, nil
}

// UpdateNavItem applies the provided field map to a footer nav entry.
func (s *ThemeService) UpdateNavItem(id uint64, fields map[string]interface{}) (*models.FooterNavItem, error) {
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}
	if _, err := s.themeRepo.FindNavItem(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNavItemNotFound
		}
		return nil, fmt.Errorf("failed to find footer nav item: %w", err)
	}
	if err := s.themeRepo.UpdateNavItemFields(id, fields); err != nil {
		return nil, fmt.Errorf("failed to update footer nav item: %w", err)
	}
	item, err := s.themeRepo.FindNavItem(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload footer nav item: %w", err)
	}
	return item, nil
}

// DeleteNavItem removes a footer navigation entry.
func (s *ThemeService) DeleteNavItem(id uint64) error {
	if _, err := s.themeRepo.FindNavItem(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNavItemNotFound
		}
		return fmt.Errorf("failed to find footer nav item: %w", err)
	}
	if err := s.themeRepo.DeleteNavItem(id); err != nil {
		return fmt.Errorf("failed to delete footer nav item: %w", err)
	}
	return nil
}

// ReorderNavItems applies a new sort order mapping.
func (s *ThemeService) ReorderNavItems(order map[uint64]int) error {
	if len(order) == 0 {
		return nil
	}
	if err := s.themeRepo.ReorderNavItems(order); err != nil {
		return fmt.Errorf("failed to reorder footer nav items: %w", err)
	}
	return nil
}
