package services

import (
	"errors"
	"fmt"

	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSliderNotFound     = errors.New("slider not found")
	ErrSliderImageMissing = errors.New("image is required")
	ErrNothingToUpdate    = errors.New("no fields to update")
)

// SliderService backs the home-page slider carousel.
type SliderService struct {
	sliderRepo repository.SliderRepository
}

// NewSliderService creates a new SliderService
func NewSliderService(sliderRepo repository.SliderRepository) *SliderService {
	return &SliderService{sliderRepo: sliderRepo}
}

// PublicSliders returns the active sliders in display order.
func (s *SliderService) PublicSliders() ([]models.Slider, error) {
	sliders, err := s.sliderRepo.List(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list sliders: %w", err)
	}
	return sliders, nil
}

// AdminSliders returns every slider in display order.
func (s *SliderService) AdminSliders() ([]models.Slider, error) {
	sliders, err := s.sliderRepo.List(false)
	if err != nil {
		return nil, fmt.Errorf("failed to list sliders: %w", err)
	}
	return sliders, nil
}

// CreateSliderInput carries a new slide. ImagePath is the stored upload path.
type CreateSliderInput struct {
	ImagePath string
	Title     string
	Subtitle  string
	Link      string
	SortOrder int
	IsActive  bool
}

// CreateSlider records a new slide. The image must already be uploaded.
func (s *SliderService) CreateSlider(input CreateSliderInput) (*models.Slider, error) {
	if input.ImagePath == "" {
		return nil, ErrSliderImageMissing
	}
	slider := &models.Slider{
		Image:     input.ImagePath,
		Title:     input.Title,
		Subtitle:  input.Subtitle,
		Link:      input.Link,
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
	}
	if err := s.sliderRepo.Create(slider); err != nil {
		return nil, fmt.Errorf("failed to create slider: %w", err)
	}
	return slider, nil
}

// UpdateSlider applies the provided field map. The caller builds the map from
// the fields present in the request; an empty map is rejected. When a new
// image path is set the previous file's path is returned so the handler can
// remove it.
func (s *SliderService) UpdateSlider(id uint64, fields map[string]interface{}) (*models.Slider, string, error) {
	if len(fields) == 0 {
		return nil, "", ErrNothingToUpdate
	}

	current, err := s.sliderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSliderNotFound
		}
		return nil, "", fmt.Errorf("failed to find slider: %w", err)
	}

	replacedImage := ""
	if _, ok := fields["image"]; ok {
		replacedImage = current.Image
	}

	if err := s.sliderRepo.UpdateFields(id, fields); err != nil {
		return nil, "", fmt.Errorf("failed to update slider: %w", err)
	}

	updated, err := s.sliderRepo.FindByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to reload slider: %w", err)
	}
	return updated, replacedImage, nil
}

// DeleteSlider removes a slide and returns its image path so the handler can
// remove the file.
func (s *SliderService) DeleteSlider(id uint64) (string, error) {
	slider, err := s.sliderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSliderNotFound
		}
		return "", fmt.Errorf("failed to find slider: %w", err)
	}
	if err := s.sliderRepo.Delete(id); err != nil {
		return "", fmt.Errorf("failed to delete slider: %w", err)
	}
	return slider.Image, nil
}

// ReorderSliders applies a new sort order mapping.
func (s *SliderService) ReorderSliders(order map[uint64]int) error {
	if len(order) == 0 {
		return nil
	}
	if err := s.sliderRepo.Reorder(order); err != nil {
		return fmt.Errorf("failed to reorder sliders: %w", err)
	}
	return nil
}
