package services

import (
	"errors"
	"fmt"

	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrLandingItemNotFound    = errors.New("landing item not found")
	ErrLandingItemIncomplete  = errors.New("icon and title are required")
	ErrUnknownSectionKind     = errors.New("unknown section kind")
)

const (
	defaultServicesTitle = "সব স্বাস্থ্য সমাধান এক প্ল্যাটফর্মে"
	defaultFeaturesTitle = "কেন বিক্রান্স বেছে নেবেন?"
)

// LandingService backs the marketing landing page: the services and features
// card sections plus the call-to-action block.
type LandingService struct {
	landingRepo repository.LandingRepository
}

// NewLandingService creates a new LandingService
func NewLandingService(landingRepo repository.LandingRepository) *LandingService {
	return &LandingService{landingRepo: landingRepo}
}

// SectionView is a section heading plus its visible cards.
type SectionView struct {
	SectionTitle string               `json:"section_title"`
	Items        []models.LandingItem `json:"items"`
}

// CtaView is the call-to-action block of the landing page.
type CtaView struct {
	Heading          string `json:"heading"`
	Subtitle         string `json:"subtitle"`
	PrimaryBtnText   string `json:"primary_btn_text"`
	PrimaryBtnLink   string `json:"primary_btn_link"`
	SecondaryBtnText string `json:"secondary_btn_text"`
	SecondaryBtnLink string `json:"secondary_btn_link"`
}

// LandingView is the public landing aggregate.
type LandingView struct {
	Services SectionView `json:"services"`
	Features SectionView `json:"features"`
	Cta      CtaView     `json:"cta"`
}

func defaultCta() CtaView {
	return CtaView{
		Heading:          "আজই শুরু করুন",
		Subtitle:         "স্বাস্থ্য ও আয়ের নতুন যাত্রা",
		PrimaryBtnText:   "📞 কল করুন",
		PrimaryBtnLink:   "+8801700000000",
		SecondaryBtnText: "💬 WhatsApp",
		SecondaryBtnLink: "8801700000000",
	}
}

func defaultSectionTitle(kind models.LandingSectionKind) string {
	if kind == models.SectionFeatures {
		return defaultFeaturesTitle
	}
	return defaultServicesTitle
}

// PublicLanding assembles the whole landing page in one read: active cards
// only, headings falling back to defaults when unset.
func (s *LandingService) PublicLanding() (*LandingView, error) {
	services, err := s.sectionView(models.SectionServices, true)
	if err != nil {
		return nil, err
	}
	features, err := s.sectionView(models.SectionFeatures, true)
	if err != nil {
		return nil, err
	}
	cta, err := s.CtaSection()
	if err != nil {
		return nil, err
	}
	return &LandingView{Services: *services, Features: *features, Cta: *cta}, nil
}

// GetSection returns a section heading with every card, active or not.
// Admin view.
func (s *LandingService) GetSection(kind string) (*SectionView, error) {
	if !models.ValidSectionKind(kind) {
		return nil, ErrUnknownSectionKind
	}
	return s.sectionView(models.LandingSectionKind(kind), false)
}

func (s *LandingService) sectionView(kind models.LandingSectionKind, activeOnly bool) (*SectionView, error) {
	title := defaultSectionTitle(kind)
	if section, err := s.landingRepo.GetSection(kind); err == nil && section.Title != "" {
		title = section.Title
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get %s section: %w", kind, err)
	}

	items, err := s.landingRepo.ListItems(kind, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", kind, err)
	}
	return &SectionView{SectionTitle: title, Items: items}, nil
}

// UpdateSectionTitle saves a section heading, creating the row on first save.
func (s *LandingService) UpdateSectionTitle(kind, title string) (*models.LandingSection, error) {
	if !models.ValidSectionKind(kind) {
		return nil, ErrUnknownSectionKind
	}
	k := models.LandingSectionKind(kind)
	if title == "" {
		title = defaultSectionTitle(k)
	}
	section, err := s.landingRepo.SaveSection(k, map[string]interface{}{"title": title})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s section: %w", kind, err)
	}
	return section, nil
}

// CreateItemInput carries a new landing card.
type CreateItemInput struct {
	Icon        string
	Title       string
	Description string
	LinkText    string
	LinkURL     string
	IsImage     bool
	SortOrder   int
	IsActive    bool
}

// CreateItem adds a card to the services or features section.
func (s *LandingService) CreateItem(kind string, input CreateItemInput) (*models.LandingItem, error) {
	if !models.ValidSectionKind(kind) {
		return nil, ErrUnknownSectionKind
	}
	if input.Icon == "" || input.Title == "" {
		return nil, ErrLandingItemIncomplete
	}
	item := &models.LandingItem{
		Kind:        models.LandingSectionKind(kind),
		Icon:        input.Icon,
		Title:       input.Title,
		Description: input.Description,
		LinkText:    input.LinkText,
		LinkURL:     input.LinkURL,
		IsImage:     input.IsImage,
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if err := s.landingRepo.CreateItem(item); err != nil {
		return nil, fmt.Errorf("failed to create %s item: %w", kind, err)
	}
	return item, nil
}

// UpdateItem applies the provided field map to a card.
func (s *LandingService) UpdateItem(kind string, id uint64, fields map[string]interface{}) (*models.LandingItem, error) {
	if !models.ValidSectionKind(kind) {
		return nil, ErrUnknownSectionKind
	}
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}
	k := models.LandingSectionKind(kind)
	if _, err := s.landingRepo.FindItem(id, k); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLandingItemNotFound
		}
		return nil, fmt.Errorf("failed to find %s item: %w", kind, err)
	}
	if err := s.landingRepo.UpdateItemFields(id, fields); err != nil {
		return nil, fmt.Errorf("failed to update %s item: %w", kind, err)
	}
	item, err := s.landingRepo.FindItem(id, k)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s item: %w", kind, err)
	}
	return item, nil
}

// DeleteItem removes a card.
func (s *LandingService) DeleteItem(kind string, id uint64) error {
	if !models.ValidSectionKind(kind) {
		return ErrUnknownSectionKind
	}
	k := models.LandingSectionKind(kind)
	if _, err := s.landingRepo.FindItem(id, k); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLandingItemNotFound
		}
		return fmt.Errorf("failed to find %s item: %w", kind, err)
	}
	if err := s.landingRepo.DeleteItem(id); err != nil {
		return fmt.Errorf("failed to delete %s item: %w", kind, err)
	}
	return nil
}

// ReorderItems applies a new sort order mapping within a section.
func (s *LandingService) ReorderItems(kind string, order map[uint64]int) error {
	if !models.ValidSectionKind(kind) {
		return ErrUnknownSectionKind
	}
	if len(order) == 0 {
		return nil
	}
	if err := s.landingRepo.ReorderItems(models.LandingSectionKind(kind), order); err != nil {
		return fmt.Errorf("failed to reorder %s items: %w", kind, err)
	}
	return nil
}

// CtaSection returns the call-to-action block, falling back to defaults.
func (s *LandingService) CtaSection() (*CtaView, error) {
	section, err := s.landingRepo.GetSection(models.SectionCta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cta := defaultCta()
			return &cta, nil
		}
		return nil, fmt.Errorf("failed to get cta section: %w", err)
	}

	cta := defaultCta()
	if section.Title != "" {
		cta.Heading = section.Title
	}
	if section.Subtitle != "" {
		cta.Subtitle = section.Subtitle
	}
	if section.PrimaryBtnText != "" {
		cta.PrimaryBtnText = section.PrimaryBtnText
	}
	if section.PrimaryBtnLink != "" {
		cta.PrimaryBtnLink = section.PrimaryBtnLink
	}
	if section.SecondaryBtnText != "" {
		cta.SecondaryBtnText = section.SecondaryBtnText
	}
	if section.SecondaryBtnLink != "" {
		cta.SecondaryBtnLink = section.SecondaryBtnLink
	}
	return &cta, nil
}

// UpdateCtaSection saves the call-to-action block fields.
func (s *LandingService) UpdateCtaSection(fields map[string]interface{}) (*CtaView, error) {
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}
	if _, err := s.landingRepo.SaveSection(models.SectionCta, fields); err != nil {
		return nil, fmt.Errorf("failed to update cta section: %w", err)
	}
	return s.CtaSection()
}
