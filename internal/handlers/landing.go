package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bikrans/platform-api/internal/config"
	"github.com/bikrans/platform-api/internal/dto"
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/upload"
)

// LandingHandler serves the marketing landing page content.
type LandingHandler struct {
	landingService *services.LandingService
	projectService *services.ProjectService
	saver          *upload.Saver
	iconPolicy     config.UploadPolicy
}

// NewLandingHandler creates a new LandingHandler.
func NewLandingHandler(landingService *services.LandingService, projectService *services.ProjectService, saver *upload.Saver, iconPolicy config.UploadPolicy) *LandingHandler {
	return &LandingHandler{
		landingService: landingService,
		projectService: projectService,
		saver:          saver,
		iconPolicy:     iconPolicy,
	}
}

// PublicLanding returns the whole landing page aggregate.
func (h *LandingHandler) PublicLanding(c *gin.Context) {
	view, err := h.landingService.PublicLanding()
	if err != nil {
		respondLandingError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PublicProjects lists projects for the registration flow. MCQ answers and
// gating material stay server-side.
func (h *LandingHandler) PublicProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		respondLandingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPublicProjectDTOs(projects))
}

// GetSection returns a section with all its cards for the admin view. The
// kind comes from the route.
func (h *LandingHandler) GetSection(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.landingService.GetSection(kind)
		if err != nil {
			respondLandingError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// UpdateSection saves a section heading.
func (h *LandingHandler) UpdateSection(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		type sectionRequest struct {
			SectionTitle string `json:"section_title"`
		}
		var req sectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}

		section, err := h.landingService.UpdateSectionTitle(kind, req.SectionTitle)
		if err != nil {
			respondLandingError(c, err)
			return
		}
		c.JSON(http.StatusOK, section)
	}
}

// UploadIcon stores a card icon image and returns its public path.
func (h *LandingHandler) UploadIcon(c *gin.Context) {
	header, err := c.FormFile("icon")
	if err != nil {
		apierrors.BadRequest(c, "Icon file is required")
		return
	}

	stored, err := h.saver.Save(header, h.iconPolicy)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "icon_path": stored.PublicPath})
}

// CreateItem adds a card to a section.
func (h *LandingHandler) CreateItem(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		type itemRequest struct {
			Icon        string `json:"icon"`
			Title       string `json:"title"`
			Description string `json:"description"`
			LinkText    string `json:"link_text"`
			LinkURL     string `json:"link_url"`
			IsImage     bool   `json:"is_image"`
			SortOrder   int    `json:"sort_order"`
			IsActive    *bool  `json:"is_active"`
		}
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		item, err := h.landingService.CreateItem(kind, services.CreateItemInput{
			Icon:        req.Icon,
			Title:       req.Title,
			Description: req.Description,
			LinkText:    req.LinkText,
			LinkURL:     req.LinkURL,
			IsImage:     req.IsImage,
			SortOrder:   req.SortOrder,
			IsActive:    isActive,
		})
		if err != nil {
			respondLandingError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// UpdateItem applies the JSON fields present in the request to a card.
func (h *LandingHandler) UpdateItem(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		type itemUpdate struct {
			Icon        *string `json:"icon"`
			Title       *string `json:"title"`
			Description *string `json:"description"`
			LinkText    *string `json:"link_text"`
			LinkURL     *string `json:"link_url"`
			IsImage     *bool   `json:"is_image"`
			SortOrder   *int    `json:"sort_order"`
			IsActive    *bool   `json:"is_active"`
		}
		var req itemUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}

		fields := map[string]interface{}{}
		if req.Icon != nil {
			fields["icon"] = *req.Icon
		}
		if req.Title != nil {
			fields["title"] = *req.Title
		}
		if req.Description != nil {
			fields["description"] = *req.Description
		}
		if req.LinkText != nil {
			fields["link_text"] = *req.LinkText
		}
		if req.LinkURL != nil {
			fields["link_url"] = *req.LinkURL
		}
		if req.IsImage != nil {
			fields["is_image"] = *req.IsImage
		}
		if req.SortOrder != nil {
			fields["sort_order"] = *req.SortOrder
		}
		if req.IsActive != nil {
			fields["is_active"] = *req.IsActive
		}

		item, err := h.landingService.UpdateItem(kind, id, fields)
		if err != nil {
			respondLandingError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DeleteItem removes a card.
func (h *LandingHandler) DeleteItem(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := h.landingService.DeleteItem(kind, id); err != nil {
			respondLandingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
	}
}

// ReorderItems applies a new sort order within a section.
func (h *LandingHandler) ReorderItems(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := bindReorder(c)
		if !ok {
			return
		}
		if err := h.landingService.ReorderItems(kind, order); err != nil {
			respondLandingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Items reordered"})
	}
}

// GetCta returns the call-to-action block.
func (h *LandingHandler) GetCta(c *gin.Context) {
	cta, err := h.landingService.CtaSection()
	if err != nil {
		respondLandingError(c, err)
		return
	}
	c.JSON(http.StatusOK, cta)
}

// UpdateCta saves the call-to-action block fields present in the request.
func (h *LandingHandler) UpdateCta(c *gin.Context) {
	type ctaRequest struct {
		Heading          *string `json:"heading"`
		Subtitle         *string `json:"subtitle"`
		PrimaryBtnText   *string `json:"primary_btn_text"`
		PrimaryBtnLink   *string `json:"primary_btn_link"`
		SecondaryBtnText *string `json:"secondary_btn_text"`
		SecondaryBtnLink *string `json:"secondary_btn_link"`
	}
	var req ctaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.Heading != nil {
		fields["title"] = *req.Heading
	}
	if req.Subtitle != nil {
		fields["subtitle"] = *req.Subtitle
	}
	if req.PrimaryBtnText != nil {
		fields["primary_btn_text"] = *req.PrimaryBtnText
	}
	if req.PrimaryBtnLink != nil {
		fields["primary_btn_link"] = *req.PrimaryBtnLink
	}
	if req.SecondaryBtnText != nil {
		fields["secondary_btn_text"] = *req.SecondaryBtnText
	}
	if req.SecondaryBtnLink != nil {
		fields["secondary_btn_link"] = *req.SecondaryBtnLink
	}

	cta, err := h.landingService.UpdateCtaSection(fields)
	if err != nil {
		respondLandingError(c, err)
		return
	}
	c.JSON(http.StatusOK, cta)
}

func respondLandingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLandingItemNotFound):
		apierrors.NotFound(c, "Landing item not found")
	case errors.Is(err, services.ErrLandingItemIncomplete),
		errors.Is(err, services.ErrUnknownSectionKind),
		errors.Is(err, services.ErrNothingToUpdate):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "landing error", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
