package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bikrans/platform-api/internal/config"
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/upload"
)

// ThemeHandler serves the site header theme and footer navigation.
type ThemeHandler struct {
	themeService *services.ThemeService
	saver        *upload.Saver
	logoPolicy   config.UploadPolicy
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(themeService *services.ThemeService, saver *upload.Saver, logoPolicy config.UploadPolicy) *ThemeHandler {
	return &ThemeHandler{themeService: themeService, saver: saver, logoPolicy: logoPolicy}
}

// Header returns the current theme, defaults included. Public and admin
// share this read.
func (h *ThemeHandler) Header(c *gin.Context) {
	settings, err := h.themeService.HeaderSettings()
	if err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateHeader applies the JSON fields present in the request.
func (h *ThemeHandler) UpdateHeader(c *gin.Context) {
	type headerRequest struct {
		LogoImage     *string `json:"logo_image"`
		LogoHeight    *int    `json:"logo_height"`
		HeaderHeight  *int    `json:"header_height"`
		HeaderBgColor *string `json:"header_bg_color"`
		ShowSearchBtn *bool   `json:"show_search_btn"`
		AppBtnText    *string `json:"app_btn_text"`
		AppBtnLink    *string `json:"app_btn_link"`
		AppBtnBgColor *string `json:"app_btn_bg_color"`
		ShowMenuBtn   *bool   `json:"show_menu_btn"`
		ShowFooter    *bool   `json:"show_footer"`
	}

	var req headerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	setIf := func(key string, v interface{}, present bool) {
		if present {
			fields[key] = v
		}
	}
	setIf("logo_image", deref(req.LogoImage), req.LogoImage != nil)
	setIf("logo_height", derefInt(req.LogoHeight), req.LogoHeight != nil)
	setIf("header_height", derefInt(req.HeaderHeight), req.HeaderHeight != nil)
	setIf("header_bg_color", deref(req.HeaderBgColor), req.HeaderBgColor != nil)
	setIf("show_search_btn", derefBool(req.ShowSearchBtn), req.ShowSearchBtn != nil)
	setIf("app_btn_text", deref(req.AppBtnText), req.AppBtnText != nil)
	setIf("app_btn_link", deref(req.AppBtnLink), req.AppBtnLink != nil)
	setIf("app_btn_bg_color", deref(req.AppBtnBgColor), req.AppBtnBgColor != nil)
	setIf("show_menu_btn", derefBool(req.ShowMenuBtn), req.ShowMenuBtn != nil)
	setIf("show_footer", derefBool(req.ShowFooter), req.ShowFooter != nil)

	settings, err := h.themeService.UpdateHeaderSettings(fields)
	if err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UploadLogo stores a new logo image and swaps it into the theme.
func (h *ThemeHandler) UploadLogo(c *gin.Context) {
	header, err := c.FormFile("logo")
	if err != nil {
		apierrors.BadRequest(c, "Logo file is required")
		return
	}

	stored, err := h.saver.Save(header, h.logoPolicy)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	previous, err := h.themeService.SetLogo(stored.PublicPath)
	if err != nil {
		if rmErr := h.saver.Remove(stored.PublicPath); rmErr != nil {
			logger.Warn(c.Request.Context(), "failed to remove orphaned upload", zap.Error(rmErr))
		}
		respondThemeError(c, err)
		return
	}
	if rmErr := h.saver.Remove(previous); rmErr != nil {
		logger.Warn(c.Request.Context(), "failed to remove replaced logo", zap.Error(rmErr))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "logo_path": stored.PublicPath})
}

// UpdateFooterVisibility flips the site-wide footer switch.
func (h *ThemeHandler) UpdateFooterVisibility(c *gin.Context) {
	type visibilityRequest struct {
		ShowFooter *bool `json:"show_footer"`
	}
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	show := true
	if req.ShowFooter != nil {
		show = *req.ShowFooter
	}

	current, err := h.themeService.SetFooterVisibility(show)
	if err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"show_footer": current})
}

// PublicFooter returns the active footer navigation.
func (h *ThemeHandler) PublicFooter(c *gin.Context) {
	items, err := h.themeService.PublicNavItems()
	if err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListFooter returns every footer nav item for the admin view.
func (h *ThemeHandler) ListFooter(c *gin.Context) {
	items, err := h.themeService.AdminNavItems()
	if err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateFooterItem adds a footer nav entry.
func (h *ThemeHandler) CreateFooterItem(c *gin.Context) {
	type navItemRequest struct {
		Icon      string `json:"icon"`
		Label     string `json:"label"`
		Link      string `json:"link"`
		SortOrder int    `json:"sort_order"`
		IsActive  *bool  `json:"is_active"`
	}
	var req navItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	item, err := h.themeService.CreateNavItem(services.CreateNavItemInput{
		Icon:      req.Icon,
		Label:     req.Label,
		Link:      req.Link,
		SortOrder: req.SortOrder,
		IsActive:  isActive,
	})
	if err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateFooterItem applies the JSON fields present in the request.
func (h *ThemeHandler) UpdateFooterItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type navItemUpdate struct {
		Icon      *string `json:"icon"`
		Label     *string `json:"label"`
		Link      *string `json:"link"`
		SortOrder *int    `json:"sort_order"`
		IsActive  *bool   `json:"is_active"`
	}
	var req navItemUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Label != nil {
		fields["label"] = *req.Label
	}
	if req.Link != nil {
		fields["link"] = *req.Link
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	item, err := h.themeService.UpdateNavItem(id, fields)
	if err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteFooterItem removes a footer nav entry.
func (h *ThemeHandler) DeleteFooterItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.themeService.DeleteNavItem(id); err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Footer nav item deleted"})
}

// ReorderFooter applies a new sort order mapping.
func (h *ThemeHandler) ReorderFooter(c *gin.Context) {
	order, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := h.themeService.ReorderNavItems(order); err != nil {
		respondThemeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Footer nav items reordered"})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func respondThemeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNavItemNotFound):
		apierrors.NotFound(c, "Footer nav item not found")
	case errors.Is(err, services.ErrNavItemFieldsRequired),
		errors.Is(err, services.ErrNothingToUpdate):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "theme error", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
