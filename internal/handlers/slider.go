package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bikrans/platform-api/internal/config"
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/upload"
)

// SliderHandler serves the home-page slider carousel.
type SliderHandler struct {
	sliderService *services.SliderService
	saver         *upload.Saver
	policy        config.UploadPolicy
}

// NewSliderHandler creates a new SliderHandler.
func NewSliderHandler(sliderService *services.SliderService, saver *upload.Saver, policy config.UploadPolicy) *SliderHandler {
	return &SliderHandler{sliderService: sliderService, saver: saver, policy: policy}
}

// Public returns the active slides in display order.
func (h *SliderHandler) Public(c *gin.Context) {
	sliders, err := h.sliderService.PublicSliders()
	if err != nil {
		respondSliderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sliders)
}

// List returns every slide for the admin view.
func (h *SliderHandler) List(c *gin.Context) {
	sliders, err := h.sliderService.AdminSliders()
	if err != nil {
		respondSliderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sliders)
}

// Create stores the uploaded image and records the slide. Multipart form:
// file "image" plus the text fields.
func (h *SliderHandler) Create(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "Image is required")
		return
	}

	stored, err := h.saver.Save(header, h.policy)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))
	slider, err := h.sliderService.CreateSlider(services.CreateSliderInput{
		ImagePath: stored.PublicPath,
		Title:     c.PostForm("title"),
		Subtitle:  c.PostForm("subtitle"),
		Link:      c.PostForm("link"),
		SortOrder: sortOrder,
		IsActive:  c.PostForm("is_active") != "0",
	})
	if err != nil {
		if rmErr := h.saver.Remove(stored.PublicPath); rmErr != nil {
			logger.Warn(c.Request.Context(), "failed to remove orphaned upload", zap.Error(rmErr))
		}
		respondSliderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slider)
}

// Update applies the multipart fields present in the request; a new image
// replaces and removes the old file.
func (h *SliderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	fields := map[string]interface{}{}
	if header, err := c.FormFile("image"); err == nil {
		stored, err := h.saver.Save(header, h.policy)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		fields["image"] = stored.PublicPath
	}
	for _, key := range []string{"title", "subtitle", "link"} {
		if value, ok := c.GetPostForm(key); ok {
			fields[key] = value
		}
	}
	if value, ok := c.GetPostForm("sort_order"); ok {
		if n, err := strconv.Atoi(value); err == nil {
			fields["sort_order"] = n
		}
	}
	if value, ok := c.GetPostForm("is_active"); ok {
		fields["is_active"] = value != "0" && value != "false"
	}

	slider, replacedImage, err := h.sliderService.UpdateSlider(id, fields)
	if err != nil {
		respondSliderError(c, err)
		return
	}
	if replacedImage != "" {
		if rmErr := h.saver.Remove(replacedImage); rmErr != nil {
			logger.Warn(c.Request.Context(), "failed to remove replaced image", zap.Error(rmErr))
		}
	}

	c.JSON(http.StatusOK, slider)
}

// Delete removes a slide and its image file.
func (h *SliderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	imagePath, err := h.sliderService.DeleteSlider(id)
	if err != nil {
		respondSliderError(c, err)
		return
	}
	if rmErr := h.saver.Remove(imagePath); rmErr != nil {
		logger.Warn(c.Request.Context(), "failed to remove slider image", zap.Error(rmErr))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slider deleted"})
}

// Reorder applies a new sort order: body {"order": [{"id": 1, "sort_order": 2}, ...]}.
func (h *SliderHandler) Reorder(c *gin.Context) {
	order, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := h.sliderService.ReorderSliders(order); err != nil {
		respondSliderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reordered"})
}

// bindReorder parses the shared {"order":[{id, sort_order}]} reorder body.
func bindReorder(c *gin.Context) (map[uint64]int, bool) {
	type entry struct {
		ID        uint64 `json:"id"`
		SortOrder int    `json:"sort_order"`
	}
	type reorderRequest struct {
		Order []entry `json:"order"`
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Order == nil {
		apierrors.BadRequest(c, "Order must be array of {id, sort_order}")
		return nil, false
	}

	order := make(map[uint64]int, len(req.Order))
	for _, e := range req.Order {
		order[e.ID] = e.SortOrder
	}
	return order, true
}

func respondSliderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSliderNotFound):
		apierrors.NotFound(c, "Slider not found")
	case errors.Is(err, services.ErrSliderImageMissing),
		errors.Is(err, services.ErrNothingToUpdate):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "slider error", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
