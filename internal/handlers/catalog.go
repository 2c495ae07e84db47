package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/utils"
)

type CatalogHandler struct {
	schemeService *services.SchemeService
}

func NewCatalogHandler(schemeService *services.SchemeService) *CatalogHandler {
	return &CatalogHandler{
		schemeService: schemeService,
	}
}

// GET /requirements
func (h *CatalogHandler) ListRequirements(c *gin.Context) {
	entries := compliance.AllEntries()
	if category := c.Query("category"); category != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	utils.SuccessResponse(c, gin.H{
		"requirements": entries,
		"total":        len(entries),
	})
}

// GET /schemes
func (h *CatalogHandler) ListSchemes(c *gin.Context) {
	filter := services.SchemeFilter{
		Size:     c.Query("size"),
		Industry: c.Query("industry"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("is_new"); raw != "" {
		if isNew, err := strconv.ParseBool(raw); err == nil {
			filter.IsNew = &isNew
		}
	}

	schemes := h.schemeService.List(filter)
	utils.SuccessResponse(c, gin.H{
		"schemes": schemes,
		"total":   len(schemes),
	})
}
