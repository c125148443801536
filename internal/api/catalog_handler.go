package api

import (
	"fitnote/planner/internal/catalog"
	"fitnote/planner/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only built-in workout catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// CatalogEntryResponse is the DTO for a catalog template.
type CatalogEntryResponse struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	ImageName   string `json:"imageName"`
	Description string `json:"description"`
}

func MapCatalogEntryToResponse(e domain.CatalogEntry) CatalogEntryResponse {
	return CatalogEntryResponse{
		Name:        e.Name,
		Category:    e.Category.String(),
		ImageName:   e.ImageName,
		Description: e.Description,
	}
}

// SearchCatalog godoc
// @Summary List or search the workout catalog
// @Description Case-insensitive substring match on name or category. An empty query lists everything in catalog order.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {array} CatalogEntryResponse
// @Router /catalog [get]
func (h *CatalogHandler) SearchCatalog(c *gin.Context) {
	responses := []CatalogEntryResponse{}
	for e := range h.catalog.Search(c.Query("q")) {
		responses = append(responses, MapCatalogEntryToResponse(e))
	}
	c.JSON(http.StatusOK, responses)
}

// GetCategories godoc
// @Summary List workout categories
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /catalog/categories [get]
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories := h.catalog.Categories()
	labels := make([]string, len(categories))
	for i, cat := range categories {
		labels[i] = cat.String()
	}
	c.JSON(http.StatusOK, labels)
}
