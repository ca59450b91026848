// README: Favorites handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusnav/internal/modules/catalog"
	"campusnav/internal/modules/favorites"
	"campusnav/internal/types"
)

type FavoritesHandler struct {
	favorites *favorites.Service
	catalog   *catalog.Catalog
}

func NewFavoritesHandler(svc *favorites.Service, cat *catalog.Catalog) *FavoritesHandler {
	return &FavoritesHandler{favorites: svc, catalog: cat}
}

// List handles GET /api/favorites. Ids no longer in the catalog are listed
// but not expanded.
func (h *FavoritesHandler) List(c *gin.Context) {
	ids := h.favorites.List(c.Request.Context())
	locs := make([]catalog.Location, 0, len(ids))
	for _, id := range ids {
		if loc, err := h.catalog.Get(id); err == nil {
			locs = append(locs, loc)
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"ids": ids, "locations": locs})
}

// Status handles GET /api/favorites/:id.
func (h *FavoritesHandler) Status(c *gin.Context) {
	id := types.ID(c.Param("id"))
	writeJSON(c, http.StatusOK, gin.H{"id": id, "favorite": h.favorites.IsFavorite(c.Request.Context(), id)})
}

// Add handles PUT /api/favorites/:id.
func (h *FavoritesHandler) Add(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if _, err := h.catalog.Get(id); err != nil {
		writeServiceError(c, err)
		return
	}
	if !h.favorites.Add(c.Request.Context(), id) {
		writeStoreFailure(c)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"id": id, "favorite": true})
}

// Remove handles DELETE /api/favorites/:id.
func (h *FavoritesHandler) Remove(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if !h.favorites.Remove(c.Request.Context(), id) {
		writeStoreFailure(c)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"id": id, "favorite": false})
}
