// README: Location handlers: catalog listing, search and proximity.
package handlers

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campusnav/internal/modules/catalog"
	"campusnav/internal/service"
	"campusnav/internal/types"
)

type LocationHandler struct {
	nav          *service.Navigator
	nearbyRadius float64
}

func NewLocationHandler(nav *service.Navigator, nearbyRadiusKm float64) *LocationHandler {
	if nearbyRadiusKm <= 0 {
		nearbyRadiusKm = catalog.DefaultNearbyRadiusKm
	}
	return &LocationHandler{nav: nav, nearbyRadius: nearbyRadiusKm}
}

// List handles GET /api/locations with an optional category filter.
func (h *LocationHandler) List(c *gin.Context) {
	cat := h.nav.Catalog()
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category := catalog.Category(strings.ToLower(raw))
		if !category.Valid() {
			writeError(c, http.StatusBadRequest, "unknown category")
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"locations": nonNil(cat.ByCategory(category))})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"locations": cat.All()})
}

// Get handles GET /api/locations/:id.
func (h *LocationHandler) Get(c *gin.Context) {
	loc, err := h.nav.Catalog().Get(types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, loc)
}

// Search handles GET /api/locations/search?q=&assist=. It records nothing;
// clients add to history explicitly.
func (h *LocationHandler) Search(c *gin.Context) {
	q := c.Query("q")
	var results []catalog.Location
	if assist, _ := strconv.ParseBool(c.Query("assist")); assist {
		results = h.nav.AssistedSearch(c.Request.Context(), q)
	} else {
		results = h.nav.Catalog().Search(q)
	}
	writeJSON(c, http.StatusOK, gin.H{"query": q, "locations": results})
}

// Nearby handles GET /api/locations/nearby?lat=&lng=&radius_km=.
func (h *LocationHandler) Nearby(c *gin.Context) {
	lat, okLat := queryFloat(c, "lat")
	lng, okLng := queryFloat(c, "lng")
	if !okLat || !okLng || lat == nil || lng == nil {
		writeError(c, http.StatusBadRequest, "lat and lng are required numbers")
		return
	}
	if !(types.Point{Lat: *lat, Lng: *lng}).Valid() {
		writeError(c, http.StatusBadRequest, "coordinates out of range")
		return
	}
	radius := h.nearbyRadius
	r, ok := queryFloat(c, "radius_km")
	if !ok || (r != nil && *r < 0) {
		writeError(c, http.StatusBadRequest, "radius_km must be a non-negative number")
		return
	}
	if r != nil {
		radius = *r
	}
	locs := slices.Collect(h.nav.Catalog().Nearby(*lat, *lng, radius))
	writeJSON(c, http.StatusOK, gin.H{"radius_km": radius, "locations": nonNil(locs)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
