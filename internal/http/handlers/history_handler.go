// README: Search history handlers.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"campusnav/internal/modules/catalog"
	"campusnav/internal/modules/history"
	"campusnav/internal/types"
)

type HistoryHandler struct {
	history *history.Service
	catalog *catalog.Catalog
}

func NewHistoryHandler(svc *history.Service, cat *catalog.Catalog) *HistoryHandler {
	return &HistoryHandler{history: svc, catalog: cat}
}

type addSearchReq struct {
	Query string `json:"query"`
}

func (r addSearchReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required, validation.By(notBlank), validation.Length(1, 200)),
	)
}

type attachLocationReq struct {
	LocationID string `json:"location_id"`
}

func (r attachLocationReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LocationID, validation.Required),
	)
}

// List handles GET /api/history.
func (h *HistoryHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"history": h.history.History(c.Request.Context())})
}

// Add handles POST /api/history.
func (h *HistoryHandler) Add(c *gin.Context) {
	var req addSearchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	items := h.history.AddSearch(c.Request.Context(), req.Query)
	if len(items) == 0 {
		writeStoreFailure(c)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"item": items[0], "history": items})
}

// AttachLocation handles PUT /api/history/:id/location.
func (h *HistoryHandler) AttachLocation(c *gin.Context) {
	var req attachLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	loc, err := h.catalog.Get(types.ID(req.LocationID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := h.history.AttachLocation(c.Request.Context(), types.ID(c.Param("id")), loc); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(c, http.StatusNotFound, history.ErrNotFound.Error())
			return
		}
		writeStoreFailure(c)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/history/:id.
func (h *HistoryHandler) Delete(c *gin.Context) {
	if !h.history.DeleteItem(c.Request.Context(), types.ID(c.Param("id"))) {
		writeStoreFailure(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /api/history.
func (h *HistoryHandler) Clear(c *gin.Context) {
	if !h.history.Clear(c.Request.Context()) {
		writeStoreFailure(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// Frequent handles GET /api/history/frequent?limit=.
func (h *HistoryHandler) Frequent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	writeJSON(c, http.StatusOK, gin.H{"locations": h.history.FrequentLocations(c.Request.Context(), limit)})
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}
