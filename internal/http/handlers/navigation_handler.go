// README: Directions, one-shot trip planning and navigation session handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"campusnav/internal/maps"
	"campusnav/internal/modules/position"
	"campusnav/internal/service"
	"campusnav/internal/types"
)

type NavigationHandler struct {
	nav        *service.Navigator
	directions service.DirectionsClient
	sessions   *service.SessionRegistry
	sources    position.Sources
}

func NewNavigationHandler(nav *service.Navigator, directions service.DirectionsClient, sessions *service.SessionRegistry, sources position.Sources) *NavigationHandler {
	return &NavigationHandler{nav: nav, directions: directions, sessions: sessions, sources: sources}
}

// tripReq is the body of POST /api/navigation/plan and
// POST /api/navigation/sessions.
type tripReq struct {
	DestinationID string   `json:"destination_id"`
	Mode          string   `json:"mode"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	DeviceID      string   `json:"device_id"`
}

func (r tripReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DestinationID, validation.Required),
		validation.Field(&r.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.Lng, validation.Min(-180.0), validation.Max(180.0)),
	)
}

type modeReq struct {
	Mode string `json:"mode"`
}

type destinationReq struct {
	DestinationID string `json:"destination_id"`
}

// Directions handles GET /api/directions?from_lat&from_lng&to_lat&to_lng&mode.
func (h *NavigationHandler) Directions(c *gin.Context) {
	var vals [4]*float64
	for i, name := range []string{"from_lat", "from_lng", "to_lat", "to_lng"} {
		v, ok := queryFloat(c, name)
		if !ok || v == nil {
			writeError(c, http.StatusBadRequest, name+" is required and must be a number")
			return
		}
		vals[i] = v
	}
	from := types.Point{Lat: *vals[0], Lng: *vals[1]}
	to := types.Point{Lat: *vals[2], Lng: *vals[3]}
	if !from.Valid() || !to.Valid() {
		writeError(c, http.StatusBadRequest, "coordinates out of range")
		return
	}
	mode, err := maps.ParseMode(c.Query("mode"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	route, err := h.directions.GetDirections(c.Request.Context(), from, to, mode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, route)
}

// Plan handles POST /api/navigation/plan.
func (h *NavigationHandler) Plan(c *gin.Context) {
	req, ok := bindTrip(c)
	if !ok {
		return
	}
	src := h.sources.From(req.Lat, req.Lng, req.DeviceID)
	trip, err := h.nav.Plan(c.Request.Context(), types.ID(req.DestinationID), maps.Mode(req.Mode), src)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, trip)
}

// CreateSession handles POST /api/navigation/sessions. A session whose first
// route failed is still created; its snapshot carries the error.
func (h *NavigationHandler) CreateSession(c *gin.Context) {
	req, ok := bindTrip(c)
	if !ok {
		return
	}
	src := h.sources.From(req.Lat, req.Lng, req.DeviceID)
	s, err := h.sessions.Create(c.Request.Context(), types.ID(req.DestinationID), maps.Mode(req.Mode), src)
	if s == nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, s.Snapshot())
}

// GetSession handles GET /api/navigation/sessions/:id.
func (h *NavigationHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, s.Snapshot())
}

// RefreshSession handles POST /api/navigation/sessions/:id/refresh.
func (h *NavigationHandler) RefreshSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, s, s.Refresh(c.Request.Context()))
}

// SetMode handles PUT /api/navigation/sessions/:id/mode.
func (h *NavigationHandler) SetMode(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req modeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	h.respond(c, s, s.SetMode(c.Request.Context(), maps.Mode(req.Mode)))
}

// ToggleMode handles POST /api/navigation/sessions/:id/mode/toggle.
func (h *NavigationHandler) ToggleMode(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	_, err := s.ToggleMode(c.Request.Context())
	h.respond(c, s, err)
}

// SetDestination handles PUT /api/navigation/sessions/:id/destination.
func (h *NavigationHandler) SetDestination(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req destinationReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DestinationID == "" {
		writeError(c, http.StatusBadRequest, "destination_id is required")
		return
	}
	h.respond(c, s, s.SetDestination(c.Request.Context(), types.ID(req.DestinationID)))
}

// DeleteSession handles DELETE /api/navigation/sessions/:id.
func (h *NavigationHandler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(types.ID(c.Param("id"))) {
		writeServiceError(c, service.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NavigationHandler) session(c *gin.Context) (*service.Session, bool) {
	s, err := h.sessions.Get(types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return s, true
}

// respond reports validation errors as failures. Directions failures leave
// the previous route in place, so the snapshot is returned with the error
// embedded and a status reflecting the failure.
func (h *NavigationHandler) respond(c *gin.Context, s *service.Session, err error) {
	switch {
	case err == nil:
		writeJSON(c, http.StatusOK, s.Snapshot())
	case errors.Is(err, maps.ErrInvalidMode), errors.Is(err, service.ErrUnknownLocation), errors.Is(err, service.ErrSuperseded):
		writeServiceError(c, err)
	default:
		writeJSON(c, statusFor(err), s.Snapshot())
	}
}

func bindTrip(c *gin.Context) (tripReq, bool) {
	var req tripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
