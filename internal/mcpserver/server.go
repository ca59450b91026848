// Package mcpserver exposes campus lookup and routing as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"campusnav/internal/maps"
	"campusnav/internal/modules/catalog"
	"campusnav/internal/modules/position"
	"campusnav/internal/service"
	"campusnav/internal/types"
)

// Server wraps the MCP server with campus navigation tools.
type Server struct {
	mcp          *server.MCPServer
	nav          *service.Navigator
	nearbyRadius float64
}

// New creates a new MCP server with all tools registered.
func New(nav *service.Navigator, nearbyRadiusKm float64) *Server {
	if nearbyRadiusKm <= 0 {
		nearbyRadiusKm = catalog.DefaultNearbyRadiusKm
	}
	s := &Server{nav: nav, nearbyRadius: nearbyRadiusKm}

	s.mcp = server.NewMCPServer(
		"Campus Navigator",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("search_locations",
		mcp.WithDescription("Search campus locations by name, description or category."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text, e.g. 'library' or 'residence'")),
	), s.searchLocations)

	s.mcp.AddTool(mcp.NewTool("nearby_locations",
		mcp.WithDescription("List campus locations within a radius of a point."),
		mcp.WithNumber("latitude", mcp.Required(), mcp.Description("Latitude in degrees")),
		mcp.WithNumber("longitude", mcp.Required(), mcp.Description("Longitude in degrees")),
		mcp.WithNumber("radius_km", mcp.Description("Search radius in kilometres (default 0.5)")),
	), s.nearbyLocations)

	s.mcp.AddTool(mcp.NewTool("get_location",
		mcp.WithDescription("Get a campus location by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Location id, e.g. balme-library")),
	), s.getLocation)

	s.mcp.AddTool(mcp.NewTool("get_directions",
		mcp.WithDescription("Route to a campus location. Without a starting point the route starts at the campus center."),
		mcp.WithString("destination_id", mcp.Required(), mcp.Description("Destination location id")),
		mcp.WithString("mode", mcp.Description("walking, driving, bicycling or transit (default walking)")),
		mcp.WithNumber("latitude", mcp.Description("Starting latitude")),
		mcp.WithNumber("longitude", mcp.Description("Starting longitude")),
	), s.getDirections)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchLocations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.nav.Catalog().Search(query))
}

func (s *Server) nearbyLocations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := req.RequireFloat("latitude")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lng, err := req.RequireFloat("longitude")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !(types.Point{Lat: lat, Lng: lng}).Valid() {
		return mcp.NewToolResultError("coordinates out of range"), nil
	}
	radius := req.GetFloat("radius_km", s.nearbyRadius)
	if radius < 0 {
		return mcp.NewToolResultError("radius_km must not be negative"), nil
	}
	locs := slices.Collect(s.nav.Catalog().Nearby(lat, lng, radius))
	if locs == nil {
		locs = []catalog.Location{}
	}
	return jsonResult(locs)
}

func (s *Server) getLocation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc, err := s.nav.Catalog().Get(types.ID(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return jsonResult(loc)
}

func (s *Server) getDirections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dest, err := req.RequireString("destination_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var src position.Source
	args := req.GetArguments()
	_, hasLat := args["latitude"]
	_, hasLng := args["longitude"]
	if hasLat && hasLng {
		src = position.Static{Lat: req.GetFloat("latitude", 0), Lng: req.GetFloat("longitude", 0)}
	}
	trip, err := s.nav.Plan(ctx, types.ID(dest), maps.Mode(req.GetString("mode", "")), src)
	switch {
	case err == nil:
		return jsonResult(trip)
	case errors.Is(err, service.ErrUnknownLocation), errors.Is(err, maps.ErrInvalidMode), errors.Is(err, maps.ErrNoRoute):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, maps.ErrNotConfigured):
		return mcp.NewToolResultError("directions are not configured on this server"), nil
	default:
		return mcp.NewToolResultError("directions are temporarily unavailable"), nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
