// README: Navigator composes the catalog, device position and directions client into trips.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campusnav/internal/ai"
	"campusnav/internal/maps"
	"campusnav/internal/modules/catalog"
	"campusnav/internal/modules/position"
	"campusnav/internal/types"
)

var ErrUnknownLocation = errors.New("unknown destination")

// DirectionsClient is the subset of maps.RouteService the navigator needs.
type DirectionsClient interface {
	GetDirections(ctx context.Context, from, to types.Point, mode maps.Mode) (*maps.Route, error)
}

// Navigator is safe for concurrent use.
type Navigator struct {
	catalog     *catalog.Catalog
	directions  DirectionsClient
	interpreter ai.QueryInterpreter
	logger      *slog.Logger
}

// NewNavigator creates a Navigator. interpreter may be nil, which disables
// assisted search.
func NewNavigator(cat *catalog.Catalog, directions DirectionsClient, interpreter ai.QueryInterpreter, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{
		catalog:     cat,
		directions:  directions,
		interpreter: interpreter,
		logger:      logger.With("component", "navigator"),
	}
}

func (n *Navigator) Catalog() *catalog.Catalog {
	return n.catalog
}

// CurrentPosition samples src, substituting the campus center on failure.
func (n *Navigator) CurrentPosition(ctx context.Context, src position.Source) position.Fix {
	return position.Resolve(ctx, src, n.logger)
}

// Trip is the result of a one-shot Plan.
type Trip struct {
	Destination catalog.Location `json:"destination"`
	Origin      position.Fix     `json:"origin"`
	Route       *maps.Route      `json:"route"`
}

// Plan resolves destinationID, samples the current position and fetches a
// route. The returned error is ErrUnknownLocation, maps.ErrInvalidMode or a
// directions error.
func (n *Navigator) Plan(ctx context.Context, destinationID types.ID, mode maps.Mode, src position.Source) (*Trip, error) {
	dest, err := n.destination(destinationID)
	if err != nil {
		return nil, err
	}
	mode, err = maps.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	origin := n.CurrentPosition(ctx, src)
	route, err := n.directions.GetDirections(ctx, origin.Point, dest.Coordinates, mode)
	if err != nil {
		return nil, fmt.Errorf("directions to %s: %w", dest.ID, err)
	}
	return &Trip{Destination: dest, Origin: origin, Route: route}, nil
}

// AssistedSearch runs the plain catalog search and, only when that finds
// nothing, asks the interpreter for alternative terms. Results are in catalog
// order without duplicates. Interpreter failures degrade to the empty result.
func (n *Navigator) AssistedSearch(ctx context.Context, query string) []catalog.Location {
	plain := n.catalog.Search(query)
	if len(plain) > 0 || n.interpreter == nil {
		return plain
	}

	cats := make([]string, len(catalog.Categories))
	for i, c := range catalog.Categories {
		cats[i] = string(c)
	}
	interp, err := n.interpreter.InterpretQuery(ctx, query, cats)
	if err != nil {
		n.logger.Warn("query interpretation failed", "query", query, "err", err)
		return plain
	}

	hits := make(map[types.ID]bool)
	for _, k := range interp.Keywords {
		for _, loc := range n.catalog.Search(k) {
			hits[loc.ID] = true
		}
	}
	if interp.Category != "" {
		for _, loc := range n.catalog.ByCategory(catalog.Category(interp.Category)) {
			hits[loc.ID] = true
		}
	}

	out := []catalog.Location{}
	for _, loc := range n.catalog.All() {
		if hits[loc.ID] {
			out = append(out, loc)
		}
	}
	n.logger.Info("assisted search", "query", query, "keywords", interp.Keywords, "category", interp.Category, "results", len(out))
	return out
}

func (n *Navigator) destination(id types.ID) (catalog.Location, error) {
	loc, err := n.catalog.Get(id)
	if err != nil {
		return catalog.Location{}, fmt.Errorf("%w: %s", ErrUnknownLocation, id)
	}
	return loc, nil
}
