package maps

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	gmaps "googlemaps.github.io/maps"

	"campusnav/internal/geo"
	"campusnav/internal/types"
)

// RouteService fetches directions from the Google Directions API.
type RouteService struct {
	client *gmaps.Client
	logger *slog.Logger
}

type Options struct {
	APIKey string
	// BaseURL overrides the API host, mainly for tests.
	BaseURL string
	// Timeout bounds each request; zero leaves the HTTP client default.
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRouteService creates a RouteService. A missing API key is not an error
// here: the service is created unconfigured and every lookup reports
// ErrNotConfigured.
func NewRouteService(opts Options) (*RouteService, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &RouteService{logger: logger.With("component", "directions")}
	if opts.APIKey == "" {
		s.logger.Warn("GOOGLE_MAPS_API_KEY not set; directions disabled")
		return s, nil
	}

	clientOpts := []gmaps.ClientOption{
		gmaps.WithAPIKey(opts.APIKey),
		gmaps.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, gmaps.WithBaseURL(opts.BaseURL))
	}
	client, err := gmaps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	s.client = client
	return s, nil
}

// Configured reports whether an API key was supplied.
func (s *RouteService) Configured() bool {
	return s.client != nil
}

// GetDirections returns the first route between from and to. Failures yield a
// nil route and one of ErrInvalidMode, ErrNoRoute, ErrNotConfigured or
// ErrUpstream.
func (s *RouteService) GetDirections(ctx context.Context, from, to types.Point, mode Mode) (*Route, error) {
	travelMode, err := toTravelMode(mode)
	if err != nil {
		return nil, err
	}
	if s.client == nil {
		s.logger.Error("directions requested without API key")
		return nil, ErrNotConfigured
	}

	req := &gmaps.DirectionsRequest{
		Origin:       from.String(),
		Destination:  to.String(),
		Mode:         travelMode,
		Alternatives: true,
	}
	if mode == ModeDriving {
		req.DepartureTime = "now"
		req.TrafficModel = gmaps.TrafficModelBestGuess
	}

	routes, _, err := s.client.Directions(ctx, req)
	if err != nil {
		return nil, s.classify(err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		s.logger.Warn("no route", "from", from.String(), "to", to.String(), "mode", mode)
		return nil, ErrNoRoute
	}

	route, err := buildRoute(routes[0], mode)
	if err != nil {
		s.logger.Error("decode directions response", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	route.MapsURL = MapsURL(from, to, mode)
	return route, nil
}

// classify maps a client error to a sentinel. The client reports non-OK
// statuses as "maps: STATUS - message".
func (s *RouteService) classify(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ZERO_RESULTS"), strings.Contains(msg, "NOT_FOUND"):
		s.logger.Warn("no route", "err", err)
		return ErrNoRoute
	case strings.Contains(msg, "REQUEST_DENIED"):
		s.logger.Error("directions request denied; check GOOGLE_MAPS_API_KEY", "err", err)
		return fmt.Errorf("%w: %v", ErrNotConfigured, err)
	default:
		s.logger.Error("directions request failed", "err", err)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

func toTravelMode(m Mode) (gmaps.Mode, error) {
	switch m {
	case ModeWalking:
		return gmaps.TravelModeWalking, nil
	case ModeDriving:
		return gmaps.TravelModeDriving, nil
	case ModeBicycling:
		return gmaps.TravelModeBicycling, nil
	case ModeTransit:
		return gmaps.TravelModeTransit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
}

func buildRoute(r gmaps.Route, mode Mode) (*Route, error) {
	points, err := geo.DecodePolyline(r.OverviewPolyline.Points)
	if err != nil {
		return nil, err
	}
	leg := r.Legs[0]

	out := &Route{
		Mode:           mode,
		Points:         points,
		Steps:          make([]Step, 0, len(leg.Steps)),
		DistanceText:   leg.Distance.HumanReadable,
		DistanceMeters: leg.Distance.Meters,
		Duration:       leg.Duration,
	}
	if leg.DurationInTraffic > 0 {
		out.Duration = leg.DurationInTraffic
		out.HasTraffic = true
	}
	out.DurationText = FormatDuration(out.Duration)
	out.DurationSecs = int64(out.Duration / time.Second)

	for _, st := range leg.Steps {
		if st == nil {
			continue
		}
		out.Steps = append(out.Steps, Step{
			Instruction:    plainText(st.HTMLInstructions),
			DistanceText:   st.Distance.HumanReadable,
			DistanceMeters: st.Distance.Meters,
			Duration:       st.Duration,
			DurationText:   FormatDuration(st.Duration),
			Start:          types.Point{Lat: st.StartLocation.Lat, Lng: st.StartLocation.Lng},
			End:            types.Point{Lat: st.EndLocation.Lat, Lng: st.EndLocation.Lng},
		})
	}
	return out, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// plainText strips the markup the API embeds in step instructions.
func plainText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
