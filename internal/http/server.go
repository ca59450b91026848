// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusnav/internal/http/handlers"
	"campusnav/internal/http/middleware"
	"campusnav/internal/modules/favorites"
	"campusnav/internal/modules/history"
	"campusnav/internal/modules/notification"
	"campusnav/internal/modules/position"
	"campusnav/internal/service"
)

type ServerDeps struct {
	Navigator      *service.Navigator
	Directions     service.DirectionsClient
	Sessions       *service.SessionRegistry
	History        *history.Service
	Favorites      *favorites.Service
	Notifications  *notification.Service
	Sources        position.Sources
	NearbyRadiusKm float64
	Logger         *slog.Logger
}

type Server struct {
	locations     *handlers.LocationHandler
	history       *handlers.HistoryHandler
	favorites     *handlers.FavoritesHandler
	navigation    *handlers.NavigationHandler
	notifications *handlers.NotificationHandler
	logger        *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cat := deps.Navigator.Catalog()
	return &Server{
		locations:     handlers.NewLocationHandler(deps.Navigator, deps.NearbyRadiusKm),
		history:       handlers.NewHistoryHandler(deps.History, cat),
		favorites:     handlers.NewFavoritesHandler(deps.Favorites, cat),
		navigation:    handlers.NewNavigationHandler(deps.Navigator, deps.Directions, deps.Sessions, deps.Sources),
		notifications: handlers.NewNotificationHandler(deps.Notifications),
		logger:        logger,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(s.logger), middleware.Recovery(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/locations", s.locations.List)
	api.GET("/locations/search", s.locations.Search)
	api.GET("/locations/nearby", s.locations.Nearby)
	api.GET("/locations/:id", s.locations.Get)

	api.GET("/history", s.history.List)
	api.POST("/history", s.history.Add)
	api.DELETE("/history", s.history.Clear)
	api.GET("/history/frequent", s.history.Frequent)
	api.PUT("/history/:id/location", s.history.AttachLocation)
	api.DELETE("/history/:id", s.history.Delete)

	api.GET("/favorites", s.favorites.List)
	api.GET("/favorites/:id", s.favorites.Status)
	api.PUT("/favorites/:id", s.favorites.Add)
	api.DELETE("/favorites/:id", s.favorites.Remove)

	api.GET("/directions", s.navigation.Directions)
	api.POST("/navigation/plan", s.navigation.Plan)
	api.POST("/navigation/sessions", s.navigation.CreateSession)
	api.GET("/navigation/sessions/:id", s.navigation.GetSession)
	api.DELETE("/navigation/sessions/:id", s.navigation.DeleteSession)
	api.POST("/navigation/sessions/:id/refresh", s.navigation.RefreshSession)
	api.PUT("/navigation/sessions/:id/mode", s.navigation.SetMode)
	api.POST("/navigation/sessions/:id/mode/toggle", s.navigation.ToggleMode)
	api.PUT("/navigation/sessions/:id/destination", s.navigation.SetDestination)

	api.GET("/notifications", s.notifications.List)
	api.POST("/notifications", s.notifications.Publish)
	api.GET("/notifications/unread_count", s.notifications.UnreadCount)
	api.PUT("/notifications/read", s.notifications.MarkAllRead)
	api.PUT("/notifications/:id/read", s.notifications.MarkRead)
	api.DELETE("/notifications/:id", s.notifications.Delete)

	return r
}
