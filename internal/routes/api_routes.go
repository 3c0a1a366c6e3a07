package routes

import (
	"github.com/go-chi/chi/v5"
	"travel-log/globetrotter/internal/api"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	svc := deps.Services
	searchLimiter := middleware.NewIPRateLimiter(constants.SearchRatePerSecond, constants.SearchRateBurst)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public routes
		v1.Get("/config", api.FrontendConfigHandler(deps.Config))
		v1.Post("/auth/signup", api.SignupHandler(svc.Auth))
		v1.Post("/auth/signin", api.SigninHandler(svc.Auth))
		v1.Post("/guest/session", api.GuestSessionHandler(svc.Auth))
		v1.Get("/locations/geojson", api.LocationsGeoJSONHandler(svc.Locations))
		v1.With(searchLimiter.Middleware).Get("/locations/search", api.SearchLocationsHandler(svc.Resolver))

		// Token holders: registered users and guests
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(svc.Tokens))

			authed.Post("/locations/save", api.SaveLocationHandler(deps.Backends))

			authed.Route("/trips", func(trips chi.Router) {
				trips.Post("/", api.CreateTripHandler(deps.Backends))
				trips.Get("/", api.ListTripsHandler(deps.Backends))
				trips.Get("/countries", api.VisitedCountriesHandler(deps.Backends))
				trips.Get("/routes", api.TripRoutesHandler(deps.Backends))
				trips.Get("/export.kml", api.ExportKMLHandler(deps.Backends))
				trips.Get("/stats", api.TripStatsHandler(deps.Backends))
				trips.Delete("/{tripID}", api.DeleteTripHandler(deps.Backends))
			})

			// Guest-only group
			authed.With(middleware.RequireGuest).Post("/auth/promote", api.PromoteGuestHandler(svc.Auth))

			// Registered users group
			authed.Group(func(user chi.Router) {
				user.Use(middleware.RequireUser)
				user.Get("/auth/me", api.MeHandler(svc.Auth))
				user.Post("/auth/update-country", api.UpdateCountryHandler(svc.Auth))

				// Admin-only group
				user.Group(func(admin chi.Router) {
					admin.Use(middleware.IsAdminMiddleware(deps.Config))
					admin.Post("/admin/airports/sync", api.SyncAirportsHandler(svc.Airports, deps.Config.AirportsURL))
				})
			})
		})
	})
}
