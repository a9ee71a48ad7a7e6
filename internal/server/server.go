package server

import (
	"errors"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/config"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/handlers"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/middleware"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ServiceName labels logs and metrics
const ServiceName = "caredonate"

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client // nil when Redis is disabled
	Services *services.Services
	Guard    *auth.Guard
	Tokens   auth.TokenService

	// Prometheus registers collectors globally, so it is created once per
	// process by the caller. Nil skips /metrics.
	Prometheus *fiberprometheus.FiberPrometheus
}

// New builds the fiber application with every route mounted
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          errorHandler,
		DisableStartupMessage: !d.Config.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New())

	if d.Prometheus != nil {
		d.Prometheus.RegisterAt(app, "/metrics")
		app.Use(d.Prometheus.Middleware)
	}

	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	mountRoutes(api, d)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	return app
}

func mountRoutes(api fiber.Router, d Deps) {
	svc := d.Services

	health := &handlers.HealthHandler{Config: d.Config, DB: d.DB, Redis: d.Redis}
	api.Get("/health", health.Check)

	authH := &handlers.AuthHandler{Users: svc.Users, Tokens: d.Tokens}
	authH.Guard = d.Guard
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authH.Register)
	authRoutes.Post("/login", authH.Login)
	authRoutes.Get("/me", authH.Me)
	authRoutes.Post("/logout", authH.Logout)

	homesH := &handlers.HomeHandler{Homes: svc.Homes, Reviews: svc.Reviews}
	homesH.Guard = d.Guard
	homes := api.Group("/homes")
	homes.Get("/", homesH.List)
	homes.Get("/search", homesH.Search)
	homes.Get("/locations", homesH.Locations)
	homes.Get("/:id", homesH.Get)
	homes.Get("/:id/reviews", homesH.HomeReviews)

	donationsH := &handlers.DonationHandler{Donations: svc.Donations}
	donationsH.Guard = d.Guard
	donations := api.Group("/donations")
	donations.Post("/", donationsH.Create)
	donations.Post("/multiple", donationsH.CreateMultiple)
	donations.Get("/my-donations", donationsH.Mine)
	donations.Get("/stats", donationsH.Stats)
	donations.Get("/:id", donationsH.Get)
	donations.Put("/:id/status", donationsH.UpdateStatus)

	reviewsH := &handlers.ReviewHandler{Reviews: svc.Reviews}
	reviewsH.Guard = d.Guard
	reviews := api.Group("/reviews")
	reviews.Post("/", reviewsH.Create)
	reviews.Get("/my-reviews", reviewsH.Mine)
	reviews.Get("/home/:home_id", homesH.HomeReviews)
	reviews.Get("/:id", reviewsH.Get)
	reviews.Put("/:id", reviewsH.Update)
	reviews.Delete("/:id", reviewsH.Delete)

	visitsH := &handlers.VisitHandler{Visits: svc.Visits}
	visitsH.Guard = d.Guard
	visits := api.Group("/visits")
	visits.Post("/", visitsH.Create)
	visits.Get("/my-visits", visitsH.Mine)
	visits.Get("/available-dates/:home_id", visitsH.AvailableDates)
	visits.Get("/:id", visitsH.Get)
	visits.Put("/:id", visitsH.Update)
	visits.Put("/:id/cancel", visitsH.Cancel)

	adminH := &handlers.AdminHandler{Services: svc}
	adminH.Guard = d.Guard
	admin := api.Group("/admin")
	admin.Get("/users", adminH.ListUsers)
	admin.Post("/users", adminH.CreateUser)
	admin.Put("/users/:id", adminH.UpdateUser)
	admin.Get("/homes", adminH.ListHomes)
	admin.Post("/homes", adminH.CreateHome)
	admin.Put("/homes/:id", adminH.UpdateHome)
	admin.Delete("/homes/:id", adminH.DeleteHome)
	admin.Get("/analytics/overview", adminH.Overview)
	admin.Get("/analytics/homes", adminH.HomeAnalytics)
	admin.Get("/visits", adminH.ListVisits)
	admin.Put("/visits/:id/status", adminH.UpdateVisitStatus)
	admin.Get("/donations", adminH.ListDonations)
	admin.Put("/donations/:id/status", adminH.UpdateDonationStatus)
	admin.Get("/activity", adminH.Activity)
}

// errorHandler catches what handlers did not answer themselves: routing
// errors, body limits and recovered panics
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	}
	return utils.ErrorFrom(c, err)
}
