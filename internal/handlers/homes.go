package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
)

// HomeHandler serves the public home directory
type HomeHandler struct {
	base
	Homes   *services.HomeService
	Reviews *services.ReviewService
}

// List handles GET /api/homes
// @Summary List homes
// @Description Page through active homes with derived metrics
// @Tags Homes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param search query string false "Substring of name or description"
// @Param location query string false "Exact location, case-insensitive"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /homes [get]
func (h *HomeHandler) List(c *fiber.Ctx) error {
	f := store.HomeFilter{
		Search:   c.Query("search"),
		Location: c.Query("location"),
	}
	res, stats, err := h.Homes.List(c.UserContext(), f, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"homes":      newHomeViews(res.Items, stats),
		"pagination": pagination(res),
	})
}

// Search handles GET /api/homes/search
// @Summary Search homes
// @Description Match active homes by text over name, description and needs, and by location
// @Tags Homes
// @Produce json
// @Param q query string false "Search text"
// @Param location query string false "Location substring"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /homes/search [get]
func (h *HomeHandler) Search(c *fiber.Ctx) error {
	homes, stats, err := h.Homes.Search(c.UserContext(), c.Query("q"), c.Query("location"))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"homes": newHomeViews(homes, stats),
		"count": len(homes),
	})
}

// Locations handles GET /api/homes/locations
// @Summary List locations
// @Tags Homes
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /homes/locations [get]
func (h *HomeHandler) Locations(c *fiber.Ctx) error {
	locations, err := h.Homes.Locations(c.UserContext())
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"locations": locations})
}

// Get handles GET /api/homes/:id
// @Summary Get a home
// @Description An active home with metrics and its five latest approved reviews
// @Tags Homes
// @Produce json
// @Param id path int true "Home ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /homes/{id} [get]
func (h *HomeHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	detail, err := h.Homes.Get(c.UserContext(), id)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"home":           newHomeView(detail.Home, detail.Stats),
		"recent_reviews": newReviewViews(detail.RecentReviews),
	})
}

// HomeReviews handles GET /api/homes/:id/reviews and GET /api/reviews/home/:home_id
// @Summary Reviews of a home
// @Description Approved reviews with the rating summary
// @Tags Homes
// @Produce json
// @Param id path int true "Home ID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /homes/{id}/reviews [get]
func (h *HomeHandler) HomeReviews(c *fiber.Ctx) error {
	param := "id"
	if c.Params("home_id") != "" {
		param = "home_id"
	}
	id, err := parseID(c, param)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	res, err := h.Reviews.ForHome(c.UserContext(), id, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"reviews":        newReviewViews(res.Page.Items),
		"pagination":     pagination(res.Page),
		"rating_summary": res.Summary,
	})
}
