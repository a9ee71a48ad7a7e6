package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
)

// VisitHandler handles a visitor's own visits and the public calendar
type VisitHandler struct {
	base
	Visits *services.VisitService
}

// Create handles POST /api/visits
// @Summary Schedule a visit
// @Tags Visits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.VisitInput true "Visit"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /visits [post]
func (h *VisitHandler) Create(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.VisitInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	visit, err := h.Visits.Create(c.UserContext(), p.User, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusCreated, "Visit scheduled successfully", fiber.Map{
		"visit": newVisitView(visit),
	})
}

// Mine handles GET /api/visits/my-visits
// @Summary My visits
// @Tags Visits
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param status query string false "pending, confirmed, completed or cancelled"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /visits/my-visits [get]
func (h *VisitHandler) Mine(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	f, err := visitFilter(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	res, err := h.Visits.ListMine(c.UserContext(), p.ID(), f, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"visits":     newVisitViews(res.Items),
		"pagination": pagination(res),
	})
}

// AvailableDates handles GET /api/visits/available-dates/:home_id
// @Summary Bookable dates of a home
// @Description Days in the next 30 with free slots, excluding the rest day
// @Tags Visits
// @Produce json
// @Param home_id path int true "Home ID"
// @Success 200 {object} services.Availability
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /visits/available-dates/{home_id} [get]
func (h *VisitHandler) AvailableDates(c *fiber.Ctx) error {
	homeID, err := parseID(c, "home_id")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	availability, err := h.Visits.AvailableDates(c.UserContext(), homeID, h.Visits.Today())
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(availability)
}

// Get handles GET /api/visits/:id
// @Summary Get one of my visits
// @Tags Visits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visit ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /visits/{id} [get]
func (h *VisitHandler) Get(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	visit, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"visit": newVisitView(visit)})
}

// Update handles PUT /api/visits/:id
// @Summary Change one of my pending visits
// @Tags Visits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visit ID"
// @Param body body services.VisitUpdateInput true "Changes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /visits/{id} [put]
func (h *VisitHandler) Update(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	visit, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.VisitUpdateInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	visit, err = h.Visits.Update(c.UserContext(), visit, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Visit updated successfully", fiber.Map{
		"visit": newVisitView(visit),
	})
}

// Cancel handles PUT /api/visits/:id/cancel
// @Summary Cancel one of my visits
// @Tags Visits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visit ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /visits/{id}/cancel [put]
func (h *VisitHandler) Cancel(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	visit, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	visit, err = h.Visits.Cancel(c.UserContext(), visit)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Visit cancelled successfully", fiber.Map{
		"visit": newVisitView(visit),
	})
}

func (h *VisitHandler) owned(c *fiber.Ctx, p *auth.Principal) (*models.Visit, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}
	visit, err := h.Visits.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := h.Guard.RequireOwnership(p, visit.UserID, false); err != nil {
		return nil, err
	}
	return visit, nil
}

func visitFilter(c *fiber.Ctx) (store.VisitFilter, error) {
	var f store.VisitFilter
	var err error
	f.Status = models.VisitStatus(c.Query("status"))
	if f.HomeID, err = queryUint(c, "home_id"); err != nil {
		return f, err
	}
	if f.From, err = queryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return f, err
	}
	return f, nil
}
