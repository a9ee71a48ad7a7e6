package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
)

// AdminHandler serves the admin console. Every route requires the admin role.
type AdminHandler struct {
	base
	Services *services.Services
}

// ListUsers handles GET /api/admin/users
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param search query string false "Username, email or name substring"
// @Param role query string false "user or admin"
// @Param is_active query bool false "Active flag"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return utils.ErrorFrom(c, err)
	}

	active, err := queryBool(c, "is_active")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	f := store.UserFilter{
		Search: c.Query("search"),
		Role:   models.Role(c.Query("role")),
		Active: active,
	}
	res, err := h.Services.Users.List(c.UserContext(), f, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	users := make([]UserView, len(res.Items))
	for i := range res.Items {
		users[i] = newUserView(&res.Items[i])
	}
	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination(res),
	})
}

// CreateUser handles POST /api/admin/users
// @Summary Create a user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "Account details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	p, err := h.requireAdmin(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.CreateUserInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	user, err := h.Services.Users.CreateByAdmin(c.UserContext(), p.User, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusCreated, "User created successfully", fiber.Map{
		"user": newUserView(user),
	})
}

// UpdateUser handles PUT /api/admin/users/:id
// @Summary Update a user
// @Description Change names, email, role or the active flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Changes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	p, err := h.requireAdmin(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.UpdateUserInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	user, err := h.Services.Users.UpdateByAdmin(c.UserContext(), p.User, id, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "User updated successfully", fiber.Map{
		"user": newUserView(user),
	})
}

// ListHomes handles GET /api/admin/homes
// @Summary List all homes
// @Description Includes inactive homes
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param search query string false "Name or location substring"
// @Param is_active query bool false "Active flag"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/homes [get]
func (h *AdminHandler) ListHomes(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return utils.ErrorFrom(c, err)
	}

	active, err := queryBool(c, "is_active")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	f := store.HomeFilter{Search: c.Query("search"), Active: active}
	res, stats, err := h.Services.Homes.ListAdmin(c.UserContext(), f, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"homes":      newHomeViews(res.Items, stats),
		"pagination": pagination(res),
	})
}

// CreateHome handles POST /api/admin/homes
// @Summary Create a home
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.HomeInput true "Home"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /admin/homes [post]
func (h *AdminHandler) CreateHome(c *fiber.Ctx) error {
	p, err := h.requireAdmin(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.HomeInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	home, err := h.Services.Homes.Create(c.UserContext(), p.User, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusCreated, "Home created successfully", fiber.Map{
		"home": newHomeView(home, store.HomeStats{}),
	})
}

// UpdateHome handles PUT /api/admin/homes/:id
// @Summary Update a home
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Home ID"
// @Param body body services.HomeUpdateInput true "Changes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/homes/{id} [put]
func (h *AdminHandler) UpdateHome(c *fiber.Ctx) error {
	p, err := h.requireAdmin(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.HomeUpdateInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	home, err := h.Services.Homes.Update(c.UserContext(), p.User, id, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	stats, err := h.Services.Homes.Stats(c.UserContext(), home.ID)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Home updated successfully", fiber.Map{
		"home": newHomeView(home, stats),
	})
}

// DeleteHome handles DELETE /api/admin/homes/:id
// @Summary Deactivate a home
// @Description Homes are never removed, only marked inactive
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Home ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/homes/{id} [delete]
func (h *AdminHandler) DeleteHome(c *fiber.Ctx) error {
	p, err := h.requireAdmin(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	if err := h.Services.Homes.Deactivate(c.UserContext(), p.User, id); err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Home deactivated successfully", nil)
}

// Overview handles GET /api/admin/analytics/overview
// @Summary Platform totals
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/analytics/overview [get]
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return utils.ErrorFrom(c, err)
	}
	overview, err := h.Services.Analytics.Overview(c.UserContext())
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"overview": overview})
}

// HomeAnalytics handles GET /api/admin/analytics/homes
// @Summary Home leaderboards
// @Description Most visited, most donated, most in need and best rated
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/analytics/homes [get]
func (h *AdminHandler) HomeAnalytics(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return utils.ErrorFrom(c, err)
	}
	rankings, err := h.Services.Analytics.Rankings(c.UserContext())
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"analytics": newHomeAnalyticsView(rankings)})
}

// ListVisits handles GET /api/admin/visits
// @Summary List all visits
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param status query string false "Visit status"
// @Param home_id query int false "Home ID"
// @Param user_id query int false "User ID"
// @Param from query string false "Visit date on or after (YYYY-MM-DD)"
// @Param to query string false "Visit date on or before (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/visits [get]
func (h *AdminHandler) ListVisits(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return utils.ErrorFrom(c, err)
	}

	f, err := visitFilter(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	if f.UserID, err = queryUint(c, "user_id"); err != nil {
		return utils.ErrorFrom(c, err)
	}
	res, err := h.Services.Visits.ListAll(c.UserContext(), f, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"visits":     newVisitViews(res.Items),
		"pagination": pagination(res),
	})
}

// UpdateVisitStatus handles PUT /api/admin/visits/:id/status
// @Summary Set a visit status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visit ID"
// @Param body body services.VisitStatusInput true "Status and notes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/visits/{id}/status [put]
func (h *AdminHandler) UpdateVisitStatus(c *fiber.Ctx) error {
	p, err := h.requireAdmin(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.VisitStatusInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	visit, err := h.Services.Visits.AdminUpdateStatus(c.UserContext(), p.User, id, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Visit status updated successfully", fiber.Map{
		"visit": newVisitView(visit),
	})
}

// ListDonations handles GET /api/admin/donations
// @Summary List all donations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param status query string false "Donation status"
// @Param home_id query int false "Home ID"
// @Param user_id query int false "User ID"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/donations [get]
func (h *AdminHandler) ListDonations(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return utils.ErrorFrom(c, err)
	}

	f, err := donationFilter(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	if f.UserID, err = queryUint(c, "user_id"); err != nil {
		return utils.ErrorFrom(c, err)
	}
	res, err := h.Services.Donations.ListAll(c.UserContext(), f, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"donations":  newDonationViews(res.Items),
		"pagination": pagination(res),
	})
}

// UpdateDonationStatus handles PUT /api/admin/donations/:id/status
// @Summary Set a donation status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Donation ID"
// @Param body body services.DonationStatusInput true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/donations/{id}/status [put]
func (h *AdminHandler) UpdateDonationStatus(c *fiber.Ctx) error {
	p, err := h.requireAdmin(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.DonationStatusInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	donation, err := h.Services.Donations.Get(c.UserContext(), id)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	donation, err = h.Services.Donations.UpdateStatus(c.UserContext(), p.User, donation, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Donation status updated successfully", fiber.Map{
		"donation": newDonationView(donation),
	})
}

// Activity handles GET /api/admin/activity
// @Summary Recent admin activity
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Entries to return" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/activity [get]
func (h *AdminHandler) Activity(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return utils.ErrorFrom(c, err)
	}
	entries, err := h.Services.Activity.Recent(c.UserContext(), c.QueryInt("limit", services.DefaultActivityLimit))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"activity": entries})
}
