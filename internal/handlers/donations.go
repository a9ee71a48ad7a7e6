// donations.go
//
// Donation coordination service for children's homes and orphanages
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of caredonate.
// caredonate is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// caredonate is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with caredonate.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
)

// DonationHandler handles a donor's own donations
type DonationHandler struct {
	base
	Donations *services.DonationService
}

// Create handles POST /api/donations
// @Summary Make a donation
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DonationInput true "Donation"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /donations [post]
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.DonationInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}

	donation, err := h.Donations.Create(c.UserContext(), p.User, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusCreated, "Donation created successfully", fiber.Map{
		"donation": newDonationView(donation),
	})
}

// CreateMultiple handles POST /api/donations/multiple
// @Summary Make several donations at once
// @Description All donations are recorded, or none
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BatchDonationInput true "Donations"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /donations/multiple [post]
func (h *DonationHandler) CreateMultiple(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.BatchDonationInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}

	donations, err := h.Donations.CreateBatch(c.UserContext(), p.User, in.Donations)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	views := make([]DonationView, len(donations))
	for i, d := range donations {
		views[i] = newDonationView(d)
	}
	return utils.MessageResponse(c, fiber.StatusCreated,
		fmt.Sprintf("%d donations created successfully", len(donations)),
		fiber.Map{"donations": views})
}

// Mine handles GET /api/donations/my-donations
// @Summary My donations
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param status query string false "pending, completed or cancelled"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /donations/my-donations [get]
func (h *DonationHandler) Mine(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	f, err := donationFilter(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	res, err := h.Donations.ListMine(c.UserContext(), p.ID(), f, pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"donations":  newDonationViews(res.Items),
		"pagination": pagination(res),
	})
}

// Stats handles GET /api/donations/stats
// @Summary My donation statistics
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /donations/stats [get]
func (h *DonationHandler) Stats(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	stats, err := h.Donations.Stats(c.UserContext(), p.ID())
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// Get handles GET /api/donations/:id
// @Summary Get one of my donations
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Donation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /donations/{id} [get]
func (h *DonationHandler) Get(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	donation, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"donation": newDonationView(donation)})
}

// UpdateStatus handles PUT /api/donations/:id/status
// @Summary Complete or cancel one of my pending donations
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Donation ID"
// @Param body body services.DonationStatusInput true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /donations/{id}/status [put]
func (h *DonationHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	donation, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.DonationStatusInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	donation, err = h.Donations.UpdateStatus(c.UserContext(), nil, donation, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Donation status updated successfully", fiber.Map{
		"donation": newDonationView(donation),
	})
}

// owned loads the donation named by :id and checks that p owns it
func (h *DonationHandler) owned(c *fiber.Ctx, p *auth.Principal) (*models.Donation, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}
	donation, err := h.Donations.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := h.Guard.RequireOwnership(p, donation.UserID, false); err != nil {
		return nil, err
	}
	return donation, nil
}

func donationFilter(c *fiber.Ctx) (store.DonationFilter, error) {
	var f store.DonationFilter
	var err error
	f.Status = models.DonationStatus(c.Query("status"))
	if f.HomeID, err = queryUint(c, "home_id"); err != nil {
		return f, err
	}
	if f.From, f.To, err = queryDateRange(c); err != nil {
		return f, err
	}
	return f, nil
}
