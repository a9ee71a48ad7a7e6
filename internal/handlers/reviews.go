package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
)

// ReviewHandler handles a reviewer's own reviews
type ReviewHandler struct {
	base
	Reviews *services.ReviewService
}

// Create handles POST /api/reviews
// @Summary Review a home
// @Description One review per user per home
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ReviewInput true "Review"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	review, err := h.Reviews.Create(c.UserContext(), p.User, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusCreated, "Review created successfully", fiber.Map{
		"review": newReviewView(review),
	})
}

// Mine handles GET /api/reviews/my-reviews
// @Summary My reviews
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /reviews/my-reviews [get]
func (h *ReviewHandler) Mine(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	res, err := h.Reviews.ListMine(c.UserContext(), p.ID(), pageRequest(c))
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{
		"reviews":    newReviewViews(res.Items),
		"pagination": pagination(res),
	})
}

// Get handles GET /api/reviews/:id
// @Summary Get one of my reviews
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	review, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"review": newReviewView(review)})
}

// Update handles PUT /api/reviews/:id
// @Summary Edit one of my reviews
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param body body services.ReviewUpdateInput true "Changes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	review, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.ReviewUpdateInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	review, err = h.Reviews.Update(c.UserContext(), review, in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Review updated successfully", fiber.Map{
		"review": newReviewView(review),
	})
}

// Delete handles DELETE /api/reviews/:id
// @Summary Delete one of my reviews
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	review, err := h.owned(c, p)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	if err := h.Reviews.Delete(c.UserContext(), review); err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Review deleted successfully", nil)
}

func (h *ReviewHandler) owned(c *fiber.Ctx, p *auth.Principal) (*models.Review, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}
	review, err := h.Reviews.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := h.Guard.RequireOwnership(p, review.UserID, false); err != nil {
		return nil, err
	}
	return review, nil
}
