package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
)

// AuthHandler handles registration, login and the current session
type AuthHandler struct {
	base
	Users  *services.UserService
	Tokens auth.TokenService
}

// LoginRequest accepts a username or an email in the username field
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by login
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserView  `json:"user"`
}

// Register handles POST /api/auth/register
// @Summary Register a user
// @Description Create a regular user account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}

	user, err := h.Users.Register(c.UserContext(), in)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	return utils.MessageResponse(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"user": newUserView(user),
	})
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Exchange a username or email and password for an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in LoginRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}
	login := in.Username
	if login == "" {
		login = in.Email
	}

	user, err := h.Users.Authenticate(c.UserContext(), login, in.Password)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	token, expiresAt, err := h.Tokens.Issue(user)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        newUserView(user),
	})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	return c.JSON(fiber.Map{"user": newUserView(p.User)})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Revoke the presented access token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := h.authenticate(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}
	if err := h.Tokens.Revoke(c.UserContext(), p.Claims); err != nil {
		return utils.ErrorFrom(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Logged out successfully", nil)
}
