package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/event-management/internal/api/metrics"
	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/ports"
)

type AuthHandler struct {
	authService      ports.AuthService
	bootstrapService ports.BootstrapService
}

func NewAuthHandler(authService ports.AuthService, bootstrapService ports.BootstrapService) *AuthHandler {
	return &AuthHandler{authService: authService, bootstrapService: bootstrapService}
}

// Register creates a new USER account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.RealIP(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      toUserResponse(res.User),
	})
}

// RegisterFirstAdmin creates the very first ADMIN account. It requires the
// bootstrap secret in the token query parameter and works only while no
// admin exists.
//
// @Summary      Bootstrap the first admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  query     string           true  "Bootstrap secret"
// @Param        body   body      registerRequest  true  "Admin account details"
// @Success      201    {object}  userResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/auth/register-first-admin [post]
func (h *AuthHandler) RegisterFirstAdmin(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.bootstrapService.RegisterFirstAdmin(c.Request().Context(), c.QueryParam("token"), toRegisterInput(req))
	if err != nil {
		metrics.BootstrapAttemptsTotal.WithLabelValues(bootstrapResult(err)).Inc()
		return err
	}
	metrics.BootstrapAttemptsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// RegisterAdmin lets an existing admin create another ADMIN account.
//
// @Summary      Register an additional admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Admin account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.RegisterAdmin(c.Request().Context(), caller, toRegisterInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Me returns the identity resolved from the bearer token.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, principalResponse{
		UserID:   caller.UserID,
		Username: caller.Username,
		Role:     caller.Role.String(),
	})
}

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}

func bootstrapResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidBootstrapToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrAdminAlreadyRegistered):
		return "already_registered"
	default:
		return "error"
	}
}
