package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/router"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login signs the browser in and points it at the dashboard for its role.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  page{data=authResponse}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	identity, err := h.authService.Login(c.Request().Context(), store, req.Email, req.Password)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, authResponse{User: &identity, Redirect: dashboardFor(identity.Role)})
}

// Register creates an account. The browser signs in afterwards.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "account created", Redirect: router.LoginPath})
}

// Logout clears the browser's session. Logging out twice is harmless.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), store); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "signed out", Redirect: router.LoginPath})
}

// Session reports the browser's session state without the credential.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  page
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return render(c, http.StatusOK, nil)
}
