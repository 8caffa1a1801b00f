package handler

import (
	"net/http"

	"tabletab/internal/delivery/http/middleware"
	"tabletab/internal/delivery/http/response"
	"tabletab/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TestHandler handles test-only endpoints used during development. The
// routes are registered only when enabled in configuration.
type TestHandler struct {
	sessions usecase.SessionUsecase
	menu     usecase.MenuUsecase
}

// NewTestHandler creates a new TestHandler instance.
func NewTestHandler(sessions usecase.SessionUsecase, menu usecase.MenuUsecase) *TestHandler {
	return &TestHandler{
		sessions: sessions,
		menu:     menu,
	}
}

// ForceLogin marks the device session logged in without going through
// identity verification. Development shortcut only.
func (h *TestHandler) ForceLogin(c echo.Context) error {
	session, err := h.sessions.MarkLoggedIn(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, session, "Forced login applied")
}

// ResetSession clears the persisted flags of the device session.
func (h *TestHandler) ResetSession(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), middleware.DeviceID(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "reset"}, "Session flags cleared")
}

// InvalidateMenu drops the menu cache so the next load refetches.
func (h *TestHandler) InvalidateMenu(c echo.Context) error {
	h.menu.Invalidate()

	return response.Success(c, http.StatusOK, map[string]string{"status": "invalidated"}, "Menu cache invalidated")
}
