package handler

import (
	"net/http"

	"tabletab/internal/delivery/http/response"
	"tabletab/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MenuHandler serves the aggregated catalog.
type MenuHandler struct {
	uc usecase.MenuUsecase
}

// NewMenuHandler is the constructor for MenuHandler, injected by Fx.
func NewMenuHandler(uc usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

// GetMenu returns the cached menu aggregate.
func (h *MenuHandler) GetMenu(c echo.Context) error {
	view, err := h.uc.LoadMenu(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Menu retrieved successfully")
}
