package handler

import (
	"net/http"
	"strconv"

	"tabletab/internal/delivery/http/middleware"
	"tabletab/internal/delivery/http/response"
	"tabletab/internal/domain/entity"
	"tabletab/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CartHandler exposes the cart ledger of the device session.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// AddItemInput is the body of the add-to-cart request.
type AddItemInput struct {
	ProductID int64 `json:"productId" validate:"required"`
}

// ChangeQuantityInput is the body of the quantity change request.
type ChangeQuantityInput struct {
	Delta int `json:"delta"`
}

// GetCart returns the derived cart summary.
func (h *CartHandler) GetCart(c echo.Context) error {
	summary, err := h.uc.Summary(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Cart retrieved successfully")
}

// AddItem adds one unit of a product to the cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	var input AddItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	summary, err := h.uc.AddItem(c.Request().Context(), middleware.DeviceID(c), entity.ProductID(input.ProductID))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Item added to cart")
}

// ChangeQuantity applies a signed delta to a cart line.
func (h *CartHandler) ChangeQuantity(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	var input ChangeQuantityInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quantity input")
	}

	summary, err := h.uc.ChangeQuantity(c.Request().Context(), middleware.DeviceID(c), entity.ProductID(productID), input.Delta)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Quantity updated")
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	summary, err := h.uc.RemoveItem(c.Request().Context(), middleware.DeviceID(c), entity.ProductID(productID))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Item removed")
}

// ClearCart empties the ledger.
func (h *CartHandler) ClearCart(c echo.Context) error {
	summary, err := h.uc.Clear(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Cart cleared")
}
