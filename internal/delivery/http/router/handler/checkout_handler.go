package handler

import (
	"net/http"

	"tabletab/internal/delivery/http/middleware"
	"tabletab/internal/delivery/http/response"
	"tabletab/internal/domain/entity"
	"tabletab/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CheckoutHandler drives the checkout state machine of the device
// session. Every endpoint is one explicit transition.
type CheckoutHandler struct {
	uc usecase.CheckoutUsecase
}

// NewCheckoutHandler is the constructor for CheckoutHandler, injected by Fx.
func NewCheckoutHandler(uc usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// OpenViewInput is the body of the view navigation request.
type OpenViewInput struct {
	View string `json:"view" validate:"required"`
}

// VerificationCodeInput is the body of the code submission request.
type VerificationCodeInput struct {
	Code string `json:"code" validate:"required"`
}

// GetState returns the current machine snapshot.
func (h *CheckoutHandler) GetState(c echo.Context) error {
	view, err := h.uc.State(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Checkout state retrieved")
}

// OpenView navigates to a plain view.
func (h *CheckoutHandler) OpenView(c echo.Context) error {
	var input OpenViewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid view input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	view, err := h.uc.OpenView(c.Request().Context(), middleware.DeviceID(c), entity.StateKind(input.View))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "View opened")
}

// Checkout attempts payment for the current cart.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	view, err := h.uc.Checkout(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Checkout started")
}

// StartSignup enters identity verification for account creation.
func (h *CheckoutHandler) StartSignup(c echo.Context) error {
	view, err := h.uc.StartSignup(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Signup verification started")
}

// SubmitVerificationCode submits the personal code.
func (h *CheckoutHandler) SubmitVerificationCode(c echo.Context) error {
	var input VerificationCodeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid code input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	view, err := h.uc.SubmitVerificationCode(c.Request().Context(), middleware.DeviceID(c), input.Code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Verification code submitted")
}

// CancelVerification abandons an unconfirmed verification.
func (h *CheckoutHandler) CancelVerification(c echo.Context) error {
	view, err := h.uc.CancelVerification(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Verification cancelled")
}

// ContinueVerification applies a confirmed verification.
func (h *CheckoutHandler) ContinueVerification(c echo.Context) error {
	view, err := h.uc.ContinueVerification(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Verification continued")
}

// Logout clears the session from the account view.
func (h *CheckoutHandler) Logout(c echo.Context) error {
	view, err := h.uc.Logout(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Logged out")
}
