// Package handler contains the HTTP handlers for the application.
package handler

import (
	"fmt"
	"net/http"

	"tabletab/config"
	"tabletab/internal/delivery/http/response"
	"tabletab/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TableHandler serves the table landing and its shareable QR code.
type TableHandler struct {
	qrSvc   service.QRCodeService
	baseURL string
}

// NewTableHandler is the constructor for TableHandler, injected by Fx.
func NewTableHandler(qrSvc service.QRCodeService, cfg *config.Config) *TableHandler {
	return &TableHandler{
		qrSvc:   qrSvc,
		baseURL: cfg.QRCode.BaseURL,
	}
}

// shareURL is the address a patron forwards to tablemates; the QR code
// encodes the same thing.
func (h *TableHandler) shareURL(tableCode string) string {
	return fmt.Sprintf("%s/c/%s", h.baseURL, tableCode)
}

// Landing handles the first request after scanning the table QR code.
// The session middleware has already minted the device session.
func (h *TableHandler) Landing(c echo.Context) error {
	tableCode := c.Param("tableCode")

	return response.Success(c, http.StatusOK, map[string]string{
		"tableCode": tableCode,
		"shareUrl":  h.shareURL(tableCode),
	}, "Table session ready")
}

// QRCode renders the share URL as a PNG so it can be reprinted at the
// table.
func (h *TableHandler) QRCode(c echo.Context) error {
	tableCode := c.Param("tableCode")

	png, err := h.qrSvc.GenerateTableQR(h.shareURL(tableCode))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
