package middleware

import (
	"net/http"
	"time"

	"tabletab/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the signed device-session
// token.
const SessionCookieName = "tt_session"

const (
	keyDeviceID  = "deviceID"
	keyTableCode = "tableCode"
)

// SessionMiddleware resolves the device session behind every table
// request. A missing or invalid token is not an error: the patron just
// scanned the QR code, so a fresh device session is minted on the spot.
type SessionMiddleware struct {
	tokenSvc service.TokenService
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(tokenSvc service.TokenService) *SessionMiddleware {
	return &SessionMiddleware{tokenSvc: tokenSvc}
}

// EnsureSession validates the session cookie and stores the device ID in
// the request context, minting a new session when necessary.
func (m *SessionMiddleware) EnsureSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tableCode := c.Param("tableCode")

		if cookie, err := c.Cookie(SessionCookieName); err == nil {
			if claims, err := m.tokenSvc.ValidateDeviceToken(cookie.Value); err == nil {
				c.Set(keyDeviceID, claims.DeviceID)
				c.Set(keyTableCode, claims.TableCode)

				return next(c)
			}
		}

		deviceID := uuid.New()
		token, err := m.tokenSvc.GenerateDeviceToken(deviceID, tableCode)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create session")
		}

		c.SetCookie(&http.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int((12 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(keyDeviceID, deviceID)
		c.Set(keyTableCode, tableCode)

		return next(c)
	}
}

// DeviceID returns the device session ID resolved by EnsureSession.
func DeviceID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(keyDeviceID).(uuid.UUID); ok {
		return id
	}

	return uuid.Nil
}

// TableCode returns the table code carried by the session token.
func TableCode(c echo.Context) string {
	if code, ok := c.Get(keyTableCode).(string); ok {
		return code
	}

	return ""
}
