package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DeviceClaims are the custom claims of a table-session token. The token
// keys the per-device checkout machine; it carries no account identity.
type DeviceClaims struct {
	DeviceID  uuid.UUID `json:"deviceId"`
	TableCode string    `json:"tableCode"`
	jwt.RegisteredClaims
}

// TokenService signs and validates the device-session tokens handed to
// patrons as a cookie.
type TokenService interface {
	// GenerateDeviceToken mints a signed token for a device at a table.
	GenerateDeviceToken(deviceID uuid.UUID, tableCode string) (string, error)

	// ValidateDeviceToken checks a token string and returns its claims.
	ValidateDeviceToken(tokenString string) (*DeviceClaims, error)
}
