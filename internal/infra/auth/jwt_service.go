// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tabletab/config"
	"tabletab/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string        // Secret key for signing device-session tokens.
	ttl    time.Duration // Time-to-live for device-session tokens.
}

// Device sessions outlive a meal comfortably but not a forgotten phone.
const deviceTokenTTL = 12 * time.Hour

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	return &jwtService{
		secret: cfg.SecretKey.Session,
		ttl:    deviceTokenTTL,
	}, nil
}

// GenerateDeviceToken mints a signed token for a device at a table.
func (s *jwtService) GenerateDeviceToken(deviceID uuid.UUID, tableCode string) (string, error) {
	now := time.Now()
	claims := service.DeviceClaims{
		DeviceID:  deviceID,
		TableCode: tableCode,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// ValidateDeviceToken checks a token string and returns its claims.
func (s *jwtService) ValidateDeviceToken(tokenString string) (*service.DeviceClaims, error) {
	claims := &service.DeviceClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}
