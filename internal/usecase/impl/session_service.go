package impl

import (
	"context"
	"log/slog"

	deliverycontext "tabletab/internal/delivery/context"
	"tabletab/internal/domain/entity"
	"tabletab/internal/domain/repository"
	"tabletab/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	flagRepo repository.SessionFlagRepository
	logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	flagRepo repository.SessionFlagRepository,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		flagRepo: flagRepo,
		logger:   logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Load reads the persisted flags of a device. An unknown device yields a
// zero session. Stale combinations are normalized on the way in: without
// the logged-in flag the age-verified flag is dropped.
func (srv *sessionService) Load(ctx context.Context, deviceID uuid.UUID) (entity.Session, error) {
	session, err := srv.flagRepo.Load(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrFlagsNotFound) {
			return entity.Session{}, nil
		}

		return entity.Session{}, errors.Wrap(err, "failed to load session")
	}

	normalized := session.Normalize()
	if normalized != session {
		srv.log(ctx).Warn("Dropped stale age-verified flag without login",
			slog.Any("device_id", deviceID),
		)
	}

	return normalized, nil
}

// MarkLoggedIn persists the logged-in flag for a device.
func (srv *sessionService) MarkLoggedIn(ctx context.Context, deviceID uuid.UUID) (entity.Session, error) {
	current, err := srv.Load(ctx, deviceID)
	if err != nil {
		return entity.Session{}, err
	}

	current.IsLoggedIn = true
	if err := srv.flagRepo.Save(ctx, deviceID, current); err != nil {
		return entity.Session{}, errors.Wrap(err, "failed to persist login")
	}

	srv.log(ctx).Info("Device logged in", slog.Any("device_id", deviceID))

	return current, nil
}

// MarkAgeVerified records a completed identity verification. A signup
// verification creates the account, so both flags are persisted. A
// checkout verification is valid for the visit only: the updated session
// is returned but never written.
func (srv *sessionService) MarkAgeVerified(
	ctx context.Context,
	deviceID uuid.UUID,
	current entity.Session,
	reason entity.VerificationReason,
) (entity.Session, error) {
	current.IsAgeVerified = true

	if reason == entity.ReasonSignup {
		current.IsLoggedIn = true
		if err := srv.flagRepo.Save(ctx, deviceID, current); err != nil {
			return entity.Session{}, errors.Wrap(err, "failed to persist signup verification")
		}
	}

	srv.log(ctx).Info("Identity verification applied",
		slog.Any("device_id", deviceID),
		slog.String("reason", string(reason)),
		slog.Bool("persisted", reason == entity.ReasonSignup),
	)

	return current, nil
}

// Logout clears the persisted flags of a device.
func (srv *sessionService) Logout(ctx context.Context, deviceID uuid.UUID) error {
	if err := srv.flagRepo.Clear(ctx, deviceID); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	srv.log(ctx).Info("Device logged out", slog.Any("device_id", deviceID))

	return nil
}
