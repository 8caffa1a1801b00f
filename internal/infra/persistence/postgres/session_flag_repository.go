package postgres

import (
	"context"
	"strconv"

	"tabletab/internal/domain/entity"
	"tabletab/internal/domain/repository"
	"tabletab/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionFlagRepository implements the repository.SessionFlagRepository interface.
type sessionFlagRepository struct {
	db *gorm.DB
}

// NewSessionFlagRepository is the constructor for sessionFlagRepository.
func NewSessionFlagRepository(db *gorm.DB) repository.SessionFlagRepository {
	return &sessionFlagRepository{
		db: db,
	}
}

// Load reads the persisted flags of a device. Values are stored as
// string-typed booleans; unparsable values count as false rather than
// failing the load.
func (repo *sessionFlagRepository) Load(ctx context.Context, deviceID uuid.UUID) (entity.Session, error) {
	var rows []model.SessionFlagModel

	if err := repo.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Find(&rows).Error; err != nil {
		return entity.Session{}, errors.Wrap(err, "failed to load session flags")
	}

	if len(rows) == 0 {
		return entity.Session{}, repository.ErrFlagsNotFound
	}

	var session entity.Session
	for _, row := range rows {
		value, _ := strconv.ParseBool(row.FlagValue)
		switch row.FlagKey {
		case repository.FlagLoggedIn:
			session.IsLoggedIn = value
		case repository.FlagAgeVerified:
			session.IsAgeVerified = value
		}
	}

	return session, nil
}

// Save upserts both flags for a device.
func (repo *sessionFlagRepository) Save(ctx context.Context, deviceID uuid.UUID, session entity.Session) error {
	rows := []model.SessionFlagModel{
		{
			DeviceID:  deviceID,
			FlagKey:   repository.FlagLoggedIn,
			FlagValue: strconv.FormatBool(session.IsLoggedIn),
		},
		{
			DeviceID:  deviceID,
			FlagKey:   repository.FlagAgeVerified,
			FlagValue: strconv.FormatBool(session.IsAgeVerified),
		},
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "flag_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"flag_value", "updated_at"}),
		}).
		Create(&rows).Error; err != nil {
		return errors.Wrap(err, "failed to save session flags")
	}

	return nil
}

// Clear removes every persisted flag of a device.
func (repo *sessionFlagRepository) Clear(ctx context.Context, deviceID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Delete(&model.SessionFlagModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear session flags")
	}

	return nil
}
