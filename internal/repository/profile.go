package repository

import (
	"context"
	"errors"

	"socialhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileChanges describes a profile update. A nil field is left untouched;
// a non-nil slice, even an empty one, replaces every stored row of that kind.
type ProfileChanges struct {
	Bio         *string
	Skills      *[]models.Skill
	Experiences *[]models.Experience
	Educations  *[]models.Education
}

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Apply(ctx context.Context, userID uint, changes ProfileChanges) (*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := loadProfile(r.db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return profile, nil
}

// Apply creates the profile of userID if needed and writes changes in one
// transaction. It returns the profile as stored after the update.
func (r *profileRepository) Apply(ctx context.Context, userID uint, changes ProfileChanges) (*models.Profile, error) {
	var updated *models.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		res := tx.Where("user_id = ?", userID).Limit(1).Find(&profile)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			profile = models.Profile{UserID: userID}
			if changes.Bio != nil {
				profile.Bio = *changes.Bio
			}
			if err := tx.Omit(clause.Associations).Create(&profile).Error; err != nil {
				return err
			}
		} else if changes.Bio != nil {
			if err := tx.Model(&profile).Update("bio", *changes.Bio).Error; err != nil {
				return err
			}
		}

		if changes.Skills != nil {
			if err := replaceChildren(tx, profile.ID, &models.Skill{}, *changes.Skills, func(s *models.Skill) {
				s.ID, s.ProfileID = 0, profile.ID
			}); err != nil {
				return err
			}
		}
		if changes.Experiences != nil {
			if err := replaceChildren(tx, profile.ID, &models.Experience{}, *changes.Experiences, func(e *models.Experience) {
				e.ID, e.ProfileID = 0, profile.ID
			}); err != nil {
				return err
			}
		}
		if changes.Educations != nil {
			if err := replaceChildren(tx, profile.ID, &models.Education{}, *changes.Educations, func(e *models.Education) {
				e.ID, e.ProfileID = 0, profile.ID
			}); err != nil {
				return err
			}
		}

		loaded, err := loadProfile(tx, userID)
		if err != nil {
			return err
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return updated, nil
}

// replaceChildren deletes every row of model owned by profileID and inserts rows.
func replaceChildren[T any](tx *gorm.DB, profileID uint, model *T, rows []T, own func(*T)) error {
	if err := tx.Where("profile_id = ?", profileID).Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	fresh := make([]T, len(rows))
	copy(fresh, rows)
	for i := range fresh {
		own(&fresh[i])
	}
	return tx.Create(&fresh).Error
}

func loadProfile(db *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	err := db.
		Preload("User").
		Preload("Skills", byID).
		Preload("Experiences", byID).
		Preload("Educations", byID).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
