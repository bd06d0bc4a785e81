package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/nutrition"
	"github.com/macroledger/backend/internal/types"
	"gorm.io/gorm"
)

// ProfileService handles profile reads and the profile-update → target
// recompute flow.
type ProfileService struct {
	db *gorm.DB
}

var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nutrition.ErrNotFound
		}
		return nil, &nutrition.StorageError{Op: "get profile", Err: err}
	}
	return &profile, nil
}

// UpdateProfile replaces the stored body metrics and recomputes the target
// set from them. The current TargetSet row is replaced atomically with the
// profile change, never merged, so readers fetching targets always see a set
// consistent with some complete profile state.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in types.ProfileInput) (*models.UserProfile, *models.TargetSet, []string, error) {
	targets, warnings, err := nutrition.ComputeTargets(MetricsFromInput(in))
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		profile   models.UserProfile
		targetSet models.TargetSet
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}

		profile.WeightKg = in.WeightKg
		profile.HeightCm = in.HeightCm
		profile.Age = in.Age
		profile.Sex = in.Sex
		profile.ActivityLevel = in.ActivityLevel
		profile.Goal = in.Goal
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).First(&targetSet).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			targetSet = models.TargetSet{ID: uuid.New(), UserID: userID}
		}
		targetSet.Protein = targets.Protein
		targetSet.Carbs = targets.Carbs
		targetSet.Fats = targets.Fats
		targetSet.Calories = targets.Calories
		targetSet.CalculatedAt = targets.CalculatedAt
		return tx.Save(&targetSet).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nutrition.ErrNotFound
		}
		return nil, nil, nil, &nutrition.StorageError{Op: "update profile", Err: err}
	}

	return &profile, &targetSet, warnings, nil
}

func (s *ProfileService) GetTargets(ctx context.Context, userID uuid.UUID) (*models.TargetSet, error) {
	var targetSet models.TargetSet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&targetSet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nutrition.ErrNotFound
		}
		return nil, &nutrition.StorageError{Op: "get targets", Err: err}
	}
	return &targetSet, nil
}
