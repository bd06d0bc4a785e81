package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/types"
)

// MockProfileService is a mock implementation of the IProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in types.ProfileInput) (*models.UserProfile, *models.TargetSet, []string, error) {
	args := m.Called(ctx, userID, in)
	var (
		profile *models.UserProfile
		targets *models.TargetSet
		warns   []string
	)
	if args.Get(0) != nil {
		profile = args.Get(0).(*models.UserProfile)
	}
	if args.Get(1) != nil {
		targets = args.Get(1).(*models.TargetSet)
	}
	if args.Get(2) != nil {
		warns = args.Get(2).([]string)
	}
	return profile, targets, warns, args.Error(3)
}

func (m *MockProfileService) GetTargets(ctx context.Context, userID uuid.UUID) (*models.TargetSet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TargetSet), args.Error(1)
}
