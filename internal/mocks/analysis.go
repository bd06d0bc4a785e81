package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/macroledger/backend/internal/nutrition"
)

// MockAnalysisService is a mock implementation of the IAnalysisService interface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, description string) (*nutrition.AnalysisResult, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.AnalysisResult), args.Error(1)
}
