package irradiance

import (
	"context"

	"github.com/helioplan/helioplan/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock of Provider for tests in this and other
// packages.
type MockProvider struct {
	mock.Mock
	source types.IrradiationSource
}

// NewMockProvider creates a mock reporting the given source.
func NewMockProvider(source types.IrradiationSource) *MockProvider {
	return &MockProvider{source: source}
}

// Source implements Provider.
func (m *MockProvider) Source() types.IrradiationSource {
	return m.source
}

// Fetch implements Provider.
func (m *MockProvider) Fetch(ctx context.Context, coords types.Coordinates, tiltDeg, azimuthDeg float64) (types.IrradiationDataset, error) {
	args := m.Called(ctx, coords, tiltDeg, azimuthDeg)
	return args.Get(0).(types.IrradiationDataset), args.Error(1)
}
