package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ANIKETSHETTY47/facility-intake-engine/internal/errors"
)

func TestStubReturnsFixedBundle(t *testing.T) {
	specs, err := Stub{}.Extract(context.Background(), []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, "Boiler", specs.Category)
	assert.Equal(t, "Cleaver-Brooks", specs.Brand)
	assert.Equal(t, 1750.0, specs.RPM)
	assert.Equal(t, 0.5, specs.Displacement)
}

func TestStubRejectsEmptyImage(t *testing.T) {
	_, err := Stub{}.Extract(context.Background(), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
