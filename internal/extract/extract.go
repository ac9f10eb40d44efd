// Package extract turns an equipment nameplate photo into structured attributes.
package extract

import (
	"context"

	apperrors "github.com/ANIKETSHETTY47/facility-intake-engine/internal/errors"
)

// Specs is the attribute bundle read from a nameplate.
type Specs struct {
	Category     string  `json:"equipment_type"`
	Brand        string  `json:"brand"`
	RPM          float64 `json:"rpm"`
	HP           float64 `json:"hp"`
	Voltage      float64 `json:"voltage"`
	Displacement float64 `json:"displacement"`
}

type Extractor interface {
	Extract(ctx context.Context, image []byte) (Specs, error)
}

// Stub returns a fixed bundle for any non-empty image. It stands in until an OCR
// backend is wired.
type Stub struct{}

var StubSpecs = Specs{
	Category:     "Boiler",
	Brand:        "Cleaver-Brooks",
	RPM:          1750,
	HP:           20,
	Voltage:      480,
	Displacement: 0.5,
}

func (Stub) Extract(ctx context.Context, image []byte) (Specs, error) {
	if err := ctx.Err(); err != nil {
		return Specs{}, err
	}
	if len(image) == 0 {
		return Specs{}, apperrors.NewValidationError("No file provided")
	}
	return StubSpecs, nil
}
