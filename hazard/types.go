package hazard

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rastlabs/rast-core/telemetry"
)

// Category classifies a detected road hazard. The set is closed: an
// unrecognized category string is an input error, never silently kept.
type Category string

const (
	CategoryPothole        Category = "pothole"
	CategorySpeedBump      Category = "speed_bump"
	CategoryDebris         Category = "debris"
	CategoryConstruction   Category = "construction"
	CategoryObstruction    Category = "obstruction"
	CategoryPedestrian     Category = "pedestrian"
	CategoryAnimal         Category = "animal"
	CategoryPoorVisibility Category = "poor_visibility"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryPothole,
	CategorySpeedBump,
	CategoryDebris,
	CategoryConstruction,
	CategoryObstruction,
	CategoryPedestrian,
	CategoryAnimal,
	CategoryPoorVisibility,
}

// ErrUnknownCategory is returned for a category outside the closed set.
var ErrUnknownCategory = errors.New("hazard: unknown category")

// ParseCategory validates a category string against the closed set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if Category(s) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Region is a normalized bounding box within the source frame,
// coordinates in [0,1] with the origin at the top left.
type Region struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Detection is one raw hazard report from an analysis window.
type Detection struct {
	Category       Category `json:"category" validate:"required"`
	Severity       int      `json:"severity" validate:"min=1,max=5"`
	Confidence     float64  `json:"confidence" validate:"min=0,max=1"`
	OffsetSec      float64  `json:"timestamp_offset_sec" validate:"gte=0"`
	WindowStartSec float64  `json:"window_start_sec" validate:"gte=0"`
	Region         *Region  `json:"bounding_box,omitempty"`
	Advisory       string   `json:"advisory,omitempty"`
}

var validate = validator.New()

// Validate checks structural constraints: closed category, severity in
// [1,5], confidence in [0,1], non-negative times.
func (d Detection) Validate() error {
	if _, err := ParseCategory(string(d.Category)); err != nil {
		return err
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("hazard: invalid detection: %w", err)
	}
	return nil
}

// ResolvedDetection is a Detection placed in the drive's absolute
// timeline with an interpolated coordinate. It is derived and read-only;
// deduplication discards losers, it never mutates them.
type ResolvedDetection struct {
	Detection

	// ID is the dense sequential identifier (H001, H002, ...) assigned
	// to deduplication survivors. Empty before deduplication.
	ID string `json:"hazard_id,omitempty"`

	AbsoluteSec float64            `json:"timestamp_sec"`
	Position    telemetry.Position `json:"gps"`
}
