package validation

import (
	"strings"

	"vigil/internal/models"
)

// ValidateResolution checks an alert resolution request.
func ValidateResolution(resolution, reviewedBy string) error {
	v := New()

	v.Check(resolution != "", "resolution", "resolution is required")
	if resolution != "" {
		v.Check(models.IsValidResolution(resolution), "resolution",
			"resolution must be one of: "+strings.Join(models.Resolutions, ", "))
	}
	v.Check(reviewedBy != "", "reviewed_by", "reviewed_by is required")

	return v.Err()
}
