// Package options provides shared utilities for option validation across packages.
package options

import (
	"fmt"

	"github.com/erraggy/apichangelog/oaserrors"
)

// ValidateSingleInputSource ensures exactly one input source is specified.
// option names the input for error messages (e.g. "old spec"); hint lists the
// options that set it. sources reports, per candidate option, whether it is set.
// Returns a *oaserrors.ConfigError when zero or several sources are set.
func ValidateSingleInputSource(option, hint string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &oaserrors.ConfigError{
			Option:  option,
			Message: fmt.Sprintf("must specify an input source (use %s)", hint),
		}
	case count > 1:
		return &oaserrors.ConfigError{
			Option:  option,
			Message: fmt.Sprintf("must specify exactly one input source, got %d", count),
		}
	}
	return nil
}
