package bundle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FormatVersion is written alongside every stored document.
const FormatVersion = "1.0.0"

// ErrUnsupportedFormat is returned for documents written by an incompatible
// release. Stored data is never migrated.
var ErrUnsupportedFormat = errors.New("unsupported store format")

var supportedFormats = mustConstraint("^" + FormatVersion)

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}

// checkFormat accepts an empty version (documents predating versioning) and
// any version compatible with FormatVersion.
func checkFormat(version string) error {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: parsing version %q: %v", ErrUnsupportedFormat, version, err)
	}
	if !supportedFormats.Check(v) {
		return fmt.Errorf("%w: %s (this release reads %s)", ErrUnsupportedFormat, v, supportedFormats)
	}
	return nil
}
