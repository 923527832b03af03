package plugins

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/dustin/go-humanize"
)

// ValidateVersion accepts "latest" or a semantic version
func ValidateVersion(version string) error {
	if version == "" || version == types.LatestVersion {
		return nil
	}
	if _, err := semver.NewVersion(version); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidVersion, "invalid plugin version %q", version)
	}
	return nil
}

// VersionMatches reports whether an installed version satisfies the pinned
// one. "latest" and empty pins match anything.
func VersionMatches(pinned, installed string) bool {
	if pinned == "" || pinned == types.LatestVersion {
		return true
	}
	want, err := semver.NewVersion(pinned)
	if err != nil {
		return strings.TrimPrefix(pinned, "v") == strings.TrimPrefix(installed, "v")
	}
	have, err := semver.NewVersion(installed)
	if err != nil {
		return false
	}
	return want.Equal(have)
}

// FormatSize renders a byte count for humans
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}
