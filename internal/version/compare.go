package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// CheckSnapshotCompatibility reports whether snapshots written by
// snapshotVersion can be decoded by a build of currentVersion.
//
// Record layouts only change on minor releases, so major and minor must match
// and patch versions may differ. Development builds ("main") skip the check.
func CheckSnapshotCompatibility(currentVersion, snapshotVersion string) error {
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	snapshotVersion = strings.TrimPrefix(snapshotVersion, "v")

	if currentVersion == "main" || snapshotVersion == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid build version %q", currentVersion)
	}

	snapshot, err := semver.NewVersion(snapshotVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeLoadFailed, err, "invalid snapshot version %q", snapshotVersion)
	}

	if current.Major() != snapshot.Major() || current.Minor() != snapshot.Minor() {
		return errors.Newf(errors.ErrCodeLoadFailed,
			"snapshots were written by %d.%d.x and cannot be read by %s",
			snapshot.Major(), snapshot.Minor(), current)
	}

	return nil
}
