// Package version implements the release version policy: parsing version
// numbers, computing the next legal version for a release type and checking
// that the current branch allows it.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Channel is the maturity of a version.
type Channel string

// Version channels.
const (
	ChannelDev    Channel = "dev"
	ChannelRC     Channel = "rc"
	ChannelStable Channel = "stable"
)

// Branch naming.
const (
	DevelopBranch       = "develop"
	ReleaseBranchPrefix = "release/"
	releaseBranchSuffix = "-stable"
)

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:\.(dev|rc(\d+)))?$`)

// Version is a parsed version number such as 0.30.0.dev, 0.30.0.rc2 or 0.30.1.
type Version struct {
	Major   int
	Minor   int
	Patch   int
	Channel Channel
	// RC is the release candidate number, only meaningful on ChannelRC.
	RC int
}

// Parse parses a version string. Surrounding whitespace is ignored so the
// content of a version file can be passed as is.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", errInvalidVersion, raw)
	}

	v := Version{Channel: ChannelStable}
	var err error
	if v.Major, err = strconv.Atoi(m[1]); err != nil {
		return Version{}, fmt.Errorf("%w: %q", errInvalidVersion, raw)
	}
	if v.Minor, err = strconv.Atoi(m[2]); err != nil {
		return Version{}, fmt.Errorf("%w: %q", errInvalidVersion, raw)
	}
	if v.Patch, err = strconv.Atoi(m[3]); err != nil {
		return Version{}, fmt.Errorf("%w: %q", errInvalidVersion, raw)
	}

	switch {
	case m[4] == "dev":
		v.Channel = ChannelDev
	case m[5] != "":
		v.Channel = ChannelRC
		if v.RC, err = strconv.Atoi(m[5]); err != nil || v.RC < 1 {
			return Version{}, fmt.Errorf("%w: release candidate number must be positive in %q", errInvalidVersion, raw)
		}
	}

	return v, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String formats the version; Parse(v.String()) returns v.
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	switch v.Channel {
	case ChannelDev:
		return base + ".dev"
	case ChannelRC:
		return fmt.Sprintf("%s.rc%d", base, v.RC)
	default:
		return base
	}
}

// MinorLine returns the "MAJOR.MINOR" token used in release labels and backport titles.
func (v Version) MinorLine() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// IsDev reports whether v is a development version.
func (v Version) IsDev() bool { return v.Channel == ChannelDev }

// IsRC reports whether v is a release candidate.
func (v Version) IsRC() bool { return v.Channel == ChannelRC }

// IsStable reports whether v is a final release.
func (v Version) IsStable() bool { return v.Channel == ChannelStable }

// ReleaseBranch returns the stable branch name for the version's minor line,
// e.g. release/0.30-stable.
func (v Version) ReleaseBranch() string {
	return ReleaseBranchPrefix + v.MinorLine() + releaseBranchSuffix
}

// PrepareBranch returns the working branch used to prepare the bump to v.
func (v Version) PrepareBranch() string {
	return "chore/prepare/" + v.String()
}
