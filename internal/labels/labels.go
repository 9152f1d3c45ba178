// Package labels knows the forge label taxonomy used by the release process:
// "type: *" categories, "module: *" component labels, "release: vX.Y" backport
// targets and the "no-backport" opt-out.
package labels

import (
	"regexp"
	"sort"
	"strings"
)

// Well-known labels and prefixes.
const (
	TypePrefix          = "type: "
	ModulePrefix        = "module: "
	ReleasePrefix       = "release: v"
	TypeFeature         = "type: feature"
	TypeChange          = "type: change"
	TypeFix             = "type: fix"
	TypeRemoval         = "type: removal"
	TypeInternal        = "type: internal"
	DeveloperExperience = "target: developer-experience"
	NoBackport          = "no-backport"
)

var releaseLabelPattern = regexp.MustCompile(`release: v(\d+\.\d+)`)

// Sorted returns a sorted copy of names with surrounding whitespace trimmed
// and empty names removed.
func Sorted(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ExtractTypes returns the labels that denote a change type: "type: " labels
// and the developer-experience target, in label order.
func ExtractTypes(names []string) []string {
	var types []string
	for _, n := range names {
		if strings.HasPrefix(n, TypePrefix) || n == DeveloperExperience {
			types = append(types, n)
		}
	}
	return types
}

// ExtractModules returns the "module: " labels in label order.
func ExtractModules(names []string) []string {
	var modules []string
	for _, n := range names {
		if ModuleName(n) != "" {
			modules = append(modules, n)
		}
	}
	return modules
}

// ModuleName strips the "module: " prefix. Returns "" for other labels.
func ModuleName(label string) string {
	name, ok := strings.CutPrefix(label, ModulePrefix)
	if !ok {
		return ""
	}
	return strings.TrimSpace(name)
}

// ReleaseVersion returns the "MAJOR.MINOR" token of a "release: vX.Y" label.
func ReleaseVersion(name string) (string, bool) {
	m := releaseLabelPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Contains reports whether names holds label (case-sensitive, exact match).
func Contains(names []string, label string) bool {
	for _, n := range names {
		if n == label {
			return true
		}
	}
	return false
}
