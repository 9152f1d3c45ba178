package changelog

import "github.com/sgaunet/release-toolbox/internal/labels"

// Category is a changelog section selected by a type label.
type Category struct {
	Title string
	Label string
	// SkipModules suppresses the module prefix on entry lines.
	SkipModules bool
}

// Categories lists the changelog sections in output order. A pull request
// lands in the first category whose label it carries.
var Categories = []Category{
	{Title: "Added", Label: labels.TypeFeature},
	{Title: "Changed", Label: labels.TypeChange},
	{Title: "Fixed", Label: labels.TypeFix},
	{Title: "Removed", Label: labels.TypeRemoval},
	{Title: "Developer improvements", Label: labels.DeveloperExperience, SkipModules: true},
	{Title: "Internal", Label: labels.TypeInternal},
}

// UnsortedTitle is the title of the catch-all section.
const UnsortedTitle = "Unsorted"
