// Package presets names the built-in animated patterns of Hello Fairy
// lights.
//
// The firmware ships 58 patterns selected by numeric index. Fourteen of
// them appear in the vendor app's effect menu and have reconstructed
// names; the rest are valid but unnamed and can only be driven by raw
// index.
package presets

import (
	"fmt"
	"sort"
	"strings"
)

// Valid pattern index range. Index 0 does not exist on the device.
const (
	MinIndex = 1
	MaxIndex = 58
)

// names maps the curated pattern indices to their vendor app names.
var names = map[int]string{
	8:  "Blue with Pink Sparkle",
	17: "Fireworks",
	18: "Xmas",
	20: "Halloween",
	39: "July 4th",
	40: "Red Gold",
	41: "Blue White Dissolve",
	46: "Valentine",
	47: "St. Patrick",
	48: "May Day",
	50: "Candy Cane",
	54: "Snow Day",
	56: "Blue Sparkle",
	57: "White Sparkle",
}

// NameOf returns the curated display name for a pattern index. The second
// return is false for any index without a name, including indices outside
// the valid range; an unnamed in-range index is not an error, merely
// nameless.
func NameOf(index int) (string, bool) {
	name, ok := names[index]
	return name, ok
}

// ValidIndex reports whether index selects an existing pattern.
func ValidIndex(index int) bool {
	return index >= MinIndex && index <= MaxIndex
}

// Label returns a display string for any valid index: the curated name
// when one exists, otherwise "pattern N".
func Label(index int) string {
	if name, ok := names[index]; ok {
		return name
	}
	return fmt.Sprintf("pattern %d", index)
}

// Names returns the curated pattern names in index order.
func Names() []string {
	indices := make([]int, 0, len(names))
	for index := range names {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	out := make([]string, len(indices))
	for i, index := range indices {
		out[i] = names[index]
	}
	return out
}

// Indices returns the curated pattern indices in ascending order.
func Indices() []int {
	indices := make([]int, 0, len(names))
	for index := range names {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// IndexOf returns the pattern index for a curated name. Matching is
// case-insensitive.
func IndexOf(name string) (int, bool) {
	for index, candidate := range names {
		if strings.EqualFold(candidate, name) {
			return index, true
		}
	}
	return 0, false
}
