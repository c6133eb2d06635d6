// Package options provides shared checks for mutually exclusive settings.
package options

import (
	"fmt"
	"strings"
)

// Flag names a setting and whether the caller supplied it.
type Flag struct {
	Name string
	Set  bool
}

// AtMostOne returns an error naming the conflicting settings when more than
// one flag is set.
func AtMostOne(flags ...Flag) error {
	set := setNames(flags)
	if len(set) > 1 {
		return fmt.Errorf("options %s are mutually exclusive", strings.Join(set, ", "))
	}
	return nil
}

func setNames(flags []Flag) []string {
	var set []string
	for _, f := range flags {
		if f.Set {
			set = append(set, f.Name)
		}
	}
	return set
}
