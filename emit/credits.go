package emit

import (
	"regexp"
	"strings"
)

var numeralsOnly = regexp.MustCompile(`^[\d\W]*$`)

func containsAny(x string, names []string) bool {
	for _, c := range names {
		if c != "" && strings.Contains(x, c) {
			return true
		}
	}
	return false
}

func inList(x string, names []string) bool {
	for _, c := range names {
		if c == x {
			return true
		}
	}
	return false
}

// FilterCredits drops credit lines that repeat other header fields. A
// higher level keeps more lines, level 0 also drops every credit when a
// title is set.
func FilterCredits(credits []string, title, mvtTitle string, composer, lyricist []string, level int) []string {
	var cs []string
	for _, x := range credits {
		if level < 6 && (strings.Contains(title, x) || strings.Contains(mvtTitle, x)) {
			continue
		}
		if level < 5 && (inList(x, composer) || inList(x, lyricist)) {
			continue
		}
		if level < 4 && ((title != "" && strings.Contains(x, title)) || (mvtTitle != "" && strings.Contains(x, mvtTitle))) {
			continue
		}
		if level < 3 && (containsAny(x, composer) || containsAny(x, lyricist)) {
			continue
		}
		if level < 2 && numeralsOnly.MatchString(x) {
			continue
		}
		cs = append(cs, x)
	}
	if level == 0 && title+mvtTitle != "" {
		return nil
	}
	return cs
}
