package extraction

import "strings"

// NormaliseWhitespace strips each line and drops blank lines, keeping page
// text consistent regardless of the source format's spacing.
func NormaliseWhitespace(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
