package paint

import (
	"regexp"
	"strings"

	"cssfig/common"
	"cssfig/css"
)

// first group of digits or "a" followed by digits (alpha scale steps like a100)
var scaleStepPattern = regexp.MustCompile(`(?i)([0-9]+|a[0-9]+)`)

// StyleName converts custom property name to paint style name: "--gray-100"
// becomes "Gray /100", "--brand-a50" becomes "Brand /A50". Only the first
// scale step is prefixed with slash.
func StyleName(property string) string {
	name := strings.TrimPrefix(property, "--")
	name = strings.ReplaceAll(name, "-", " ")
	if loc := scaleStepPattern.FindStringIndex(name); loc != nil {
		name = name[:loc[0]] + "/" + name[loc[0]:]
	}
	return common.TitleWords(name)
}

// SplitVariable splits declaration into trimmed property name and value. It
// returns false when declaration does not have exactly one colon, values like
// url(http://...) are not colors anyway.
func SplitVariable(v css.RawVariable) (name, value string, ok bool) {
	parts := strings.Split(string(v), ":")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
