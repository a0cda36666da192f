package css

// RawVariable is a single custom property declaration in the form
// "--name: value" with trailing semicolon removed. Value is not parsed.
type RawVariable string

// RawCategory is a complete selector block as it was accumulated from the
// source, e.g. ".heading-1 {font-size: 24px;line-height: normal;}". Source
// lines are concatenated without separators, declarations are delimited by
// semicolons only.
type RawCategory string

// Blocks is the result of splitting source text.
type Blocks struct {
	Variables  []RawVariable // in order of appearance
	Categories []RawCategory // in order of appearance
}

// Empty returns true when nothing was extracted.
func (b Blocks) Empty() bool {
	return len(b.Variables) == 0 && len(b.Categories) == 0
}
