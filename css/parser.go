// Package css splits CSS-like text into custom property declarations and
// selector blocks.
//
// Only a small line oriented subset is understood: ":root" blocks, standalone
// "--name: value;" lines and class or id selector blocks. There is no support
// for nesting, @-rules, comments inside blocks or grouped selectors.
package css

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	// every declaration inside accumulated :root block
	rootVariablePattern = regexp.MustCompile(`--[\w-]+:\s*.+?;`)
	// standalone declaration outside of any block
	variableLinePattern = regexp.MustCompile(`^--[\w-]+:\s*.+?;$`)
)

// extractState is the accumulation mode of the extractor. Blocks may only be
// entered from stateNeutral, so being in two blocks at once is impossible.
type extractState int

const (
	stateNeutral extractState = iota
	stateInCategory
	stateInRootBlock
)

func (s extractState) String() string {
	switch s {
	case stateInCategory:
		return "category"
	case stateInRootBlock:
		return "root"
	default:
		return "neutral"
	}
}

// Parser extracts variables and category blocks from CSS-like text.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Extract is a convenience wrapper which parses text without logging.
func Extract(text string) Blocks {
	return NewParser(nil).Parse(text)
}

// Parse processes text line by line. Blank lines and lines starting with "//"
// are skipped. A block which is not closed before the end of input is
// silently discarded. The line which opens a block may close it as well, so
// ".note { font-size: 12px; }" is a complete category and does not swallow
// following lines.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(text string, source ...string) Blocks {
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(text)))
	}

	var (
		state  = stateNeutral
		acc    strings.Builder
		blocks Blocks
	)

	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "//") {
			continue
		}

		if state == stateNeutral {
			switch {
			case strings.HasPrefix(line, ".") || strings.HasPrefix(line, "#"):
				state = stateInCategory
			case strings.HasPrefix(line, ":root"):
				state = stateInRootBlock
			case variableLinePattern.MatchString(line):
				blocks.Variables = append(blocks.Variables, RawVariable(strings.TrimSuffix(line, ";")))
				continue
			default:
				p.log.Debug("Ignoring line outside of any block", zap.String("line", line))
				continue
			}
		}

		// lines are joined without separator, declarations are split on ';' later
		acc.WriteString(line)
		if !strings.Contains(line, "}") {
			continue
		}

		switch state {
		case stateInCategory:
			blocks.Categories = append(blocks.Categories, RawCategory(acc.String()))
		case stateInRootBlock:
			for _, m := range rootVariablePattern.FindAllString(acc.String(), -1) {
				blocks.Variables = append(blocks.Variables, RawVariable(strings.TrimSuffix(m, ";")))
			}
		}
		acc.Reset()
		state = stateNeutral
	}

	if state != stateNeutral {
		p.log.Debug("Discarding unterminated block", zap.Stringer("block", state), zap.String("text", acc.String()))
	}

	p.log.Debug("Parsed CSS", zap.Int("variables", len(blocks.Variables)), zap.Int("categories", len(blocks.Categories)))
	return blocks
}
