// Package common keeps small types shared between configuration, command line
// and conversion code, so none of them has to import the others.
package common

import (
	"fmt"
	"strings"
)

// Specification of requested output document type.
type OutputFmt int

const (
	OutputFmtYaml OutputFmt = iota
	OutputFmtXml
)

var outputFmtNames = []string{"yaml", "xml"}

// OutputFmtNames returns list of possible string values of OutputFmt.
func OutputFmtNames() []string {
	names := make([]string, len(outputFmtNames))
	copy(names, outputFmtNames)
	return names
}

func (o OutputFmt) String() string {
	if o >= 0 && int(o) < len(outputFmtNames) {
		return outputFmtNames[o]
	}
	return fmt.Sprintf("OutputFmt(%d)", o)
}

// IsValid checks if value is one of the defined constants.
func (o OutputFmt) IsValid() bool {
	return o >= 0 && int(o) < len(outputFmtNames)
}

// ParseOutputFmt attempts to convert a string to OutputFmt (case insensitive).
func ParseOutputFmt(name string) (OutputFmt, error) {
	for i, n := range outputFmtNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return OutputFmt(i), nil
		}
	}
	return OutputFmt(0), fmt.Errorf("%s is not a valid OutputFmt, try [%s]", name, strings.Join(outputFmtNames, ", "))
}

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtYaml:
		return ".yaml"
	case OutputFmtXml:
		return ".xml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// MarshalText implements encoding.TextMarshaler so the value is readable in
// configuration files.
func (o OutputFmt) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OutputFmt) UnmarshalText(text []byte) error {
	v, err := ParseOutputFmt(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
