// Package common keeps enumerations shared between configuration and the
// command line parts of the program.
package common

import (
	"fmt"
	"strings"
)

// Requested output type.
// ENUM(json, yaml, tree, ion)
type OutputFmt int

const (
	OutputFmtJson OutputFmt = iota
	OutputFmtYaml
	OutputFmtTree
	OutputFmtIon
)

var outputFmtNames = []string{"json", "yaml", "tree", "ion"}

// OutputFmtNames returns list of possible string values of OutputFmt.
func OutputFmtNames() []string {
	tmp := make([]string, len(outputFmtNames))
	copy(tmp, outputFmtNames)
	return tmp
}

// String implements the Stringer interface.
func (o OutputFmt) String() string {
	if o >= 0 && int(o) < len(outputFmtNames) {
		return outputFmtNames[o]
	}
	return fmt.Sprintf("OutputFmt(%d)", o)
}

// IsValid provides a quick way to determine if the typed value is part of the
// allowed enumerated values.
func (o OutputFmt) IsValid() bool {
	return o >= 0 && int(o) < len(outputFmtNames)
}

// ErrInvalidOutputFmt is returned when value cannot be parsed.
var ErrInvalidOutputFmt = fmt.Errorf("not a valid OutputFmt, try [%s]", strings.Join(outputFmtNames, ", "))

// ParseOutputFmt attempts to convert a string to a OutputFmt.
func ParseOutputFmt(name string) (OutputFmt, error) {
	for i, n := range outputFmtNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return OutputFmt(i), nil
		}
	}
	return OutputFmt(0), fmt.Errorf("%s is %w", name, ErrInvalidOutputFmt)
}

// MustParseOutputFmt converts a string to a OutputFmt, and panics if is not
// valid.
func MustParseOutputFmt(name string) OutputFmt {
	val, err := ParseOutputFmt(name)
	if err != nil {
		panic(err)
	}
	return val
}

// MarshalText implements the text marshaller method.
func (o OutputFmt) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (o *OutputFmt) UnmarshalText(text []byte) error {
	tmp, err := ParseOutputFmt(string(text))
	if err != nil {
		return err
	}
	*o = tmp
	return nil
}

// Ext returns file extension for the output type.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtJson:
		return ".json"
	case OutputFmtYaml:
		return ".yaml"
	case OutputFmtTree:
		return ".txt"
	case OutputFmtIon:
		return ".ion"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
