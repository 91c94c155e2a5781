package config

import (
	"os"
	"strings"
)

// fallbackFileName replaces names with nothing usable left.
const fallbackFileName = "_unnamed_"

// CleanFileName makes single path segment of output name: drops characters
// the platform does not accept and leading dots, which would hide the file.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym < ' ' || strings.ContainsRune(reservedNameChars, sym) ||
			sym == os.PathSeparator || sym == os.PathListSeparator {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimSpace(strings.TrimLeft(out, ". "))
	if out == "" {
		return fallbackFileName
	}
	return out
}
