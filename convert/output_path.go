package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"h2d/config"
	"h2d/state"
)

const nameTemplateField = "name_template"

// buildOutputPath returns constructed output file path/name. It uses either
// source file name or user-defined template and takes into account whether to
// preserve source directory structure on the output. It cleans up path and if
// requested transliterates it.
func buildOutputPath(src, dst, ext string, values Values, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := cleanPathSegment(values.Name, env) + ext

	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName, err := expandTemplate(nameTemplateField, env.Cfg.Output.NameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}
	if strings.TrimSpace(expandedName) == "" {
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, filepath.FromSlash(expandedName), ext, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName, ext string, env *state.LocalEnv) string {
	pathSegments := splitAndCleanPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := cleanPathSegment(pathSegments[len(pathSegments)-1], env) + ext
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)

	for _, segment := range pathSegments[:len(pathSegments)-1] {
		if segment == ".." || segment == "." {
			// template should not be able to escape destination
			continue
		}
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}

	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}

	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.Transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
