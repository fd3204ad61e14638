package tmx

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var ErrInvalidPattern = errors.New("libworld: invalid file pattern")

// Level is one map file of a world together with its world pixel offset.
type Level struct {
	Path   string
	Name   string
	WorldX int32
	WorldY int32
}

func validatePattern(pattern string) error {
	for _, p := range []string{"{x}", "{y}"} {
		if strings.Count(pattern, p) != 1 {
			return fmt.Errorf("%w: placeholder %v must appear once", ErrInvalidPattern, p)
		}
	}
	if strings.Count(pattern, "{name}") > 1 {
		return fmt.Errorf("%w: placeholder {name} appears more than once", ErrInvalidPattern)
	}
	return nil
}

func patternRegexp(pattern string) (*regexp.Regexp, error) {
	regexPattern := regexp.QuoteMeta(pattern)
	regexPattern = strings.ReplaceAll(regexPattern, `\{x\}`, `(?P<x>-?\d+)`)
	regexPattern = strings.ReplaceAll(regexPattern, `\{y\}`, `(?P<y>-?\d+)`)
	regexPattern = strings.ReplaceAll(regexPattern, `\{name\}`, `(?P<name>[^/]+?)`)
	pathRegex, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return pathRegex, nil
}

// Glob finds the map files of fsys matching pattern, e.g.
// "levels/{name}@{x},{y}.tmx", where {x} and {y} are the world pixel offsets
// of the map. Without {name} the level is named after the file. Levels are
// ordered top to bottom, then left to right.
func Glob(fsys fs.FS, pattern string) ([]Level, error) {
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}
	pathRegex, err := patternRegexp(pattern)
	if err != nil {
		return nil, err
	}

	globPattern := pattern
	for _, p := range []string{"{x}", "{y}", "{name}"} {
		globPattern = strings.ReplaceAll(globPattern, p, "*")
	}
	matches, err := fs.Glob(fsys, globPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	var levels []Level
	for _, match := range matches {
		groups := pathRegex.FindStringSubmatch(match)
		if groups == nil {
			continue
		}
		level := Level{Path: match}
		for i, name := range pathRegex.SubexpNames() {
			switch name {
			case "x", "y":
				v, err := strconv.ParseInt(groups[i], 10, 32)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPattern, match, err)
				}
				if name == "x" {
					level.WorldX = int32(v)
				} else {
					level.WorldY = int32(v)
				}
			case "name":
				level.Name = groups[i]
			}
		}
		if level.Name == "" {
			level.Name = strings.TrimSuffix(path.Base(match), path.Ext(match))
		}
		levels = append(levels, level)
	}
	slices.SortStableFunc(levels, func(a, b Level) int {
		return cmp.Or(cmp.Compare(a.WorldY, b.WorldY), cmp.Compare(a.WorldX, b.WorldX))
	})
	return levels, nil
}
