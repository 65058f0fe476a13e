// Package command turns typed lines such as "setTheme dark" into slice
// actions.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/jask/globalstate/internal/slice"
)

// maxSuggestDistance bounds how far a suggestion may be from the typed name.
const maxSuggestDistance = 3

// ErrEmpty indicates a blank command line.
var ErrEmpty = errors.New("empty command")

// Catalog is the part of a slice the parser needs.
type Catalog interface {
	Name() string
	Keys() []string
	Creator(key string) (slice.Creator, bool)
}

// UnknownActionError reports a name that matches no handler.
type UnknownActionError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownActionError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown action %q", e.Name)
	}
	return fmt.Sprintf("unknown action %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Parse builds an action from line. The first word names the handler,
// either as its key ("setTheme") or its full type ("global/setTheme").
// Anything after the first run of whitespace is the payload: "true" and
// "false" become bools, a Go-quoted string ("\"true\"") is unquoted and
// kept as a string, other text stays a string as typed.
func Parse(line string, c Catalog) (slice.Action, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return slice.Action{}, ErrEmpty
	}
	name, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name, rest = line[:i], strings.TrimSpace(line[i:])
	}
	key := strings.TrimPrefix(name, c.Name()+slice.Separator)

	creator, ok := c.Creator(key)
	if !ok {
		return slice.Action{}, &UnknownActionError{Name: name, Suggestions: Suggest(key, c.Keys())}
	}
	if rest == "" {
		return creator.New(nil), nil
	}
	payload, err := parsePayload(rest)
	if err != nil {
		return slice.Action{}, fmt.Errorf("parse payload for %s: %w", creator.Type(), err)
	}
	return creator.New(payload), nil
}

func parsePayload(s string) (any, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if strings.HasPrefix(s, `"`) {
		return strconv.Unquote(s)
	}
	return s, nil
}

// Suggest returns the candidates within a small edit distance of name,
// nearest first. Comparison ignores case.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		key  string
		dist int
	}
	lower := strings.ToLower(name)
	var hits []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c))
		if d <= maxSuggestDistance {
			hits = append(hits, scored{key: c, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].key < hits[j].key
	})
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.key)
	}
	return out
}
