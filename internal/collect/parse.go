package collect

import (
	"errors"
	"strconv"
	"strings"
)

var errNegative = errors.New("must be a non-negative integer")

func itoa(v int) string { return strconv.Itoa(v) }

// ParseWeights reads a comma-separated list of non-negative integers.
// Blank tokens (e.g. a trailing comma) are skipped.
func ParseWeights(s string) ([]int, error) {
	return parseList("weights", s)
}

// ParseTargets reads a comma-separated list of 1-based item indices.
// Range checks happen in NewItemSet, which knows the pool size.
func ParseTargets(s string) ([]int, error) {
	return parseList("targets", s)
}

// ParseItemSet is the text boundary used by the transports.
func ParseItemSet(weights, targets string) (*ItemSet, error) {
	ws, err := ParseWeights(weights)
	if err != nil {
		return nil, err
	}
	ts, err := ParseTargets(targets)
	if err != nil {
		return nil, err
	}
	return NewItemSet(ws, ts)
}

func parseList(field, s string) ([]int, error) {
	var out []int
	pos := 0
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		pos++
		v, err := strconv.Atoi(tok)
		if err != nil {
			// *strconv.NumError keeps ErrSyntax and ErrRange apart
			return nil, &ParseError{Field: field, Pos: pos, Token: tok, Err: err}
		}
		if v < 0 {
			return nil, &ParseError{Field: field, Pos: pos, Token: tok, Err: errNegative}
		}
		out = append(out, v)
	}
	return out, nil
}
