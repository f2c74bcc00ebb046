package bf

import "fmt"

const (
	loopOpen  = '['
	loopClose = ']'
)

type Matching uint8

const (
	// MatchBalanced skips nested loops while looking for the terminator.
	MatchBalanced Matching = iota
	// MatchFirst stops at the first terminator regardless of nesting.
	MatchFirst
)

func (m Matching) String() string {
	switch m {
	case MatchBalanced:
		return "balanced"
	case MatchFirst:
		return "first"
	}
	return fmt.Sprintf("Matching(%d)", m)
}

func ParseMatching(str string) (Matching, error) {
	switch str {
	case "", "balanced":
		return MatchBalanced, nil
	case "first":
		return MatchFirst, nil
	}
	return 0, fmt.Errorf("unknown loop matching: %q", str)
}

// FindLoopEnd scans text from start, inclusive, for the loop terminator.
// With MatchBalanced the opener at start, if any, and every opener after it must be closed before a terminator is accepted.
func FindLoopEnd(text []byte, start int, matching Matching) (int, bool) {
	if start < 0 || start >= len(text) {
		return 0, false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case loopOpen:
			depth++
		case loopClose:
			if matching == MatchFirst {
				return i, true
			}
			depth--
			if depth <= 0 {
				return i, true
			}
		}
	}
	return 0, false
}
