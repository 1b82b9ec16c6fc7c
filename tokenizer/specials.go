package tokenizer

// specialTable holds the special-token literal<->rank maps (component C4's
// data) plus the bookkeeping needed to scan for them in input text.
type specialTable struct {
	enc map[string]Rank
	dec map[Rank][]byte
}

func newSpecialTable(specials map[string]Rank) *specialTable {
	enc := make(map[string]Rank, len(specials))
	dec := make(map[Rank][]byte, len(specials))
	for lit, r := range specials {
		enc[lit] = r
		dec[r] = []byte(lit)
	}
	return &specialTable{enc: enc, dec: dec}
}

// matchAt returns the rank and byte length of the longest special-token
// literal in allowed that occurs at text[i:], or (0, 0) if none match.
// Longest-match-first guards against one special token being a prefix of
// another, though none of the vocabularies this module ships have that
// property.
func (s *specialTable) matchAt(text string, i int, allowed map[string]struct{}) (Rank, int) {
	remaining := len(text) - i
	maxLen := 0
	var id Rank
	for lit, tok := range s.enc {
		if len(lit) > remaining || len(lit) <= maxLen {
			continue
		}
		if _, ok := allowed[lit]; !ok {
			continue
		}
		if text[i:i+len(lit)] == lit {
			maxLen = len(lit)
			id = tok
		}
	}
	if maxLen == 0 {
		return 0, 0
	}
	return id, maxLen
}

// findDisallowed scans the whole text for the first occurrence of any
// literal in disallowed, returning its name and byte offset.
// It runs independent of how far ordinary encoding has progressed, per the
// facade's disallowed-detection contract.
func (s *specialTable) findDisallowed(text string, disallowed map[string]struct{}) (name string, offset int, found bool) {
	if len(disallowed) == 0 {
		return "", 0, false
	}
	bestOffset := -1
	bestLit := ""
	for lit := range s.enc {
		if _, ok := disallowed[lit]; !ok {
			continue
		}
		if idx := indexString(text, lit); idx >= 0 {
			if bestOffset == -1 || idx < bestOffset {
				bestOffset = idx
				bestLit = lit
			}
		}
	}
	if bestOffset == -1 {
		return "", 0, false
	}
	return bestLit, bestOffset, true
}

func indexString(s, sub string) int {
	if len(sub) == 0 {
		return -1
	}
	n := len(s) - len(sub)
	for i := 0; i <= n; i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// AllLiterals returns every special-token literal in the table, used to
// build the "all" policy set in the facade.
func (s *specialTable) AllLiterals() map[string]struct{} {
	out := make(map[string]struct{}, len(s.enc))
	for lit := range s.enc {
		out[lit] = struct{}{}
	}
	return out
}

// RankOf looks up a special token literal.
func (s *specialTable) RankOf(lit string) (Rank, bool) {
	r, ok := s.enc[lit]
	return r, ok
}

// BytesOf looks up a special token's literal bytes by rank.
func (s *specialTable) BytesOf(r Rank) ([]byte, bool) {
	b, ok := s.dec[r]
	return b, ok
}
