// Package tokenizer implements the byte-level BPE engine: the rank table
// (C1), Unicode-aware pre-tokenizer (C2), heap-based piece encoder (C3),
// special-token splitter (C4), unstable-suffix completion engine (C5) and
// batch executor (C6) that the root tiktoken package's Encoding facade
// wraps. Everything here is immutable once constructed and safe for
// concurrent use.
package tokenizer

// EncodingDef is the constructor-time description of one encoding: its
// vocabulary, special tokens and split pattern. Concrete definitions for
// the encodings this module ships (gpt2, cl100k_base, o200k_base, ...) live
// in the ext package, analogous to tiktoken_ext/openai_public.py.
type EncodingDef struct {
	Name           string
	Pattern        string
	MergeableRanks []RankPair
	SpecialTokens  map[string]Rank
	ExplicitNVocab int // 0 means unchecked
}

// New builds a Core from an EncodingDef, validating ExplicitNVocab when set.
func New(def EncodingDef) (*Core, error) {
	seg, err := NewSegmenter(def.Pattern)
	if err != nil {
		return nil, err
	}
	core, err := NewCore(def.MergeableRanks, def.SpecialTokens, seg)
	if err != nil {
		return nil, err
	}
	if def.ExplicitNVocab != 0 {
		got := len(def.MergeableRanks) + len(def.SpecialTokens)
		if got != def.ExplicitNVocab {
			return nil, explicitNVocabError(def.Name, def.ExplicitNVocab, got)
		}
		if int(core.MaxTokenValue())+1 != def.ExplicitNVocab {
			return nil, explicitNVocabError(def.Name, def.ExplicitNVocab, int(core.MaxTokenValue())+1)
		}
	}
	return core, nil
}

type nVocabError struct {
	Name string
	Want int
	Got  int
}

func (e *nVocabError) Error() string {
	return e.Name + ": explicit_n_vocab mismatch"
}

func explicitNVocabError(name string, want, got int) error {
	return &nVocabError{Name: name, Want: want, Got: got}
}
