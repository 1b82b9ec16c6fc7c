package tiktoken

import "github.com/aurorabpe/tiktoken/tokenizer"

func fixtureArgs(name string) EncodingArgs {
	ranks := make([]tokenizer.RankPair, 256)
	for b := 0; b < 256; b++ {
		ranks[b] = tokenizer.RankPair{Bytes: []byte{byte(b)}, Rank: tokenizer.Rank(b)}
	}
	ranks = append(ranks,
		tokenizer.RankPair{Bytes: []byte("he"), Rank: 256},
		tokenizer.RankPair{Bytes: []byte("ll"), Rank: 257},
	)
	return EncodingArgs{
		Name:           name,
		Pattern:        tokenizer.PatternGPT2,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]tokenizer.Rank{"<|endoftext|>": 258},
	}
}
