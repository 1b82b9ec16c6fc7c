// Package ext registers the public OpenAI encodings (gpt2, r50k_base,
// p50k_base, p50k_edit, cl100k_base, o200k_base) with the root package's
// registry, the same way tiktoken_ext/openai_public.py supplies
// ENCODING_CONSTRUCTORS as a plugin module imported for its side effects.
// Importing this package for side effects (`import _ ".../ext"`) is what
// makes GetEncoding/EncodingForModel resolve these names.
package ext

import (
	"os"

	"github.com/aurorabpe/tiktoken"
	"github.com/aurorabpe/tiktoken/tokenizer"
)

const (
	endOfText   = "<|endoftext|>"
	fimPrefix   = "<|fim_prefix|>"
	fimMiddle   = "<|fim_middle|>"
	fimSuffix   = "<|fim_suffix|>"
	endOfPrompt = "<|endofprompt|>"
)

// encodingsHost mirrors ENCODINGS_HOST: the public blob host the reference
// library fetches vocab files from, overridable for self-hosted mirrors.
func encodingsHost() string {
	if v := os.Getenv("ENCODINGS_HOST"); v != "" {
		return v
	}
	return "https://openaipublic.blob.core.windows.net"
}

func init() {
	tiktoken.RegisterEncoding("gpt2", buildGPT2)
	tiktoken.RegisterEncoding("r50k_base", buildR50kBase)
	tiktoken.RegisterEncoding("p50k_base", buildP50kBase)
	tiktoken.RegisterEncoding("p50k_edit", buildP50kEdit)
	tiktoken.RegisterEncoding("cl100k_base", buildCL100kBase)
	tiktoken.RegisterEncoding("o200k_base", buildO200kBase)
}

func buildGPT2() (tiktoken.EncodingArgs, error) {
	host := encodingsHost()
	ranks, err := tokenizer.DataGymToMergeableBPERanks(
		host+"/gpt-2/encodings/main/vocab.bpe",
		host+"/gpt-2/encodings/main/encoder.json",
		"1ce1664773c50f3e0cc8842619a93edc4624525b728b188a9e0be33b7726adc5",
		"196139668be63f3b5d6574427317ae82f612a97c5d1cdaf36ed2256dbf636783",
	)
	if err != nil {
		return tiktoken.EncodingArgs{}, err
	}
	return tiktoken.EncodingArgs{
		Name:           "gpt2",
		Pattern:        tokenizer.PatternGPT2,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]tokenizer.Rank{endOfText: 50256},
		ExplicitNVocab: 50257,
	}, nil
}

func buildR50kBase() (tiktoken.EncodingArgs, error) {
	host := encodingsHost()
	ranks, err := tokenizer.LoadTiktokenBPE(
		host+"/encodings/r50k_base.tiktoken",
		"306cd27f03c1a714eca7108e03d66b7dc042abe8c258b44c199a7ed9838dd930",
	)
	if err != nil {
		return tiktoken.EncodingArgs{}, err
	}
	return tiktoken.EncodingArgs{
		Name:           "r50k_base",
		Pattern:        tokenizer.PatternGPT2,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]tokenizer.Rank{endOfText: 50256},
		ExplicitNVocab: 50257,
	}, nil
}

func buildP50kBase() (tiktoken.EncodingArgs, error) {
	host := encodingsHost()
	ranks, err := tokenizer.LoadTiktokenBPE(
		host+"/encodings/p50k_base.tiktoken",
		"94b5ca7dff4d00767bc256fdd1b27e5b17361d7b8a5f968547f9f23eb70d2069",
	)
	if err != nil {
		return tiktoken.EncodingArgs{}, err
	}
	return tiktoken.EncodingArgs{
		Name:           "p50k_base",
		Pattern:        tokenizer.PatternGPT2,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]tokenizer.Rank{endOfText: 50256},
		ExplicitNVocab: 50281,
	}, nil
}

func buildP50kEdit() (tiktoken.EncodingArgs, error) {
	host := encodingsHost()
	ranks, err := tokenizer.LoadTiktokenBPE(
		host+"/encodings/p50k_base.tiktoken",
		"94b5ca7dff4d00767bc256fdd1b27e5b17361d7b8a5f968547f9f23eb70d2069",
	)
	if err != nil {
		return tiktoken.EncodingArgs{}, err
	}
	return tiktoken.EncodingArgs{
		Name:    "p50k_edit",
		Pattern: tokenizer.PatternGPT2,
		MergeableRanks: ranks,
		SpecialTokens: map[string]tokenizer.Rank{
			endOfText: 50256,
			fimPrefix: 50281,
			fimMiddle: 50282,
			fimSuffix: 50283,
		},
	}, nil
}

func buildCL100kBase() (tiktoken.EncodingArgs, error) {
	host := encodingsHost()
	ranks, err := tokenizer.LoadTiktokenBPE(
		host+"/encodings/cl100k_base.tiktoken",
		"223921b76ee99bde995b7ff738513eef100fb51d18c93597a113bcffe865b2a7",
	)
	if err != nil {
		return tiktoken.EncodingArgs{}, err
	}
	return tiktoken.EncodingArgs{
		Name:    "cl100k_base",
		Pattern: tokenizer.PatternCL100K,
		MergeableRanks: ranks,
		SpecialTokens: map[string]tokenizer.Rank{
			endOfText:   100257,
			fimPrefix:   100258,
			fimMiddle:   100259,
			fimSuffix:   100260,
			endOfPrompt: 100276,
		},
	}, nil
}

func buildO200kBase() (tiktoken.EncodingArgs, error) {
	ranks, err := tokenizer.LoadTiktokenBPE(
		"https://openaipublic.blob.core.windows.net/encodings/o200k_base.tiktoken",
		"446a9538cb6c348e3516120d7c08b09f57c36495e2acfffe59a5bf8b0cfb1a2d",
	)
	if err != nil {
		return tiktoken.EncodingArgs{}, err
	}
	return tiktoken.EncodingArgs{
		Name:    "o200k_base",
		Pattern: tokenizer.PatternO200K,
		MergeableRanks: ranks,
		SpecialTokens: map[string]tokenizer.Rank{
			endOfText:   199999,
			endOfPrompt: 200018,
		},
	}, nil
}
