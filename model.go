package tiktoken

import "strings"

// modelToEncoding is the exact-match model name table (the Go analogue of
// tiktoken's model_to_encoding.json), checked before any prefix matching.
var modelToEncoding = map[string]string{
	"gpt2":             "gpt2",
	"text-davinci-003": "p50k_base",
	"text-davinci-002": "p50k_base",
	"text-davinci-001": "r50k_base",
	"davinci":          "r50k_base",
	"curie":            "r50k_base",
	"babbage":          "r50k_base",
	"ada":              "r50k_base",
	"code-davinci-002": "p50k_base",
	"code-davinci-001": "p50k_base",
	"code-cushman-002": "p50k_base",
	"code-cushman-001": "p50k_base",
	"text-embedding-ada-002": "cl100k_base",
	"text-embedding-3-small": "cl100k_base",
	"text-embedding-3-large": "cl100k_base",
}

// modelPrefixToEncoding is checked, longest prefix first, when no exact
// name match is found — covers dated/suffixed model names such as
// "gpt-4-0314" or "gpt-4o-mini-2024-07-18" that aren't worth enumerating
// individually.
var modelPrefixToEncoding = []struct {
	prefix   string
	encoding string
}{
	{"o1-", "o200k_base"},
	{"o3-", "o200k_base"},
	{"gpt-5", "o200k_base"},
	{"gpt-4o", "o200k_base"},
	{"gpt-4-", "cl100k_base"},
	{"gpt-4", "cl100k_base"},
	{"gpt-3.5-turbo", "cl100k_base"},
	{"gpt-35-turbo", "cl100k_base"}, // Azure's naming
	{"text-embedding", "cl100k_base"},
}

// EncodingForModel resolves a model name to its Encoding, checking an exact
// name match first and then the longest matching known prefix, matching
// the reference library's encoding_for_model.
func EncodingForModel(modelName string) (*Encoding, error) {
	if name, ok := modelToEncoding[modelName]; ok {
		return GetEncoding(name)
	}
	best := ""
	bestLen := -1
	for _, p := range modelPrefixToEncoding {
		if strings.HasPrefix(modelName, p.prefix) && len(p.prefix) > bestLen {
			best = p.encoding
			bestLen = len(p.prefix)
		}
	}
	if bestLen >= 0 {
		return GetEncoding(best)
	}
	return nil, &UnknownModelError{Model: modelName}
}
