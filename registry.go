package tiktoken

import (
	"errors"
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aurorabpe/tiktoken/tokenizer"
)

// registry is the process-wide name -> Encoding memoization table
// (component C8's external collaborator). Construction functions are
// registered once at init time by the ext package; GetEncoding builds and
// caches the Encoding on first request.
//
// Grounded on registry.py's module-level ENCODINGS dict guarded by a lock,
// generalized from a plain map to go-ordered-map/v2 so ListEncodingNames
// reflects registration order without a second sort pass.
var (
	registryMu      sync.RWMutex
	constructors    = orderedmap.New[string, func() (EncodingArgs, error)]()
	builtEncodings  = make(map[string]*Encoding)
)

// RegisterEncoding registers a lazy constructor for name. Re-registering an
// existing name is a programmer error and panics immediately, matching
// registry.py's ValueError-on-duplicate-name contract translated to Go's
// fail-fast-at-init idiom (ext's init() functions call this at package
// load, where a panic surfaces immediately rather than silently shadowing
// an existing encoding).
func RegisterEncoding(name string, build func() (EncodingArgs, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := constructors.Get(name); exists {
		panic(fmt.Sprintf("tiktoken: encoding %q already registered", name))
	}
	constructors.Set(name, build)
}

// GetEncoding returns the named encoding, building and caching it on first
// request.
func GetEncoding(name string) (*Encoding, error) {
	registryMu.RLock()
	if enc, ok := builtEncodings[name]; ok {
		registryMu.RUnlock()
		return enc, nil
	}
	build, ok := constructors.Get(name)
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownEncodingError{Name: name}
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if enc, ok := builtEncodings[name]; ok {
		return enc, nil
	}
	args, err := build()
	if err != nil {
		return nil, translateLoadError(err)
	}
	enc, err := NewEncoding(args)
	if err != nil {
		return nil, err
	}
	enc.registeredArgs = nil // built via the registry: GobEncode serializes by name
	builtEncodings[name] = enc
	return enc, nil
}

// translateLoadError converts a *tokenizer.LoadError surfaced by a
// constructor's build() call into the exported HashMismatchError/IOError
// types, the one place that translation happens (constructors never see
// the root package's error types, since tokenizer can't import tiktoken).
// Errors that aren't a *tokenizer.LoadError (e.g. a NewEncoding validation
// failure) pass through unchanged.
func translateLoadError(err error) error {
	var le *tokenizer.LoadError
	if !errors.As(err, &le) {
		return err
	}
	if le.Kind == "hash" {
		return &HashMismatchError{URI: le.URI, Expected: le.Want, Actual: le.Got}
	}
	return &IOError{URI: le.URI, Err: le.Err}
}

// registryLookup is GetEncoding's internal counterpart used by GobDecode: it
// returns UnknownEncodingError for a name that was never registered, and
// resolves any registered name, building it via GetEncoding if it has not
// been built yet.
func registryLookup(name string) (*Encoding, error) {
	registryMu.RLock()
	if enc, ok := builtEncodings[name]; ok {
		registryMu.RUnlock()
		return enc, nil
	}
	_, ok := constructors.Get(name)
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownEncodingError{Name: name}
	}
	return GetEncoding(name)
}

// ListEncodingNames returns every registered encoding name, in
// registration order.
func ListEncodingNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, constructors.Len())
	for pair := constructors.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
