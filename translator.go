package polyglot

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Service is the interface to the remote translation backend. Implementations
// perform exactly one attempt per call; retries live in the Translator.
type Service interface {
	Translate(ctx context.Context, texts []string, params TranslateParams) ([]Translation, error)
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached value. Returns nil and false if absent,
	// expired, or unreadable.
	Get(key string) (json.RawMessage, bool)

	// Set stores a JSON-serializable value in the cache.
	Set(key string, value any) error
}

// Translator orchestrates cache and service: look up the request fingerprint,
// serve hits locally, and on a miss call the service (with retries) and
// populate the cache. Failed calls are never cached.
type Translator struct {
	service Service
	cache   TranslationCache
	retry   RetryConfig
	logger  *slog.Logger
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg RetryConfig) TranslatorOption {
	return func(t *Translator) {
		t.retry = cfg
	}
}

// WithLogger sets the logger used for cache and retry diagnostics.
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// NewTranslator creates a Translator backed by the given service.
func NewTranslator(service Service, opts ...TranslatorOption) *Translator {
	t := &Translator{
		service: service,
		retry:   DefaultRetryConfig(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate translates a single text.
func (t *Translator) Translate(ctx context.Context, text string, params TranslateParams) (*Translation, error) {
	key := Fingerprint(text, params)

	if cached, ok := t.cacheGet(key); ok {
		return cached, nil
	}

	results, err := WithRetry(ctx, t.retry, func(ctx context.Context) ([]Translation, error) {
		return t.service.Translate(ctx, []string{text}, params)
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &RequestError{Kind: KindMalformed, Message: "service returned no translations"}
	}

	tr := results[0]
	t.cacheSet(key, tr)
	return &tr, nil
}

// TranslateBatch translates several texts in one request, serving as many as
// possible from the cache and sending only the misses to the service.
// Results are returned in input order.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, params TranslateParams) ([]Translation, error) {
	results := make([]Translation, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		key := Fingerprint(text, params)
		if cached, ok := t.cacheGet(key); ok {
			results[i] = *cached
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	fresh, err := WithRetry(ctx, t.retry, func(ctx context.Context) ([]Translation, error) {
		return t.service.Translate(ctx, missTexts, params)
	})
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, &RequestError{
			Kind:    KindMalformed,
			Message: "translation count mismatch",
		}
	}

	for j, i := range missIdx {
		results[i] = fresh[j]
		t.cacheSet(Fingerprint(texts[i], params), fresh[j])
	}

	return results, nil
}

// TranslateToMultiple translates one text to several target languages. Each
// target gets its own cache lookup and, on a miss, its own service call.
// The first failure aborts the fan-out and is returned unchanged.
func (t *Translator) TranslateToMultiple(ctx context.Context, text string, params TranslateParams, targets []string) (map[string]*Translation, error) {
	results := make(map[string]*Translation, len(targets))

	for _, target := range targets {
		p := params
		p.TargetLang = target

		tr, err := t.Translate(ctx, text, p)
		if err != nil {
			return nil, err
		}
		results[target] = tr
	}

	return results, nil
}

// cacheGet looks up a fingerprint and deserializes the hit. A hit that no
// longer unmarshals is treated as a miss.
func (t *Translator) cacheGet(key string) (*Translation, bool) {
	if t.cache == nil {
		return nil, false
	}

	raw, ok := t.cache.Get(key)
	if !ok || raw == nil {
		return nil, false
	}

	var tr Translation
	if err := json.Unmarshal(raw, &tr); err != nil {
		t.logger.Debug("discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}

	tr.Cached = true
	return &tr, true
}

func (t *Translator) cacheSet(key string, tr Translation) {
	if t.cache == nil {
		return
	}
	if err := t.cache.Set(key, tr); err != nil {
		// Cache failures never fail the translation.
		t.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
