// Package polyglot is a client library for a remote text-translation
// service. It combines a persistent, size-bounded translation cache with a
// retrying request layer so that repeated translations of the same text and
// parameters never hit the network twice.
//
// Basic usage:
//
//	client := api.NewClient(os.Getenv("POLYGLOT_API_KEY"))
//	store, _ := cache.NewSQLiteCache(cache.SQLiteConfig{Path: "polyglot.db"})
//	t := polyglot.NewTranslator(client, polyglot.WithCache(store))
//
//	result, err := t.Translate(ctx, "Hello World", polyglot.TranslateParams{
//	    TargetLang: "ES",
//	})
package polyglot

// Formality controls the register of the translated text.
type Formality string

const (
	// FormalityDefault lets the service pick the register.
	FormalityDefault Formality = ""
	// FormalityMore requests a more formal register.
	FormalityMore Formality = "more"
	// FormalityLess requests a more casual register.
	FormalityLess Formality = "less"
	// FormalityPreferMore requests a formal register but falls back to the
	// default for languages that do not support formality.
	FormalityPreferMore Formality = "prefer_more"
	// FormalityPreferLess requests a casual register with the same fallback.
	FormalityPreferLess Formality = "prefer_less"
)

// ModelType selects the translation model family.
type ModelType string

const (
	// ModelDefault lets the service pick the model.
	ModelDefault ModelType = ""
	// ModelQuality prefers translation quality over latency.
	ModelQuality ModelType = "quality_optimized"
	// ModelLatency prefers low latency over quality.
	ModelLatency ModelType = "latency_optimized"
)

// TagHandling tells the service how to treat markup in the input.
type TagHandling string

const (
	// TagHandlingNone treats the input as plain text.
	TagHandlingNone TagHandling = ""
	// TagHandlingHTML preserves HTML markup in the output.
	TagHandlingHTML TagHandling = "html"
	// TagHandlingXML preserves XML markup in the output.
	TagHandlingXML TagHandling = "xml"
)

// TranslateParams holds every request parameter that affects the translated
// output. All fields participate in the cache fingerprint.
type TranslateParams struct {
	TargetLang         string      // Target language code (e.g. "ES", "PT-BR")
	SourceLang         string      // Source language code ("" = auto-detect)
	Formality          Formality   // Register of the output
	GlossaryID         string      // Server-side glossary to apply
	ModelType          ModelType   // Model family
	TagHandling        TagHandling // Markup treatment
	SplitSentences     string      // Sentence splitting mode ("", "0", "1", "nonewlines")
	PreserveFormatting bool        // Keep original formatting markers
	Context            string      // Disambiguation context (not translated)
}

// Translation is the result of translating one text.
type Translation struct {
	Text               string `json:"text"`
	TargetLang         string `json:"target_lang"`
	DetectedSourceLang string `json:"detected_source_lang,omitempty"`
	// Cached marks results served from the local cache rather than the
	// service. Never persisted: a cached entry is re-marked on every hit.
	Cached bool `json:"-"`
}

// Usage reports account consumption against the plan limit.
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

// Language describes one language supported by the service.
type Language struct {
	Code              string `json:"language"`
	Name              string `json:"name"`
	SupportsFormality bool   `json:"supports_formality,omitempty"`
}

// GlossaryInfo describes a server-side glossary.
type GlossaryInfo struct {
	ID         string `json:"glossary_id"`
	Name       string `json:"name"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	EntryCount int    `json:"entry_count"`
	CreatedAt  string `json:"creation_time,omitempty"`
}
