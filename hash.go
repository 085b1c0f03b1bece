package polyglot

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives the cache key for a translation request. It covers the
// text and every parameter that can change the service's output, so two
// requests share a key exactly when their results are interchangeable.
func Fingerprint(text string, p TranslateParams) string {
	h := sha256.New()
	for _, part := range []string{
		text,
		p.TargetLang,
		p.SourceLang,
		string(p.Formality),
		p.GlossaryID,
		string(p.ModelType),
		string(p.TagHandling),
		p.SplitSentences,
		boolField(p.PreserveFormatting),
		p.Context,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0}) // field separator, prevents boundary collisions
	}
	return hex.EncodeToString(h.Sum(nil))
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
