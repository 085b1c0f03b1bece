package polyglot

import "strings"

// LanguageNames maps service language codes to human-readable names for CLI
// output. The authoritative list comes from the service's language endpoint;
// this table only decorates codes the endpoint does not need to be asked
// about.
var LanguageNames = map[string]string{
	"BG":    "Bulgarian",
	"CS":    "Czech",
	"DA":    "Danish",
	"DE":    "German",
	"EL":    "Greek",
	"EN":    "English",
	"EN-GB": "English (British)",
	"EN-US": "English (American)",
	"ES":    "Spanish",
	"ET":    "Estonian",
	"FI":    "Finnish",
	"FR":    "French",
	"HU":    "Hungarian",
	"ID":    "Indonesian",
	"IT":    "Italian",
	"JA":    "Japanese",
	"KO":    "Korean",
	"LT":    "Lithuanian",
	"LV":    "Latvian",
	"NB":    "Norwegian Bokmål",
	"NL":    "Dutch",
	"PL":    "Polish",
	"PT":    "Portuguese",
	"PT-BR": "Portuguese (Brazilian)",
	"PT-PT": "Portuguese (European)",
	"RO":    "Romanian",
	"RU":    "Russian",
	"SK":    "Slovak",
	"SL":    "Slovenian",
	"SV":    "Swedish",
	"TR":    "Turkish",
	"UK":    "Ukrainian",
	"ZH":    "Chinese (Simplified)",
}

// formalityLanguages lists base language codes whose translations honor the
// formality parameter.
var formalityLanguages = map[string]bool{
	"DE": true,
	"ES": true,
	"FR": true,
	"IT": true,
	"JA": true,
	"NL": true,
	"PL": true,
	"PT": true,
	"RU": true,
}

// LanguageName returns the display name for a language code, or the
// normalized code itself when unknown.
func LanguageName(code string) string {
	norm := NormalizeLangCode(code)
	if name, ok := LanguageNames[norm]; ok {
		return name
	}
	return norm
}

// SupportsFormality reports whether translations into the given language
// honor the formality parameter. This is a client-side hint for nicer CLI
// warnings; the service is the authority.
func SupportsFormality(code string) bool {
	base := NormalizeLangCode(code)
	if i := strings.Index(base, "-"); i > 0 {
		base = base[:i]
	}
	return formalityLanguages[base]
}

// NormalizeLangCode upper-cases a language code and converts underscore
// regional separators to the service's dashed form ("pt_br" -> "PT-BR").
func NormalizeLangCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}
