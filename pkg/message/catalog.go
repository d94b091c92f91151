package message

import (
	"errors"
	"strings"

	"golang.org/x/text/language"

	"github.com/goliatone/go-stepform/pkg/validation"
)

// Key identifies one of the generic messages the resolver can emit.
type Key string

const (
	KeyInvalid      Key = "invalid"
	KeyMismatch     Key = "mismatch"
	KeySubmitted    Key = "submitted"
	KeySubmitFailed Key = "submitFailed"
)

const (
	defaultLocale     = "en"
	translationPrefix = "stepform."
)

// ErrMissingTranslator is passed to the missing-translation handler when a
// catalog has no translator configured.
var ErrMissingTranslator = errors.New("message: translator not configured")

// Translator resolves a translation key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a translator cannot
// resolve key. fallback is the catalog's own text for the key.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// Messages holds the generic texts plus code-specific overrides for a locale.
type Messages struct {
	Invalid      string                     `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Mismatch     string                     `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
	Submitted    string                     `json:"submitted,omitempty" yaml:"submitted,omitempty"`
	SubmitFailed string                     `json:"submitFailed,omitempty" yaml:"submitFailed,omitempty"`
	Codes        map[validation.Code]string `json:"codes,omitempty" yaml:"codes,omitempty"`
}

var builtin = map[string]Messages{
	"en": {
		Invalid:      "invalid value",
		Mismatch:     "values do not match",
		Submitted:    "Your data has been submitted.",
		SubmitFailed: "Submission failed. Please try again.",
	},
	"de": {
		Invalid:      "Ungültige Eingabe",
		Mismatch:     "Die Werte stimmen nicht überein.",
		Submitted:    "Ihre Daten wurden übermittelt.",
		SubmitFailed: "Übermittlung fehlgeschlagen. Bitte versuchen Sie es erneut.",
	},
}

// Catalog resolves message texts for a single locale.
type Catalog struct {
	locale     string
	messages   Messages
	translator Translator
	onMissing  MissingTranslationHandler
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithMessages overlays texts on top of the built-in defaults. Empty strings
// keep the default.
func WithMessages(m Messages) CatalogOption {
	return func(c *Catalog) {
		if strings.TrimSpace(m.Invalid) != "" {
			c.messages.Invalid = m.Invalid
		}
		if strings.TrimSpace(m.Mismatch) != "" {
			c.messages.Mismatch = m.Mismatch
		}
		if strings.TrimSpace(m.Submitted) != "" {
			c.messages.Submitted = m.Submitted
		}
		if strings.TrimSpace(m.SubmitFailed) != "" {
			c.messages.SubmitFailed = m.SubmitFailed
		}
		for code, text := range m.Codes {
			if strings.TrimSpace(text) == "" {
				continue
			}
			if c.messages.Codes == nil {
				c.messages.Codes = make(map[validation.Code]string)
			}
			c.messages.Codes[code] = text
		}
	}
}

// WithTranslator routes lookups through t before falling back to the
// catalog texts. Keys are "stepform.invalid", "stepform.mismatch" and
// "stepform.codes.<code>".
func WithTranslator(t Translator) CatalogOption {
	return func(c *Catalog) {
		c.translator = t
	}
}

// WithMissingTranslationHandler overrides how translator misses are handled.
func WithMissingTranslationHandler(fn MissingTranslationHandler) CatalogOption {
	return func(c *Catalog) {
		if fn != nil {
			c.onMissing = fn
		}
	}
}

// NewCatalog builds a catalog for locale. Regional tags fall back to their
// base language ("de-DE" uses "de"); unknown languages use English.
func NewCatalog(locale string, options ...CatalogOption) *Catalog {
	base := BaseLocale(locale)
	defaults, ok := builtin[base]
	if !ok {
		defaults = builtin[defaultLocale]
	}

	c := &Catalog{
		locale:    base,
		messages:  defaults,
		onMissing: keepFallback,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// BaseLocale normalises a BCP 47 tag to its base language.
func BaseLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return defaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return defaultLocale
	}
	base, _ := tag.Base()
	return base.String()
}

// Locale returns the base language of the catalog.
func (c *Catalog) Locale() string { return c.locale }

// Text returns the generic message for key.
func (c *Catalog) Text(key Key) string {
	var fallback string
	switch key {
	case KeyInvalid:
		fallback = c.messages.Invalid
	case KeyMismatch:
		fallback = c.messages.Mismatch
	case KeySubmitted:
		fallback = c.messages.Submitted
	case KeySubmitFailed:
		fallback = c.messages.SubmitFailed
	}
	return c.translate(translationPrefix+string(key), fallback)
}

// HasCode reports whether a code-specific message exists.
func (c *Catalog) HasCode(code validation.Code) bool {
	_, ok := c.messages.Codes[code]
	return ok
}

// CodeText returns the code-specific message, or "" when none is defined.
func (c *Catalog) CodeText(code validation.Code) string {
	text, ok := c.messages.Codes[code]
	if !ok {
		return ""
	}
	return c.translate(translationPrefix+"codes."+string(code), text)
}

func (c *Catalog) translate(key, fallback string) string {
	if c.translator == nil {
		return c.onMissing(c.locale, key, fallback, ErrMissingTranslator)
	}
	result, err := c.translator.Translate(c.locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if err == nil {
		err = errors.New("message: empty translation")
	}
	return c.onMissing(c.locale, key, fallback, err)
}

func keepFallback(_, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
