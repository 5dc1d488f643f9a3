package transcript

import (
	"fmt"
	"strings"

	"github.com/kbukum/voicy/chat"
)

// Locale selects the promo text variant.
type Locale string

const (
	LocaleRussian Locale = "ru"
	LocaleDefault Locale = "default"
)

// Classifier picks the promo locale for a chat.
type Classifier func(chat.Snapshot) Locale

// RussianClassifier treats a chat as Russian when its engine locale is Russian.
func RussianClassifier(s chat.Snapshot) Locale {
	if strings.HasPrefix(strings.ToLower(s.EngineLanguage()), "ru") {
		return LocaleRussian
	}
	return LocaleDefault
}

// PromoConfig is the fixed promo setup loaded at startup.
type PromoConfig struct {
	ExemptChats []int64 `yaml:"exempt_chats" mapstructure:"exempt_chats"`
	// Texts is keyed by Locale; the "default" entry is the fallback.
	Texts map[string]string `yaml:"texts" mapstructure:"texts"`
}

// DefaultPromoTexts are used for locales the configuration does not mention.
var DefaultPromoTexts = map[string]string{
	string(LocaleDefault): "Powered by @voicybot",
	string(LocaleRussian): "Распознано ботом @voicybot",
}

// ApplyDefaults fills in missing promo texts. An entry set to "" stays empty
// and turns the suffix off for that locale.
func (c *PromoConfig) ApplyDefaults() {
	if c.Texts == nil {
		c.Texts = make(map[string]string, len(DefaultPromoTexts))
	}
	for locale, text := range DefaultPromoTexts {
		if _, ok := c.Texts[locale]; !ok {
			c.Texts[locale] = text
		}
	}
}

// Formatter builds stored and displayed text from segments. It is immutable
// and safe for concurrent use.
type Formatter struct {
	exempt   map[int64]struct{}
	texts    map[Locale]string
	classify Classifier
}

// NewFormatter creates a Formatter. A nil classifier uses RussianClassifier.
func NewFormatter(cfg PromoConfig, classify Classifier) *Formatter {
	if classify == nil {
		classify = RussianClassifier
	}
	f := &Formatter{
		exempt:   make(map[int64]struct{}, len(cfg.ExemptChats)),
		texts:    make(map[Locale]string, len(cfg.Texts)),
		classify: classify,
	}
	for _, id := range cfg.ExemptChats {
		f.exempt[id] = struct{}{}
	}
	for k, v := range cfg.Texts {
		f.texts[Locale(k)] = v
	}
	return f
}

// Aggregate joins the trimmed, non-empty segment texts with ". ".
func (f *Formatter) Aggregate(segments []chat.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ". ")
}

// Display returns the text shown to the chat, promo included.
func (f *Formatter) Display(segments []chat.Segment, s chat.Snapshot) string {
	var text string
	if s.Timecodes {
		lines := make([]string, len(segments))
		for i, seg := range segments {
			lines[i] = seg.Timecode + ":\n" + seg.Text
		}
		text = strings.Join(lines, "\n")
	} else {
		text = f.Aggregate(segments)
	}

	if text == "" || f.Exempt(s.ID) {
		return text
	}
	if promo := f.Promo(s); promo != "" {
		text += "\n" + promo
	}
	return text
}

// Exempt reports whether the chat never gets the promo suffix.
func (f *Formatter) Exempt(chatID int64) bool {
	_, ok := f.exempt[chatID]
	return ok
}

// Promo returns the promo text for the chat's locale.
func (f *Formatter) Promo(s chat.Snapshot) string {
	if text, ok := f.texts[f.classify(s)]; ok {
		return text
	}
	return f.texts[LocaleDefault]
}

// Timecode renders a second offset as m:ss, or h:mm:ss from one hour on.
func Timecode(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, sec := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
