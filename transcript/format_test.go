package transcript

import (
	"strings"
	"testing"

	"github.com/kbukum/voicy/chat"
)

const promoText = "Powered by @voicybot"

func newTestFormatter(exempt ...int64) *Formatter {
	return NewFormatter(PromoConfig{
		ExemptChats: exempt,
		Texts: map[string]string{
			string(LocaleDefault): promoText,
			string(LocaleRussian): promoText,
		},
	}, nil)
}

func TestAggregate(t *testing.T) {
	f := newTestFormatter()
	tests := []struct {
		name     string
		segments []chat.Segment
		want     string
	}{
		{"no segments", nil, ""},
		{"trims and drops empty", []chat.Segment{{Timecode: "0:00", Text: "hello "}, {Timecode: "0:05", Text: ""}}, "hello"},
		{"joins with period", []chat.Segment{{Timecode: "0:00", Text: " one"}, {Timecode: "0:05", Text: "   "}, {Timecode: "0:10", Text: "two "}}, "one. two"},
		{"all empty", []chat.Segment{{Timecode: "0:00", Text: " "}, {Timecode: "0:05", Text: "\n"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Aggregate(tt.segments); got != tt.want {
				t.Errorf("Aggregate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate_NoConsecutiveSeparators(t *testing.T) {
	f := newTestFormatter()
	segments := []chat.Segment{{Timecode: "", Text: "a"}, {Timecode: "", Text: ""}, {Timecode: "", Text: "  "}, {Timecode: "", Text: "b"}, {Timecode: "", Text: "\t"}, {Timecode: "", Text: "c"}}
	got := f.Aggregate(segments)
	if strings.Contains(got, ". . ") || strings.HasPrefix(got, ". ") || strings.HasSuffix(got, ". ") {
		t.Errorf("unexpected separators in %q", got)
	}
	if got != "a. b. c" {
		t.Errorf("Aggregate() = %q", got)
	}
}

func TestDisplay_Timecodes(t *testing.T) {
	f := newTestFormatter(1)
	segments := []chat.Segment{{Timecode: "0:00", Text: "hello"}, {Timecode: "0:05", Text: ""}, {Timecode: "0:10", Text: "world"}}
	got := f.Display(segments, chat.Snapshot{ID: 1, Timecodes: true})
	want := "0:00:\nhello\n0:05:\n\n0:10:\nworld"
	if got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}

func TestDisplay_PromoSuffix(t *testing.T) {
	f := newTestFormatter(100, 200)
	segments := []chat.Segment{{Timecode: "0:00", Text: "hello "}, {Timecode: "0:05", Text: ""}}

	tests := []struct {
		name string
		snap chat.Snapshot
		want string
	}{
		{"regular chat", chat.Snapshot{ID: 1}, "hello\n" + promoText},
		{"exempt chat", chat.Snapshot{ID: 100}, "hello"},
		{"other exempt chat", chat.Snapshot{ID: 200, Timecodes: true}, "0:00:\nhello \n0:05:\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Display(segments, tt.snap); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplay_EmptyTextHasNoPromo(t *testing.T) {
	f := newTestFormatter()
	if got := f.Display([]chat.Segment{{Timecode: "0:00", Text: "  "}}, chat.Snapshot{ID: 5}); got != "" {
		t.Errorf("expected empty display, got %q", got)
	}
}

func TestDisplay_ExemptNeverHasPromoNonExemptAlwaysDoes(t *testing.T) {
	exempt := []int64{-1001, -1002, 42}
	f := newTestFormatter(exempt...)
	inputs := [][]chat.Segment{
		{{Timecode: "0:00", Text: "a"}},
		{{Timecode: "0:00", Text: "a"}, {Timecode: "0:01", Text: "b"}},
		{{Timecode: "0:00", Text: ""}, {Timecode: "0:01", Text: "tail"}},
	}
	for _, segments := range inputs {
		for _, timecodes := range []bool{false, true} {
			for _, id := range exempt {
				if got := f.Display(segments, chat.Snapshot{ID: id, Timecodes: timecodes}); strings.Contains(got, promoText) {
					t.Errorf("exempt chat %d got promo: %q", id, got)
				}
			}
			for _, id := range []int64{1, 2, -5} {
				if got := f.Display(segments, chat.Snapshot{ID: id, Timecodes: timecodes}); !strings.HasSuffix(got, "\n"+promoText) {
					t.Errorf("chat %d missing promo: %q", id, got)
				}
			}
		}
	}
}

func TestPromo_LocaleLookup(t *testing.T) {
	f := NewFormatter(PromoConfig{Texts: map[string]string{"default": "Bot", "ru": "Бот"}}, nil)

	if got := f.Promo(chat.Snapshot{WitLanguage: "ru"}); got != "Бот" {
		t.Errorf("wit ru promo = %q", got)
	}
	if got := f.Promo(chat.Snapshot{Engine: chat.EngineGoogle, GoogleLanguage: "ru-RU", WitLanguage: "en"}); got != "Бот" {
		t.Errorf("google ru promo = %q", got)
	}
	if got := f.Promo(chat.Snapshot{WitLanguage: "en"}); got != "Bot" {
		t.Errorf("default promo = %q", got)
	}

	fallback := NewFormatter(PromoConfig{Texts: map[string]string{"default": "Bot"}}, nil)
	if got := fallback.Promo(chat.Snapshot{WitLanguage: "ru"}); got != "Bot" {
		t.Errorf("missing locale should fall back, got %q", got)
	}
}

func TestDisplay_NoPromoConfigured(t *testing.T) {
	f := NewFormatter(PromoConfig{}, nil)
	if got := f.Display([]chat.Segment{{Timecode: "0:00", Text: "hi"}}, chat.Snapshot{ID: 1}); got != "hi" {
		t.Errorf("expected bare text without promo config, got %q", got)
	}
}

func TestPromoConfig_ApplyDefaults(t *testing.T) {
	var cfg PromoConfig
	cfg.ApplyDefaults()
	f := NewFormatter(cfg, nil)
	if got := f.Display([]chat.Segment{{Timecode: "0:00", Text: "hi"}}, chat.Snapshot{ID: 1, WitLanguage: "en"}); got != "hi\n"+DefaultPromoTexts["default"] {
		t.Errorf("default promo missing, got %q", got)
	}
	if got := f.Promo(chat.Snapshot{WitLanguage: "ru"}); got != DefaultPromoTexts["ru"] {
		t.Errorf("ru promo = %q", got)
	}

	off := PromoConfig{Texts: map[string]string{"default": ""}}
	off.ApplyDefaults()
	if off.Texts["default"] != "" {
		t.Errorf("explicit empty text was overwritten with %q", off.Texts["default"])
	}
	if off.Texts["ru"] != DefaultPromoTexts["ru"] {
		t.Errorf("missing ru text not filled, got %q", off.Texts["ru"])
	}
}

func TestCustomClassifier(t *testing.T) {
	f := NewFormatter(PromoConfig{Texts: map[string]string{"default": "A", "ru": "B"}}, func(chat.Snapshot) Locale {
		return LocaleRussian
	})
	if got := f.Promo(chat.Snapshot{WitLanguage: "en"}); got != "B" {
		t.Errorf("custom classifier ignored, got %q", got)
	}
}

func TestTimecode(t *testing.T) {
	tests := map[int]string{
		-3:   "0:00",
		0:    "0:00",
		5:    "0:05",
		65:   "1:05",
		599:  "9:59",
		3600: "1:00:00",
		3725: "1:02:05",
	}
	for in, want := range tests {
		if got := Timecode(in); got != want {
			t.Errorf("Timecode(%d) = %q, want %q", in, got, want)
		}
	}
}
