package i18n

import (
	"sync"

	"golang.org/x/text/language"

	"github.com/kbukum/voicy/pipeline"
)

var _ pipeline.Translator = (*Catalog)(nil)

// Catalog resolves notice keys for an interface language. Unknown languages
// match the closest supported one; English is the fallback.
type Catalog struct {
	tables  map[language.Tag]map[string]string
	tags    []language.Tag
	matcher language.Matcher

	mu    sync.RWMutex
	cache map[string]language.Tag
}

// New creates a Catalog over the built-in tables.
func New() *Catalog {
	return NewCatalog(map[string]map[string]string{
		"en": english,
		"ru": russian,
	})
}

// NewCatalog creates a Catalog over tables keyed by BCP 47 tag. The "en"
// table, when present, is the fallback.
func NewCatalog(tables map[string]map[string]string) *Catalog {
	c := &Catalog{
		tables: make(map[language.Tag]map[string]string, len(tables)),
		cache:  make(map[string]language.Tag),
	}
	if t, ok := tables["en"]; ok {
		c.add(language.English, t)
	}
	for name, t := range tables {
		tag, err := language.Parse(name)
		if err != nil || tag == language.English {
			continue
		}
		c.add(tag, t)
	}
	c.matcher = language.NewMatcher(c.tags)
	return c
}

func (c *Catalog) add(tag language.Tag, table map[string]string) {
	c.tables[tag] = table
	c.tags = append(c.tags, tag)
}

// Translate implements pipeline.Translator. A key missing from every table
// is returned unchanged.
func (c *Catalog) Translate(lang, key string) string {
	tag := c.resolve(lang)
	if s, ok := c.tables[tag][key]; ok {
		return s
	}
	if s, ok := c.tables[language.English][key]; ok {
		return s
	}
	return key
}

func (c *Catalog) resolve(lang string) language.Tag {
	c.mu.RLock()
	tag, ok := c.cache[lang]
	c.mu.RUnlock()
	if ok {
		return tag
	}

	tag = language.English
	if len(c.tags) > 0 {
		tag = c.tags[0]
	}
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, conf := c.matcher.Match(parsed)
		if conf != language.No {
			tag = c.tags[idx]
		}
	}

	c.mu.Lock()
	c.cache[lang] = tag
	c.mu.Unlock()
	return tag
}
