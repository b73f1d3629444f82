package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no language is configured.
var DefaultLanguage = language.English

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	fallback language.Tag

	mu       sync.RWMutex
	builder  *catalog.Builder
	tags     []language.Tag
	messages map[language.Tag]map[string]string

	// matcher is rebuilt lazily after a new locale is added.
	matcher   language.Matcher
	supported []language.Tag
}

// NewBundle creates a bundle with the embedded catalogs loaded.
// Messages missing in a locale fall back to the fallback language.
func NewBundle(fallback language.Tag) (*Bundle, error) {
	b := &Bundle{
		fallback: fallback,
		builder:  catalog.NewBuilder(catalog.Fallback(fallback)),
		messages: make(map[language.Tag]map[string]string),
	}
	if err := b.LoadFS(embeddedLocales, "locales"); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadDir loads every catalog file in dir.
func (b *Bundle) LoadDir(dir string) error {
	return b.LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads every "<locale>.yaml" file in dir of fsys. Messages for a
// key already loaded replace the earlier value.
func (b *Bundle) LoadFS(fsys fs.FS, dir string) error {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("glob catalogs: %w", err)
	}
	sort.Strings(paths)

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read catalog %s: %w", p, err)
		}
		locale := strings.TrimSuffix(path.Base(p), ".yaml")
		if err := b.Add(locale, data); err != nil {
			return fmt.Errorf("catalog %s: %w", p, err)
		}
	}
	return nil
}

// Add parses a YAML catalog for locale and registers its messages.
func (b *Bundle) Add(locale string, data []byte) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	flat := make(map[string]string)
	if err := flatten("", doc, flat); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	msgs, ok := b.messages[tag]
	if !ok {
		msgs = make(map[string]string)
		b.messages[tag] = msgs
		b.tags = append(b.tags, tag)
		b.matcher = nil
	}
	for key, value := range flat {
		if err := b.builder.SetString(tag, key, value); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
		msgs[key] = value
	}
	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			if err := flatten(full, v, out); err != nil {
				return err
			}
		case string:
			out[full] = v
		case nil:
			out[full] = ""
		case bool, int, float64:
			out[full] = fmt.Sprint(v)
		default:
			return fmt.Errorf("key %q: unsupported value of type %T", full, value)
		}
	}
	return nil
}

// Languages returns the loaded languages in load order.
func (b *Bundle) Languages() []language.Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]language.Tag(nil), b.tags...)
}

// Match returns the loaded language closest to the given BCP 47 tag or
// Accept-Language value. Unparseable input yields the fallback language.
func (b *Bundle) Match(lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return b.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}

	b.mu.Lock()
	if b.matcher == nil {
		b.supported = append([]language.Tag{b.fallback}, b.tags...)
		b.matcher = language.NewMatcher(b.supported)
	}
	matcher, supported := b.matcher, b.supported
	b.mu.Unlock()

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return b.fallback
	}
	return supported[index]
}

// Lookup returns the message stored for key in exactly tag.
func (b *Bundle) Lookup(tag language.Tag, key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	msg, ok := b.messages[tag][key]
	return msg, ok
}

// Printer returns a translator for tag.
func (b *Bundle) Printer(tag language.Tag) *Printer {
	return &Printer{p: message.NewPrinter(tag, message.Catalog(b.builder))}
}

// Printer translates message keys for one language. It implements
// router.Translator.
type Printer struct {
	p *message.Printer
}

// Translate returns the message for key, or key when no catalog has it.
func (p *Printer) Translate(key string) string {
	return p.p.Sprintf(message.Key(key, key))
}
