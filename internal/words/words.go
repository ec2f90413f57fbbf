// Package words loads the word manifest enemies draw their words from.
package words

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/typesurvivors/internal/object"
)

//go:embed words.yaml
var defaultManifest []byte

// ErrEmpty is returned for a manifest without any usable word.
var ErrEmpty = errors.New("word manifest is empty")

// entry is one manifest item: either a bare asset name whose word is the
// file name without extension, or a mapping naming both.
type entry struct {
	Word  string `yaml:"word"`
	Asset string `yaml:"asset"`
}

func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Asset = node.Value
		return nil
	case yaml.MappingNode:
		type plain entry
		return node.Decode((*plain)(e))
	default:
		return fmt.Errorf("line %d: expected an asset name or a {word, asset} mapping", node.Line)
	}
}

func (e entry) word() object.Word {
	asset := strings.TrimSpace(e.Asset)
	text := strings.TrimSpace(e.Word)
	if text == "" {
		text = StripExt(asset)
	}
	return object.Word{Text: text, Asset: asset}
}

// StripExt removes the final extension from an asset name, so "KEKW.png"
// becomes "KEKW". Names without an extension are returned unchanged.
func StripExt(asset string) string {
	ext := path.Ext(asset)
	if len(ext) <= 1 {
		return asset
	}
	return strings.TrimSuffix(asset, ext)
}

// Parse decodes a manifest: a YAML (or JSON) sequence of entries. Blank
// entries are skipped and duplicates kept.
func Parse(data []byte) ([]object.Word, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse word manifest: %w", err)
	}
	words := make([]object.Word, 0, len(entries))
	for _, e := range entries {
		w := e.word()
		if w.Text == "" {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// Load reads and parses the manifest at path.
func Load(path string) ([]object.Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word manifest %s: %w", path, err)
	}
	words, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// Default returns the built-in word list.
func Default() []object.Word {
	words, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded word manifest: %v", err))
	}
	return words
}

// LoadOrDefault loads path, or returns the built-in list for an empty path.
func LoadOrDefault(path string) ([]object.Word, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
