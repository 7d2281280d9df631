// Package settings merges tool-owned keys into an editor's JSON settings
// file without disturbing anything else in it.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	// PathKey holds the language server binary.
	PathKey = "clangd.path"
	// ArgumentsKey holds the language server command line.
	ArgumentsKey = "clangd.arguments"
)

// OwnedKeys are the only keys this tool writes.
var OwnedKeys = []string{PathKey, ArgumentsKey}

// ErrNotObject is returned for JSON documents whose top level is not an object.
var ErrNotObject = errors.New("settings document is not a JSON object")

var formatOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "    ", SortKeys: false}

// Path returns the editor settings file for the tree at srcDir.
func Path(srcDir string) string {
	return filepath.Join(srcDir, ".vscode", "settings.json")
}

// Patch is the set of values written to the owned keys.
type Patch struct {
	Path      string
	Arguments []string
}

func (p Patch) value(key string) any {
	switch key {
	case PathKey:
		return p.Path
	case ArgumentsKey:
		args := p.Arguments
		if args == nil {
			args = []string{}
		}
		return args
	}
	return nil
}

// Document is a parsed settings file. Key order and the raw encoding of
// values it does not own are preserved.
type Document struct {
	raw []byte
}

// EmptyDocument returns a document with no keys.
func EmptyDocument() *Document {
	return &Document{raw: []byte("{}")}
}

// ParseDocument parses data. Blank input is an empty document.
func ParseDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return EmptyDocument(), nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, errors.New("invalid JSON")
	}
	if !gjson.ParseBytes(trimmed).IsObject() {
		return nil, ErrNotObject
	}
	return &Document{raw: append([]byte(nil), trimmed...)}, nil
}

// escapeKey turns a literal key into a gjson/sjson path component.
func escapeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', ':':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// occurrences returns every top-level value stored under key, in document
// order.
func (d *Document) occurrences(key string) []gjson.Result {
	var found []gjson.Result
	gjson.ParseBytes(d.raw).ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = append(found, v)
		}
		return true
	})
	return found
}

// Get returns the raw value stored under key. A repeated key resolves to its
// last occurrence, the one the editor honors.
func (d *Document) Get(key string) gjson.Result {
	found := d.occurrences(key)
	if len(found) == 0 {
		return gjson.Result{}
	}
	return found[len(found)-1]
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	return d.Get(key).Exists()
}

// Set stores value under key, in place if the key exists, else at the end.
func (d *Document) Set(key string, value any) error {
	raw, err := sjson.SetBytes(d.raw, escapeKey(key), value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	d.raw = raw
	return nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	var keys []string
	gjson.ParseBytes(d.raw).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

// Map decodes the document.
func (d *Document) Map() (map[string]any, error) {
	m := map[string]any{}
	if err := json.Unmarshal(d.raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Bytes renders the document with stable four-space indentation.
func (d *Document) Bytes() []byte {
	return pretty.PrettyOptions(d.raw, formatOptions)
}

// Conflicts lists the owned keys that are present with a value other than
// the one in patch. Absent keys are not conflicts. A repeated key conflicts
// when any of its occurrences differs.
func (d *Document) Conflicts(patch Patch) []string {
	var conflicts []string
	for _, key := range OwnedKeys {
		for _, existing := range d.occurrences(key) {
			if !sameJSON(existing.Raw, patch.value(key)) {
				conflicts = append(conflicts, key)
				break
			}
		}
	}
	return conflicts
}

// Apply writes the patch into the owned keys, leaving a single occurrence of
// each.
func (d *Document) Apply(patch Patch) error {
	for _, key := range OwnedKeys {
		if err := d.dropDuplicates(key); err != nil {
			return err
		}
		if err := d.Set(key, patch.value(key)); err != nil {
			return err
		}
	}
	return nil
}

// dropDuplicates removes leading occurrences of key until one remains.
func (d *Document) dropDuplicates(key string) error {
	for n := len(d.occurrences(key)); n > 1; n-- {
		raw, err := sjson.DeleteBytes(d.raw, escapeKey(key))
		if err != nil {
			return fmt.Errorf("failed to drop duplicate %s: %w", key, err)
		}
		d.raw = raw
	}
	return nil
}

func sameJSON(raw string, want any) bool {
	var have any
	if err := json.Unmarshal([]byte(raw), &have); err != nil {
		return false
	}
	encoded, err := json.Marshal(want)
	if err != nil {
		return false
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return false
	}
	return reflect.DeepEqual(have, normalized)
}

func setRaw(raw []byte, key, value string) ([]byte, error) {
	return sjson.SetRawBytes(raw, escapeKey(key), []byte(value))
}
