// Package prompts holds the LLM prompt templates, embedded at compile time.
// Each JSON file maps a prompt key to a template using {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

// Set is the parsed contents of one prompt file.
type Set map[string]string

var (
	mu     sync.Mutex
	loaded = map[string]Set{}
)

// Load parses an embedded prompt file such as "outreach.json". Files are parsed once.
func Load(filename string) (Set, error) {
	mu.Lock()
	defer mu.Unlock()

	if set, ok := loaded[filename]; ok {
		return set, nil
	}
	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}
	loaded[filename] = set
	return set, nil
}

// Keys lists the prompt keys in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the template stored under key in filename.
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// MustGet is Get for templates that must exist; it panics otherwise.
func MustGet(filename, key string) string {
	tmpl, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}

// Format substitutes {{.Key}} placeholders from data in a single pass.
// Placeholders without a value are left as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	oldnew := make([]string, 0, 2*len(data))
	for k, v := range data {
		oldnew = append(oldnew, "{{."+k+"}}", v)
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}

// Placeholders returns the distinct placeholder names in template, in order of appearance.
func Placeholders(template string) []string {
	var names []string
	seen := map[string]bool{}
	rest := template
	for {
		i := strings.Index(rest, "{{.")
		if i < 0 {
			return names
		}
		rest = rest[i+3:]
		j := strings.Index(rest, "}}")
		if j < 0 {
			return names
		}
		if name := rest[:j]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = rest[j+2:]
	}
}
