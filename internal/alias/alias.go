// Package alias expands shorthand prefixes in a prompt before it is sent to
// the model, e.g. "fix: soem text" -> "Correct the spelling of: soem text".
package alias

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resolver maps prompt prefixes to their expansions.
type Resolver struct {
	// prefixes sorted longest-first so the most specific alias wins.
	prefixes   []string
	expansions map[string]string
}

func NewResolver(aliases map[string]string) *Resolver {
	r := &Resolver{expansions: map[string]string{}}
	for prefix, expansion := range aliases {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		r.expansions[prefix] = strings.TrimSpace(expansion)
		r.prefixes = append(r.prefixes, prefix)
	}
	sort.Slice(r.prefixes, func(i, j int) bool {
		if len(r.prefixes[i]) != len(r.prefixes[j]) {
			return len(r.prefixes[i]) > len(r.prefixes[j])
		}
		return r.prefixes[i] < r.prefixes[j]
	})
	return r
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadFile reads aliases from a yaml file. A missing file yields an empty
// resolver; aliases are optional.
func LoadFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewResolver(nil), nil
		}
		return nil, err
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return NewResolver(f.Aliases), nil
}

// Resolve rewrites prompt when it starts with a known alias prefix. Prompts
// without an alias pass through unchanged.
func (r *Resolver) Resolve(prompt string) string {
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(prompt, prefix) {
			rest := strings.TrimSpace(strings.TrimPrefix(prompt, prefix))
			expansion := r.expansions[prefix]
			if rest == "" {
				return expansion
			}
			return expansion + " " + rest
		}
	}
	return prompt
}
