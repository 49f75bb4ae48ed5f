// Package kb loads the disease knowledge base from a JSON document at startup
// and serves read-only lookups for the rest of the process lifetime. All maps
// are built once in Load; concurrent readers need no locking.
package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"krishigo/pkg/model"
)

// Store is the in-memory knowledge base.
type Store struct {
	diseases  map[string]*model.DiseaseEntry // normalized canonical name -> entry
	aliases   map[string]string              // normalized localized name -> canonical
	aliasList []string                       // alias keys, longest first, for Match
	templates map[model.Intent]*model.ResponseTemplate
	extra     map[string]model.LocalizedText // non-intent snippets (clarifications, prefixes)
	names     []string                       // canonical names, sorted
}

// document mirrors the on-disk JSON shape.
type document struct {
	Diseases []struct {
		Name        string              `json:"name"`
		Names       model.LocalizedText `json:"localized_names"`
		Description model.LocalizedText `json:"description"`
		Treatment   model.LocalizedText `json:"treatment"`
	} `json:"diseases"`
	Templates map[string]model.LocalizedText `json:"templates"`
}

// intentTemplates maps document template keys to router intents. Keys not
// listed here are kept as free-form snippets reachable via Snippet.
var intentTemplates = map[string]model.Intent{
	"greeting": model.IntentGreeting,
	"help":     model.IntentHelp,
	"unknown":  model.IntentUnknown,
}

// Load reads and indexes the knowledge base document at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	if len(doc.Diseases) == 0 {
		return nil, fmt.Errorf("knowledge base %s contains no diseases", path)
	}

	s := &Store{
		diseases:  make(map[string]*model.DiseaseEntry, len(doc.Diseases)),
		aliases:   make(map[string]string),
		templates: make(map[model.Intent]*model.ResponseTemplate),
		extra:     make(map[string]model.LocalizedText),
	}

	for _, d := range doc.Diseases {
		entry := &model.DiseaseEntry{
			Canonical:   d.Name,
			Names:       d.Names,
			Description: d.Description,
			Treatment:   d.Treatment,
		}
		key := Normalize(d.Name)
		if _, dup := s.diseases[key]; dup {
			return nil, fmt.Errorf("duplicate disease entry %q", d.Name)
		}
		s.diseases[key] = entry
		s.names = append(s.names, d.Name)

		// every localized name routes back to the canonical key, so a
		// Hindi query and a classifier label resolve to the same entry
		s.aliases[key] = d.Name
		for _, localized := range d.Names {
			s.aliases[Normalize(localized)] = d.Name
		}
	}
	sort.Strings(s.names)

	// longest aliases first, ties resolved lexicographically, so Match is
	// deterministic and prefers the most specific name
	for alias := range s.aliases {
		s.aliasList = append(s.aliasList, alias)
	}
	sort.Slice(s.aliasList, func(i, j int) bool {
		a, b := s.aliasList[i], s.aliasList[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	for key, text := range doc.Templates {
		if intent, ok := intentTemplates[key]; ok {
			s.templates[intent] = &model.ResponseTemplate{Intent: intent, Text: text}
			continue
		}
		s.extra[key] = text
	}

	return s, nil
}

// Normalize lowercases and collapses whitespace so lookups tolerate casing
// and spacing differences between classifier labels and typed queries.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Disease looks up an entry by canonical name or any localized alias.
func (s *Store) Disease(name string) (*model.DiseaseEntry, bool) {
	canonical, ok := s.aliases[Normalize(name)]
	if !ok {
		return nil, false
	}
	e := s.diseases[Normalize(canonical)]
	return e, e != nil
}

// Match scans text (any script, case-insensitive) for the first known disease
// name or alias it contains and returns that entry.
func (s *Store) Match(text string) (*model.DiseaseEntry, bool) {
	norm := Normalize(text)
	for _, alias := range s.aliasList {
		if strings.Contains(norm, alias) {
			return s.Disease(s.aliases[alias])
		}
	}
	return nil, false
}

// Template returns the canned response for intent, if one is defined.
func (s *Store) Template(intent model.Intent) (*model.ResponseTemplate, bool) {
	t, ok := s.templates[intent]
	return t, ok
}

// Snippet returns a free-form localized text block by document key, such as
// "disease_clarification" or "disease_detected".
func (s *Store) Snippet(key string) (model.LocalizedText, bool) {
	t, ok := s.extra[key]
	return t, ok
}

// DiseaseNames lists the canonical disease names in sorted order.
func (s *Store) DiseaseNames() []string {
	return s.names
}
