package search

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Categories maps a browse category to the keywords that place a listing in it.
type Categories map[string][]string

// DefaultCategories is the table used when no categories file is configured.
func DefaultCategories() Categories {
	return Categories{
		"beach":       {"beach", "ocean", "sea", "coast", "beach_access"},
		"windmills":   {"windmill"},
		"modern":      {"modern", "contemporary", "minimalist"},
		"countryside": {"countryside", "farm", "rural", "village"},
		"pools":       {"pool"},
		"islands":     {"island"},
		"lake":        {"lake", "lakeside", "lakefront"},
		"skiing":      {"ski", "slopes", "snow"},
		"castles":     {"castle", "chateau", "palace"},
		"caves":       {"cave"},
		"camping":     {"camping", "tent", "campsite"},
		"arctic":      {"arctic", "igloo", "northern lights"},
		"desert":      {"desert", "dunes"},
		"barns":       {"barn"},
		"lux":         {"luxury", "villa", "hot_tub", "penthouse"},
		"cabins":      {"cabin", "fireplace", "woods"},
	}
}

// LoadCategories reads a YAML document of the form
//
//	beach: [beach, ocean]
//	pools: [pool]
func LoadCategories(path string) (Categories, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	var c Categories
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse categories file %s: %w", path, err)
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("categories file %s defines no categories", path)
	}
	return c, nil
}

// normalize lowercases category names and keywords and drops blank keywords.
func (c Categories) normalize() Categories {
	out := make(Categories, len(c))
	for name, keywords := range c {
		key := categoryKey(name)
		if key == "" {
			continue
		}
		for _, kw := range keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				out[key] = append(out[key], lower(kw))
			}
		}
	}
	return out
}

// keywords returns the lowercased, non-blank keywords of the named category,
// merging entries whose names differ only in case or surrounding space.
func (c Categories) keywords(name string) []string {
	key := categoryKey(name)
	if key == "" {
		return nil
	}
	var out []string
	for n, kws := range c {
		if categoryKey(n) != key {
			continue
		}
		for _, kw := range kws {
			if kw = strings.TrimSpace(kw); kw != "" {
				out = append(out, lower(kw))
			}
		}
	}
	return out
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Names returns the category names in sorted order.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
