// Package catalog holds the static relationship type catalog: every edge
// type the application knows about, grouped into display categories, with
// default labels and inverse-type pairing. The catalog is immutable data
// consulted for default-label derivation and reverse-type resolution; the
// flattened lookup index is built once at package init.
package catalog

import "strings"

// Entry describes one relationship type. For symmetric relations
// Bidirectional is true and the reverse of the type is itself; asymmetric
// relations carry the paired type in Reverse. A type with neither has no
// natural inverse and falls back to itself on reversal.
type Entry struct {
	Value         string `json:"value"`
	Label         string `json:"label"`
	Bidirectional bool   `json:"bidirectional,omitempty"`
	Reverse       string `json:"reverse,omitempty"`
}

// Category groups entries for presentation. Category membership has no
// effect on storage or validation.
type Category struct {
	Key     string  `json:"key"`
	Entries []Entry `json:"types"`
}

var categories = []Category{
	{Key: "social", Entries: []Entry{
		{Value: "knows", Label: "Knows", Bidirectional: true},
		{Value: "friends_with", Label: "Friends with", Bidirectional: true},
		{Value: "allied_with", Label: "Allied with", Bidirectional: true},
		{Value: "enemies_with", Label: "Enemies with", Bidirectional: true},
		{Value: "rivals_with", Label: "Rivals with", Bidirectional: true},
		{Value: "related_to", Label: "Related to", Bidirectional: true},
		{Value: "married_to", Label: "Married to", Bidirectional: true},
		{Value: "parent_of", Label: "Parent of", Reverse: "child_of"},
		{Value: "child_of", Label: "Child of", Reverse: "parent_of"},
		{Value: "sibling_of", Label: "Sibling of", Bidirectional: true},
	}},
	{Key: "hierarchy", Entries: []Entry{
		{Value: "serves", Label: "Serves", Reverse: "commands"},
		{Value: "commands", Label: "Commands", Reverse: "serves"},
		{Value: "employs", Label: "Employs", Reverse: "employed_by"},
		{Value: "employed_by", Label: "Employed by", Reverse: "employs"},
		{Value: "mentors", Label: "Mentors", Reverse: "mentored_by"},
		{Value: "mentored_by", Label: "Mentored by", Reverse: "mentors"},
	}},
	{Key: "organization", Entries: []Entry{
		{Value: "member_of", Label: "Member of"},
		{Value: "leads", Label: "Leads"},
		{Value: "founded", Label: "Founded"},
		{Value: "headquartered_in", Label: "Headquartered in"},
	}},
	{Key: "location", Entries: []Entry{
		{Value: "located_in", Label: "Located in"},
		{Value: "lives_in", Label: "Lives in"},
		{Value: "rules_over", Label: "Rules over"},
		{Value: "visited", Label: "Visited"},
		{Value: "born_in", Label: "Born in"},
	}},
	{Key: "possession", Entries: []Entry{
		{Value: "owns", Label: "Owns", Reverse: "owned_by"},
		{Value: "owned_by", Label: "Owned by", Reverse: "owns"},
		{Value: "created", Label: "Created", Reverse: "created_by"},
		{Value: "created_by", Label: "Created by", Reverse: "created"},
		{Value: "seeks", Label: "Seeks"},
		{Value: "guards", Label: "Guards"},
	}},
	{Key: "plot", Entries: []Entry{
		{Value: "involves", Label: "Involves"},
		{Value: "involved_in", Label: "Involved in"},
		{Value: "takes_place_in", Label: "Takes place in"},
		{Value: "caused", Label: "Caused"},
		{Value: "affected_by", Label: "Affected by"},
	}},
	{Key: "custom", Entries: []Entry{
		{Value: "custom", Label: "Custom (specify label)"},
	}},
}

var index = buildIndex()

func buildIndex() map[string]Entry {
	m := make(map[string]Entry)
	for _, cat := range categories {
		for _, e := range cat.Entries {
			m[e.Value] = e
		}
	}
	return m
}

// Categories returns the catalog grouped for display.
func Categories() []Category {
	return categories
}

// All returns every entry flattened across categories.
func All() []Entry {
	out := make([]Entry, 0, len(index))
	for _, cat := range categories {
		out = append(out, cat.Entries...)
	}
	return out
}

// Lookup returns the entry registered for value.
func Lookup(value string) (Entry, bool) {
	e, ok := index[value]
	return e, ok
}

// LabelFor returns the display label for a relationship type: the catalog
// label when the type is registered, otherwise a humanized form of the type
// key (underscores to spaces, first letter capitalized).
func LabelFor(value string) string {
	if e, ok := index[value]; ok {
		return e.Label
	}
	return humanize(value)
}

// ReverseType resolves the type that represents the same relationship seen
// from the target's side. Bidirectional types reverse to themselves,
// asymmetric types to their declared pair, and anything else (unknown types
// included) falls back to itself.
func ReverseType(value string) string {
	e, ok := index[value]
	if !ok {
		return value
	}
	if e.Bidirectional {
		return value
	}
	if e.Reverse != "" {
		return e.Reverse
	}
	return value
}

func humanize(value string) string {
	s := strings.ReplaceAll(value, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
