// Package css parses the planner's panel stylesheet. Selectors are compounds of .class and #id
// (".card.active", "#budget"); combinators, pseudo-classes and @rules are skipped.
package css

import (
	"fmt"
	"sort"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Rule is one selector with its declarations.
type Rule struct {
	Selector string
	Props    map[string]string

	classes     []string
	id          string
	specificity int
	order       int
}

// Sheet is a parsed stylesheet. Rule order is source order.
type Sheet struct {
	Rules []Rule
}

// Parse parses content. A selector list ("a, b") becomes one rule per selector.
func Parse(content string) (*Sheet, error) {
	parsed, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("css: %w", err)
	}
	sheet := &Sheet{}
	for _, r := range parsed.Rules {
		if r.Kind == dcss.AtRule || len(r.Declarations) == 0 {
			continue
		}
		props := make(map[string]string, len(r.Declarations))
		for _, d := range r.Declarations {
			props[strings.ToLower(d.Property)] = strings.TrimSpace(d.Value)
		}
		for _, sel := range r.Selectors {
			classes, id, ok := parseSelector(sel)
			if !ok {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{
				Selector:    strings.TrimSpace(sel),
				Props:       props,
				classes:     classes,
				id:          id,
				specificity: specificity(classes, id),
				order:       len(sheet.Rules),
			})
		}
	}
	return sheet, nil
}

func specificity(classes []string, id string) int {
	n := len(classes) * 10
	if id != "" {
		n += 100
	}
	return n
}

// parseSelector splits ".a.b#c" into classes and id.
func parseSelector(sel string) (classes []string, id string, ok bool) {
	sel = strings.TrimSpace(sel)
	if sel == "" || strings.ContainsAny(sel, " >+~:[*") {
		return nil, "", false
	}
	for sel != "" {
		kind := sel[0]
		if kind != '.' && kind != '#' {
			return nil, "", false
		}
		end := strings.IndexAny(sel[1:], ".#")
		var name string
		if end < 0 {
			name, sel = sel[1:], ""
		} else {
			name, sel = sel[1:end+1], sel[end+1:]
		}
		if name == "" {
			return nil, "", false
		}
		if kind == '.' {
			classes = append(classes, name)
		} else {
			if id != "" {
				return nil, "", false
			}
			id = name
		}
	}
	return classes, id, true
}

// Match merges the declarations of every rule matching a node with the given classes and id.
// More specific rules win; equal specificity goes to the later rule.
func (s *Sheet) Match(classes []string, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	var hits []Rule
	for _, r := range s.Rules {
		if r.matches(classes, id) {
			hits = append(hits, r)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].specificity != hits[j].specificity {
			return hits[i].specificity < hits[j].specificity
		}
		return hits[i].order < hits[j].order
	})
	for _, r := range hits {
		for k, v := range r.Props {
			merged[k] = v
		}
	}
	return merged
}

func (r Rule) matches(classes []string, id string) bool {
	if r.id != "" && r.id != id {
		return false
	}
	for _, want := range r.classes {
		found := false
		for _, c := range classes {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
