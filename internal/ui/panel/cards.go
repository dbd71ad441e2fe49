// Package panel holds the state behind the planner's side panels and dialogs. Drawing lives in
// package ui; this package only tracks what the panels show.
package panel

import (
	"floorplanner/internal/budget"
	"floorplanner/internal/catalog"
)

// Card is one catalog entry as shown in the sidebar.
type Card struct {
	ID          string
	Name        string
	Description string
	Cost        string
	Active      bool
}

// CheckItem is one checklist row: done once at least one entity of the module is placed.
type CheckItem struct {
	ID   string
	Name string
	Done bool
}

// Cards tracks the catalog cards and the checklist. It implements placement.CatalogView.
type Cards struct {
	defs   []catalog.ModuleDefinition
	costs  []string
	active string
	done   map[string]bool
}

// NewCards returns cards for every module of cat, in catalog order, with costs formatted by f.
func NewCards(cat *catalog.Catalog, f budget.Formatter) *Cards {
	c := &Cards{done: make(map[string]bool)}
	c.Refresh(cat, f)
	return c
}

// Refresh reloads names and costs from cat. Active and done markers are kept.
func (c *Cards) Refresh(cat *catalog.Catalog, f budget.Formatter) {
	c.defs = cat.Snapshot()
	c.costs = make([]string, len(c.defs))
	for i, d := range c.defs {
		c.costs[i] = f.Cost(d.UnitCost)
	}
}

// SetActive marks the card of id as active. An empty id clears the marker.
func (c *Cards) SetActive(id string) {
	c.active = id
}

// MarkDone ticks the checklist entry of id.
func (c *Cards) MarkDone(id string) {
	c.done[id] = true
}

// MarkAllPending unticks every checklist entry.
func (c *Cards) MarkAllPending() {
	clear(c.done)
}

// Active is the id of the active card, or "".
func (c *Cards) Active() string {
	return c.active
}

// Cards returns the sidebar cards in catalog order.
func (c *Cards) Cards() []Card {
	out := make([]Card, len(c.defs))
	for i, d := range c.defs {
		out[i] = Card{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Cost:        c.costs[i],
			Active:      d.ID == c.active,
		}
	}
	return out
}

// Checklist returns one row per module in catalog order.
func (c *Cards) Checklist() []CheckItem {
	out := make([]CheckItem, len(c.defs))
	for i, d := range c.defs {
		out[i] = CheckItem{ID: d.ID, Name: d.Name, Done: c.done[d.ID]}
	}
	return out
}

// Definitions returns the modules the cards were built from.
func (c *Cards) Definitions() []catalog.ModuleDefinition {
	return c.defs
}
