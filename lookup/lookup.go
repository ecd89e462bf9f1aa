// Package lookup translates foreign keys into display names.
package lookup

import (
	"tolldesk/models"
)

// Placeholder is shown when an identifier has no match.
const Placeholder = "-"

// Name scans items for id. It never fails: a null or unknown id gives Placeholder.
func Name[T models.Labeled](items []T, id models.ID) string {
	if id.IsZero() {
		return Placeholder
	}
	for _, it := range items {
		if itemID, _, _ := it.ScopeKeys(); itemID == id {
			return it.Label()
		}
	}
	return Placeholder
}

// Index is a map-backed id to name table.
type Index map[models.ID]string

// NewIndex builds an index over items. The first item wins on duplicate ids,
// the same answer the linear scan of Name gives.
func NewIndex[T models.Labeled](items []T) Index {
	idx := make(Index, len(items))
	for _, it := range items {
		id, _, _ := it.ScopeKeys()
		if id.IsZero() {
			continue
		}
		if _, ok := idx[id]; !ok {
			idx[id] = it.Label()
		}
	}
	return idx
}

// Name looks id up in the index.
func (idx Index) Name(id models.ID) string {
	if id.IsZero() {
		return Placeholder
	}
	if name, ok := idx[id]; ok {
		return name
	}
	return Placeholder
}
