package portal

import (
	"fmt"

	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/ui"
)

// Selection is the id of the entity chosen on a page. "" is no selection.
//
// It lives outside of the slices. Selecting does not fetch anything.
type Selection string

func (s *Selection) Set(id string) {
	*s = Selection(id)
}

func (s *Selection) Clear() {
	*s = ""
}

// Of returns the selected entity listed in the collection.
// nil means nothing is selected, or the selected one is gone.
func Of[E store.Entity[E]](s Selection, c *store.Collection[E]) *E {
	if s == "" {
		return nil
	}
	e, ok := c.Find(string(s))
	if !ok {
		return nil
	}
	return &e
}

// marked sets the marker of the table to the selected row.
func marked[E store.Entity[E]](tbl *ui.Table, s Selection, items []E) *ui.Table {
	tbl.Marker = -1
	for i, e := range items {
		if s != "" && e.Key() == string(s) {
			tbl.Marker = i
		}
	}
	return tbl
}

// choices labels items for pick.
func choices[E store.Entity[E]](items []E, name func(E) string) (labels []string, ids []string) {
	for _, e := range items {
		labels = append(labels, fmt.Sprintf("%s (%s)", name(e), e.Key()))
		ids = append(ids, e.Key())
	}
	return labels, ids
}
