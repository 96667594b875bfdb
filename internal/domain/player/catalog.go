package player

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog is an immutable, ordered set of player records. Definition order
// is preserved and breaks ties wherever records are ranked.
type Catalog struct {
	records []Record
	byID    map[string]int
}

// Source yields the current catalog snapshot. Implementations may swap the
// snapshot (hot reload) but never mutate a returned Catalog.
type Source interface {
	Catalog() *Catalog
}

// FixedSource serves one catalog forever.
type FixedSource struct{ C *Catalog }

// Catalog implements Source.
func (f FixedSource) Catalog() *Catalog { return f.C }

// New validates records and builds a catalog in the given order.
func New(records []Record) (*Catalog, error) {
	c := &Catalog{
		records: make([]Record, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for _, r := range records {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		c.byID[r.ID] = len(c.records)
		c.records = append(c.records, r.clone())
	}
	return c, nil
}

// MustNew is New for static tables; it panics on invalid input.
func MustNew(records []Record) *Catalog {
	c, err := New(records)
	if err != nil {
		panic(err)
	}
	return c
}

// Len reports the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// FindByID resolves id or returns ErrNotFound.
func (c *Catalog) FindByID(id string) (Record, error) {
	if c != nil {
		if i, ok := c.byID[id]; ok {
			return c.records[i].clone(), nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListAll returns every record in definition order.
func (c *Catalog) ListAll() []Record {
	if c == nil {
		return []Record{}
	}
	out := make([]Record, len(c.records))
	for i, r := range c.records {
		out[i] = r.clone()
	}
	return out
}

// FilterByRole returns records whose role is in roles, in definition order.
// An empty role set matches nothing.
func (c *Catalog) FilterByRole(roles ...Role) []Record {
	out := []Record{}
	if c == nil {
		return out
	}
	for _, r := range c.records {
		if slices.Contains(roles, r.Role) {
			out = append(out, r.clone())
		}
	}
	return out
}

// TopByRuns returns up to n records with the given roles, sorted by total
// runs descending. Equal totals keep definition order.
func (c *Catalog) TopByRuns(n int, roles ...Role) []Record {
	eligible := c.FilterByRole(roles...)
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].TotalRuns > eligible[j].TotalRuns
	})
	if n >= 0 && len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}
