// Package standings materializes a rating map into an ordered table with
// rank lookup and top-N queries.
package standings

import (
	"sort"

	"github.com/leaguerank/leaguerank/internal/domain/model"
)

// Entry is one standings row.
type Entry struct {
	Rank   int     `json:"rank"`
	ID     string  `json:"id"`
	Rating float64 `json:"rating"`
}

// Table is an immutable snapshot ordered by rating descending. Ties break
// on id so a table built from the same ratings is always identical.
type Table struct {
	entries []Entry
	rankOf  map[string]int
}

// New builds a Table from ratings.
func New(ratings model.Ratings) *Table {
	entries := make([]Entry, 0, len(ratings))
	for id, rating := range ratings {
		entries = append(entries, Entry{ID: id, Rating: rating})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].ID < entries[j].ID
	})

	rankOf := make(map[string]int, len(entries))
	for i := range entries {
		entries[i].Rank = i + 1
		rankOf[entries[i].ID] = i + 1
	}
	return &Table{entries: entries, rankOf: rankOf}
}

// Rank returns the row for id, or ErrNotFound.
func (t *Table) Rank(id string) (Entry, error) {
	rank, ok := t.rankOf[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return t.entries[rank-1], nil
}

// TopN returns the best n rows (all rows when n exceeds the table).
func (t *Table) TopN(n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > len(t.entries) {
		n = len(t.entries)
	}
	out := make([]Entry, n)
	copy(out, t.entries[:n])
	return out
}

// TopNIDs returns the ids of the best n rows.
func (t *Table) TopNIDs(n int) []string {
	top := t.TopN(n)
	out := make([]string, len(top))
	for i, e := range top {
		out[i] = e.ID
	}
	return out
}

// Entries returns every row in rank order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// RankMap returns id → ordinal rank.
func (t *Table) RankMap() map[string]int {
	out := make(map[string]int, len(t.rankOf))
	for id, rank := range t.rankOf {
		out[id] = rank
	}
	return out
}

// Count returns the number of rows.
func (t *Table) Count() int {
	return len(t.entries)
}
