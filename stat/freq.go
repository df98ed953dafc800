package stat

import (
	"encoding/json"
	"sort"
)

// Count is a label with its number of occurrences.
type Count struct {
	Label string `json:"label"`
	N     int    `json:"count"`
}

// Table is a frequency table. It keeps the order in which labels were first
// seen, which breaks ties in MostCommon. A nil *Table reads as empty.
type Table struct {
	counts map[string]int
	order  []string
}

func NewTable() *Table {
	return &Table{counts: map[string]int{}}
}

// Tabulate counts the occurrences of each label.
func Tabulate(labels []string) *Table {
	t := NewTable()
	for _, l := range labels {
		t.Add(l)
	}
	return t
}

func (t *Table) Add(label string) {
	if _, ok := t.counts[label]; !ok {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

func (t *Table) Count(label string) int {
	if t == nil {
		return 0
	}
	return t.counts[label]
}

// Len returns the number of distinct labels.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Table) Total() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Labels returns the distinct labels in first seen order.
func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Map returns a copy of the counts.
func (t *Table) Map() map[string]int {
	if t == nil {
		return map[string]int{}
	}
	m := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		m[k] = v
	}
	return m
}

// Counts returns every entry in first seen order.
func (t *Table) Counts() []Count {
	if t == nil {
		return []Count{}
	}
	cs := make([]Count, 0, len(t.order))
	for _, l := range t.order {
		cs = append(cs, Count{Label: l, N: t.counts[l]})
	}
	return cs
}

// MostCommon returns the k most frequent labels, highest count first. Equal
// counts keep first seen order. k <= 0 returns all entries.
func (t *Table) MostCommon(k int) []Count {
	cs := t.Counts()
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].N > cs[j].N
	})

	if k > 0 && k < len(cs) {
		cs = cs[:k]
	}
	return cs
}

// MarshalJSON encodes the table as a list of counts in first seen order, so
// that the order survives a round trip.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Counts())
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var cs []Count
	if err := json.Unmarshal(data, &cs); err != nil {
		return err
	}

	t.counts = make(map[string]int, len(cs))
	t.order = t.order[:0]
	for _, c := range cs {
		if _, ok := t.counts[c.Label]; !ok {
			t.order = append(t.order, c.Label)
		}
		t.counts[c.Label] += c.N
	}
	return nil
}
