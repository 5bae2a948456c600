package pinboard

import "sort"

// ItemStore is the ordered collection of board items plus the z-order
// counter. It is owned by a single Session and is not safe for concurrent
// use; all mutations happen on the event-handling goroutine.
//
// Operations on unknown ids are no-ops: a gesture may still reference an item
// that a rapid admin action has already deleted.
type ItemStore struct {
	items   []Item
	index   map[string]int
	counter int
}

// NewItemStore creates a store holding a copy of items. counter is the stored
// next-z-index counter from BoardConfig.
func NewItemStore(items []Item, counter int) *ItemStore {
	s := &ItemStore{index: make(map[string]int, len(items)), counter: counter}
	for _, it := range items {
		s.Upsert(it)
	}
	return s
}

// Len returns the number of items.
func (s *ItemStore) Len() int { return len(s.items) }

// Get returns the item with the given id.
func (s *ItemStore) Get(id string) (Item, bool) {
	i, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// Items returns a copy of all items in insertion order.
func (s *ItemStore) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// SortedByZ returns a copy of all items ordered bottom to top. Ties keep
// insertion order.
func (s *ItemStore) SortedByZ() []Item {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Upsert inserts item, or replaces the stored item with the same id in place.
func (s *ItemStore) Upsert(item Item) {
	if i, ok := s.index[item.ID]; ok {
		s.items[i] = item
		return
	}
	s.index[item.ID] = len(s.items)
	s.items = append(s.items, item)
}

// Update applies fn to the stored item with the given id. Reports whether the
// item existed. fn must not change the id.
func (s *ItemStore) Update(id string, fn func(*Item)) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	fn(&s.items[i])
	s.items[i].ID = id
	return true
}

// Remove deletes the item with the given id. Reports whether it existed.
// Callers own any UI references (active gesture, open overlay) to the id.
func (s *ItemStore) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = Item{}
	s.items = s.items[:len(s.items)-1]
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	return true
}

// maxZ returns the highest zIndex among items, or 0 when empty.
func (s *ItemStore) maxZ() int {
	m := 0
	for i := range s.items {
		if s.items[i].ZIndex > m {
			m = s.items[i].ZIndex
		}
	}
	return m
}

// NextZIndex returns a z-index strictly greater than every current item and
// every value previously handed out, and records it as the counter.
func (s *ItemStore) NextZIndex() int {
	next := max(s.maxZ(), s.counter) + 1
	s.counter = next
	return next
}

// Counter returns the last z-index handed out (or the loaded counter).
func (s *ItemStore) Counter() int { return s.counter }

// BringToFront assigns the item the next z-index. Unknown ids are ignored and
// do not consume a z-index.
func (s *ItemStore) BringToFront(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	z := s.NextZIndex()
	return s.Update(id, func(it *Item) { it.ZIndex = z })
}
