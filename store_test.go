package pinboard

import "testing"

func storeItems(zs ...int) []Item {
	items := make([]Item, len(zs))
	for i, z := range zs {
		items[i] = Item{ID: string(rune('a' + i)), ZIndex: z, Scale: 1}
	}
	return items
}

func TestNextZIndexStrictlyIncreasing(t *testing.T) {
	s := NewItemStore(storeItems(3, 1, 2), 1)
	prev := 3
	for i := 0; i < 10; i++ {
		z := s.NextZIndex()
		if z <= prev {
			t.Fatalf("NextZIndex() = %d after %d, want increasing", z, prev)
		}
		prev = z
	}
	if s.Counter() != prev {
		t.Errorf("Counter() = %d, want %d", s.Counter(), prev)
	}
}

func TestNextZIndexHonorsCounter(t *testing.T) {
	s := NewItemStore(storeItems(2), 40)
	if got := s.NextZIndex(); got != 41 {
		t.Errorf("NextZIndex() = %d, want 41", got)
	}
}

func TestBringToFrontAfterRemovingTop(t *testing.T) {
	s := NewItemStore(storeItems(1, 2, 3), 3)
	s.BringToFront("a")
	s.Remove("a")
	s.BringToFront("b")

	b, _ := s.Get("b")
	for _, it := range s.Items() {
		if it.ID != "b" && it.ZIndex >= b.ZIndex {
			t.Errorf("item %s z=%d not below front item z=%d", it.ID, it.ZIndex, b.ZIndex)
		}
	}
	if b.ZIndex <= 4 {
		t.Errorf("BringToFront reused z-index: got %d, want > 4", b.ZIndex)
	}
}

func TestBringToFrontOutOfBandEdit(t *testing.T) {
	s := NewItemStore(storeItems(1, 2), 2)
	s.Update("a", func(it *Item) { it.ZIndex = 99 })
	s.BringToFront("b")
	b, _ := s.Get("b")
	if b.ZIndex != 100 {
		t.Errorf("ZIndex = %d, want 100", b.ZIndex)
	}
}

func TestStoreUnknownIDsAreNoops(t *testing.T) {
	s := NewItemStore(storeItems(1), 1)
	if s.Remove("missing") {
		t.Error("Remove(missing) = true")
	}
	if s.BringToFront("missing") {
		t.Error("BringToFront(missing) = true")
	}
	if s.Counter() != 1 {
		t.Errorf("unknown BringToFront consumed a z-index: counter %d", s.Counter())
	}
	if s.Update("missing", func(*Item) { t.Error("fn called for missing id") }) {
		t.Error("Update(missing) = true")
	}
}

func TestUpsertPreservesOrder(t *testing.T) {
	s := NewItemStore(storeItems(1, 1, 1), 1)
	s.Upsert(Item{ID: "b", Title: "replaced"})
	s.Upsert(Item{ID: "z"})

	var ids []string
	for _, it := range s.Items() {
		ids = append(ids, it.ID)
	}
	want := []string{"a", "b", "c", "z"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
	if b, _ := s.Get("b"); b.Title != "replaced" {
		t.Errorf("Upsert did not replace: %+v", b)
	}
}

func TestRemoveReindexes(t *testing.T) {
	s := NewItemStore(storeItems(1, 2, 3), 3)
	s.Remove("a")
	if c, ok := s.Get("c"); !ok || c.ZIndex != 3 {
		t.Errorf("Get(c) after remove = %+v, %v", c, ok)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSortedByZStable(t *testing.T) {
	s := NewItemStore(storeItems(2, 1, 2), 2)
	got := s.SortedByZ()
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("SortedByZ()[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestUpdateKeepsID(t *testing.T) {
	s := NewItemStore(storeItems(1), 1)
	s.Update("a", func(it *Item) { it.ID = "hijack" })
	if _, ok := s.Get("a"); !ok {
		t.Error("Update changed the id")
	}
}
