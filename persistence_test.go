package pinboard

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func quietLogger() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	return log.NewEntry(l)
}

// fakeGateway records saves and serves a canned load result.
type fakeGateway struct {
	mu      sync.Mutex
	loaded  *LoadedSnapshot
	loadErr error
	saveErr error
	saves   []Snapshot
}

func (g *fakeGateway) Load(ctx context.Context) (*LoadedSnapshot, error) {
	return g.loaded, g.loadErr
}

func (g *fakeGateway) Save(ctx context.Context, snap Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saves = append(g.saves, snap)
	return nil
}

func (g *fakeGateway) Saves() []Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Snapshot(nil), g.saves...)
}

func TestPersisterLoad(t *testing.T) {
	initial := []Item{{ID: "seed", ZIndex: 1, Scale: 1}}
	stored := []Item{{ID: "x", ZIndex: 7, Scale: 1}}
	music := "https://example.com/song.mp3"

	tests := []struct {
		name      string
		gw        Gateway
		wantIDs   []string
		wantNextZ int
		wantBG    string
	}{
		{
			name:      "no gateway",
			gw:        nil,
			wantIDs:   []string{"seed"},
			wantNextZ: 2,
			wantBG:    "#d4a373",
		},
		{
			name:      "load error",
			gw:        &fakeGateway{loadErr: errors.New("offline")},
			wantIDs:   nil,
			wantNextZ: 1,
			wantBG:    "#d4a373",
		},
		{
			name:      "nothing stored",
			gw:        &fakeGateway{},
			wantIDs:   []string{"seed"},
			wantNextZ: 2,
			wantBG:    "#d4a373",
		},
		{
			name: "items without config",
			gw: &fakeGateway{loaded: &LoadedSnapshot{
				Snapshot: Snapshot{Items: stored},
				HasItems: true,
			}},
			wantIDs:   []string{"x"},
			wantNextZ: 8,
			wantBG:    "#d4a373",
		},
		{
			name: "config without items",
			gw: &fakeGateway{loaded: &LoadedSnapshot{
				Snapshot: Snapshot{BoardConfig: BoardConfig{
					BackgroundColor:    "#000000",
					BackgroundMusicURL: &music,
					NextZIndex:         12,
				}},
				HasConfig: true,
			}},
			wantIDs:   []string{"seed"},
			wantNextZ: 12,
			wantBG:    "#000000",
		},
		{
			name: "partial config",
			gw: &fakeGateway{loaded: &LoadedSnapshot{
				Snapshot:  Snapshot{Items: stored},
				HasItems:  true,
				HasConfig: true,
			}},
			wantIDs:   []string{"x"},
			wantNextZ: 1,
			wantBG:    "#d4a373",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPersister(tt.gw, NewFrameScheduler(), 0, quietLogger())
			snap := p.Load(context.Background(), initial)
			if len(snap.Items) != len(tt.wantIDs) {
				t.Fatalf("items = %+v, want ids %v", snap.Items, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if snap.Items[i].ID != id {
					t.Errorf("items[%d] = %s, want %s", i, snap.Items[i].ID, id)
				}
			}
			if snap.Items == nil {
				t.Error("items is nil, want empty slice")
			}
			if snap.BoardConfig.NextZIndex != tt.wantNextZ {
				t.Errorf("NextZIndex = %d, want %d", snap.BoardConfig.NextZIndex, tt.wantNextZ)
			}
			if snap.BoardConfig.BackgroundColor != tt.wantBG {
				t.Errorf("BackgroundColor = %q, want %q", snap.BoardConfig.BackgroundColor, tt.wantBG)
			}
			if snap.BoardConfig.BackgroundImageURL == "" {
				t.Error("BackgroundImageURL not defaulted")
			}
		})
	}
}

func TestPersisterDebouncedSaveSendsLatest(t *testing.T) {
	gw := &fakeGateway{}
	sched := NewFrameScheduler()
	p := NewPersister(gw, sched, DefaultSaveDebounce, quietLogger())

	p.Schedule(Snapshot{Items: []Item{{ID: "first"}}})
	sched.Advance(500 * time.Millisecond)
	p.Schedule(Snapshot{Items: []Item{{ID: "second"}}})
	sched.Advance(DefaultSaveDebounce - time.Millisecond)
	p.Wait()
	if n := len(gw.Saves()); n != 0 {
		t.Fatalf("saves inside the quiet window = %d, want 0", n)
	}

	sched.Advance(time.Millisecond)
	p.Wait()
	saves := gw.Saves()
	if len(saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(saves))
	}
	if saves[0].Items[0].ID != "second" {
		t.Errorf("saved %s, want the latest snapshot", saves[0].Items[0].ID)
	}
}

func TestPersisterSaveNow(t *testing.T) {
	gw := &fakeGateway{}
	sched := NewFrameScheduler()
	p := NewPersister(gw, sched, time.Second, quietLogger())

	p.Schedule(Snapshot{Items: []Item{{ID: "stale"}}})
	if !p.SaveNow(context.Background(), Snapshot{Items: []Item{{ID: "now"}}}) {
		t.Fatal("SaveNow() = false")
	}
	if p.Pending() {
		t.Error("SaveNow left a debounced save pending")
	}
	sched.Advance(2 * time.Second)
	p.Wait()
	if saves := gw.Saves(); len(saves) != 1 || saves[0].Items[0].ID != "now" {
		t.Errorf("saves = %+v, want only the immediate save", saves)
	}
}

func TestPersisterSaveFailureReportsFalse(t *testing.T) {
	gw := &fakeGateway{saveErr: errors.New("503")}
	p := NewPersister(gw, NewFrameScheduler(), 0, quietLogger())
	if p.SaveNow(context.Background(), DefaultSnapshot()) {
		t.Error("SaveNow() = true on gateway failure")
	}
	if NewPersister(nil, NewFrameScheduler(), 0, quietLogger()).SaveNow(context.Background(), DefaultSnapshot()) {
		t.Error("SaveNow() = true without a gateway")
	}
}

func TestPersisterFlush(t *testing.T) {
	gw := &fakeGateway{}
	p := NewPersister(gw, NewFrameScheduler(), time.Hour, quietLogger())
	p.Schedule(Snapshot{Items: []Item{{ID: "pending"}}})
	p.Flush()
	if saves := gw.Saves(); len(saves) != 1 {
		t.Fatalf("saves after Flush = %d, want 1", len(saves))
	}
}

func TestMergeConfig(t *testing.T) {
	got := mergeConfig(BoardConfig{BackgroundColor: "#fff"})
	d := DefaultBoardConfig()
	if got.BackgroundColor != "#fff" {
		t.Errorf("BackgroundColor = %q, want kept", got.BackgroundColor)
	}
	if got.BackgroundImageURL != d.BackgroundImageURL || got.NextZIndex != d.NextZIndex {
		t.Errorf("mergeConfig = %+v, want defaults filled", got)
	}
}
