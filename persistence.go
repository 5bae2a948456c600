package pinboard

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Gateway loads and saves the full board document. Implementations live in
// the gateway package; the board treats the document as an opaque snapshot.
type Gateway interface {
	// Load returns the stored snapshot. A nil snapshot with a nil error
	// means nothing is stored yet. HasItems and HasConfig report which
	// top-level fields the document carried.
	Load(ctx context.Context) (*LoadedSnapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error
}

// LoadedSnapshot is a decoded document plus which top-level fields it held.
type LoadedSnapshot struct {
	Snapshot
	HasItems  bool
	HasConfig bool
}

const (
	// DefaultSaveDebounce is the quiet window for coalescing saves.
	DefaultSaveDebounce = 1200 * time.Millisecond
	defaultSaveTimeout  = 15 * time.Second
	defaultLoadTimeout  = 15 * time.Second
)

// Persister wraps a Gateway with the board's degrade-never-fail contract:
// loads fall back to defaults, saves report a bool, and debounced saves run
// off the event goroutine with failures logged rather than returned.
type Persister struct {
	gw       Gateway
	log      *log.Entry
	debounce *Debouncer[Snapshot]
	timeout  time.Duration

	wg sync.WaitGroup

	// Saves are serialized. A save that loses the race to a newer one is
	// skipped so an old snapshot never overwrites a newer write.
	seqMu   sync.Mutex
	seq     uint64
	saveMu  sync.Mutex
	written uint64
}

// NewPersister creates a Persister. gw may be nil, in which case every load
// yields the default snapshot and every save reports failure.
func NewPersister(gw Gateway, sched Scheduler, wait time.Duration, logger *log.Entry) *Persister {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	if wait <= 0 {
		wait = DefaultSaveDebounce
	}
	p := &Persister{
		gw:      gw,
		log:     logger.WithField("component", "persistence"),
		timeout: defaultSaveTimeout,
	}
	p.debounce = NewDebouncer(sched, wait, p.saveAsync)
	return p
}

// Load returns the stored snapshot with defaults substituted for anything
// missing. It never fails: a failed load is logged and yields the empty
// default board. initial seeds the items when nothing is stored or the
// document has no items.
func (p *Persister) Load(ctx context.Context, initial []Item) Snapshot {
	snap := DefaultSnapshot()
	if initial != nil {
		snap.Items = append([]Item(nil), initial...)
		snap.BoardConfig.NextZIndex = len(initial) + 1
	}
	if p.gw == nil {
		p.log.Warn("no gateway configured, using in-memory board")
		return snap
	}

	ctx, cancel := context.WithTimeout(ctx, defaultLoadTimeout)
	defer cancel()
	loaded, err := p.gw.Load(ctx)
	if err != nil {
		p.log.WithError(err).Error("load board failed, using defaults")
		return DefaultSnapshot()
	}
	if loaded == nil {
		return snap
	}

	if loaded.HasItems {
		snap.Items = loaded.Items
		if snap.Items == nil {
			snap.Items = []Item{}
		}
	}
	if loaded.HasConfig {
		snap.BoardConfig = mergeConfig(loaded.BoardConfig)
	} else {
		snap.BoardConfig = DefaultBoardConfig()
		snap.BoardConfig.NextZIndex = max(1, maxItemZ(snap.Items)) + 1
	}
	return snap
}

// mergeConfig fills empty fields of a stored config with defaults.
func mergeConfig(c BoardConfig) BoardConfig {
	d := DefaultBoardConfig()
	if c.BackgroundImageURL == "" {
		c.BackgroundImageURL = d.BackgroundImageURL
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = d.BackgroundColor
	}
	if c.NextZIndex <= 0 {
		c.NextZIndex = d.NextZIndex
	}
	return c
}

func maxItemZ(items []Item) int {
	m := 0
	for _, it := range items {
		m = max(m, it.ZIndex)
	}
	return m
}

// SaveNow saves synchronously, bypassing the debounce window. Any pending
// debounced save is dropped since snap supersedes it.
func (p *Persister) SaveNow(ctx context.Context, snap Snapshot) bool {
	p.debounce.Cancel()
	seq := p.nextSeq()
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	p.written = seq
	return p.save(ctx, snap)
}

func (p *Persister) nextSeq() uint64 {
	p.seqMu.Lock()
	defer p.seqMu.Unlock()
	p.seq++
	return p.seq
}

// SaveAsync starts a save of snap right away without waiting for it. Any
// pending debounced save is dropped.
func (p *Persister) SaveAsync(snap Snapshot) {
	p.debounce.Cancel()
	p.saveAsync(snap)
}

// Schedule queues snap for a debounced save. Only the last snapshot queued
// within the quiet window is sent.
func (p *Persister) Schedule(snap Snapshot) {
	p.debounce.Call(snap)
}

// Pending reports whether a debounced save is waiting.
func (p *Persister) Pending() bool {
	return p.debounce.Pending()
}

// Flush sends a pending debounced save now and waits for every in-flight
// save to finish.
func (p *Persister) Flush() {
	p.debounce.Flush()
	p.Wait()
}

// Wait blocks until in-flight asynchronous saves complete.
func (p *Persister) Wait() {
	p.wg.Wait()
}

func (p *Persister) saveAsync(snap Snapshot) {
	seq := p.nextSeq()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.saveMu.Lock()
		defer p.saveMu.Unlock()
		if seq < p.written {
			p.log.WithField("seq", seq).Debug("skipping superseded save")
			return
		}
		p.written = seq
		p.save(context.Background(), snap)
	}()
}

func (p *Persister) save(ctx context.Context, snap Snapshot) bool {
	if p.gw == nil {
		p.log.Warn("no gateway configured, board not saved")
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.gw.Save(ctx, snap); err != nil {
		p.log.WithError(err).WithField("items", len(snap.Items)).Error("save board failed")
		return false
	}
	p.log.WithField("items", len(snap.Items)).Debug("board saved")
	return true
}
