package compliance

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bizease/bizease-backend/internal/models"
)

var (
	ErrItemNotFound  = errors.New("checklist item not found")
	ErrInvalidStatus = errors.New("invalid checklist status")
	// ErrPersistence wraps storage failures the tracker recovered from.
	// In-memory state is still authoritative when it is returned.
	ErrPersistence = errors.New("checklist persistence failed")
)

// Counts is a status breakdown of a checklist.
type Counts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
}

// ProgressEvent is delivered to observers after every status change and
// after a reconciliation. ItemID and Status are zero for the latter.
type ProgressEvent struct {
	BusinessID     uuid.UUID
	ItemID         uuid.UUID
	Status         models.ChecklistStatus
	Counts         Counts
	Progress       float64
	Complete       bool
	BecameComplete bool
}

// Tracker owns the mutable status of one business's checklist.
type Tracker struct {
	mu         sync.Mutex
	businessID uuid.UUID
	items      []models.ChecklistItem
	index      map[uuid.UUID]int
	complete   bool

	// detached is set when the stored state could not be read. The
	// in-memory set is then never written back, so it cannot shadow or
	// duplicate rows that already exist.
	detached bool

	store     Store
	log       *logrus.Entry
	listeners []func(ProgressEvent)
	now       func() time.Time
}

func NewTracker(businessID uuid.UUID, store Store, logger *logrus.Entry) *Tracker {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Tracker{
		businessID: businessID,
		index:      make(map[uuid.UUID]int),
		store:      store,
		log:        logger.WithField("business_id", businessID.String()),
		now:        time.Now,
	}
}

func (t *Tracker) BusinessID() uuid.UUID {
	return t.businessID
}

// OnProgress registers an observer. Observers run synchronously after the
// tracker lock is released.
func (t *Tracker) OnProgress(fn func(ProgressEvent)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Initialize seeds the tracker. Previously persisted state wins over
// generated; generated is used when nothing is stored or the load fails.
// Both a failed load and a failed save of the seeded state are reported as
// ErrPersistence but the tracker remains usable. After a failed load the
// tracker stays detached until Reattach succeeds.
func (t *Tracker) Initialize(ctx context.Context, generated []models.ChecklistItem) error {
	persisted, err := t.load(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.log.WithError(err).Warn("Failed to load checklist state, using a regenerated checklist in memory")
		t.setItems(generated)
		t.detached = true
		return fmt.Errorf("%w: load: %v", ErrPersistence, err)
	}

	if len(persisted) > 0 {
		t.setItems(persisted)
		t.log.WithField("items", len(persisted)).Debug("Restored persisted checklist")
		return nil
	}

	t.setItems(generated)
	return t.saveLocked(ctx)
}

// Detached reports whether the tracker is running without its stored state.
func (t *Tracker) Detached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detached
}

// Reattach retries the load of a detached tracker. Stored state replaces
// whatever was changed in memory meanwhile; when nothing is stored the
// in-memory set is saved.
func (t *Tracker) Reattach(ctx context.Context) error {
	if !t.Detached() {
		return nil
	}
	persisted, err := t.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %v", ErrPersistence, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.detached {
		return nil
	}
	t.detached = false
	if len(persisted) > 0 {
		t.setItems(persisted)
		t.log.WithField("items", len(persisted)).Info("Reattached to persisted checklist")
		return nil
	}
	return t.saveLocked(ctx)
}

// Reconcile applies a checklist derived from a resubmitted profile. Items
// are matched by catalog id: matched items keep their id and status,
// new entries start pending and entries that no longer apply are dropped.
// Nothing is written when the set is unchanged.
func (t *Tracker) Reconcile(ctx context.Context, generated []models.ChecklistItem) error {
	t.mu.Lock()
	current := make(map[string]models.ChecklistItem, len(t.items))
	for _, it := range t.items {
		current[it.CatalogID] = it
	}

	changed := len(generated) != len(t.items)
	next := make([]models.ChecklistItem, len(generated))
	for i, g := range generated {
		if cur, ok := current[g.CatalogID]; ok {
			if cur.Position != g.Position || cur.IsRequired != g.IsRequired {
				changed = true
			}
			g.ID = cur.ID
			g.Status = cur.Status
			g.CompletedAt = cur.CompletedAt
			g.CreatedAt = cur.CreatedAt
			g.UpdatedAt = cur.UpdatedAt
		} else {
			changed = true
		}
		next[i] = g
	}
	if !changed {
		t.mu.Unlock()
		return nil
	}

	wasComplete := t.complete
	t.setItems(next)
	counts := t.countsLocked()
	event := ProgressEvent{
		BusinessID:     t.businessID,
		Counts:         counts,
		Progress:       progressOf(counts),
		Complete:       t.complete,
		BecameComplete: t.complete && !wasComplete,
	}
	saveErr := t.saveLocked(ctx)
	listeners := slices.Clone(t.listeners)
	t.mu.Unlock()

	t.log.WithField("items", len(next)).Info("Checklist reconciled with resubmitted profile")
	for _, fn := range listeners {
		fn(event)
	}
	return saveErr
}

// saveLocked writes the current set. Callers hold t.mu.
func (t *Tracker) saveLocked(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	if t.detached {
		return fmt.Errorf("%w: checklist state not loaded", ErrPersistence)
	}
	if err := t.store.Save(ctx, t.businessID, t.snapshot()); err != nil {
		t.log.WithError(err).Error("Failed to save checklist")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (t *Tracker) load(ctx context.Context) ([]models.ChecklistItem, error) {
	if t.store == nil {
		return nil, nil
	}
	items, err := t.store.Load(ctx, t.businessID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (t *Tracker) setItems(items []models.ChecklistItem) {
	t.items = make([]models.ChecklistItem, len(items))
	copy(t.items, items)
	t.index = make(map[uuid.UUID]int, len(items))
	for i, it := range t.items {
		t.index[it.ID] = i
	}
	t.complete = t.isCompleteLocked()
}

// SetStatus moves one item to status. Any transition between the three
// statuses is allowed. Concurrent calls are serialized; the last write for
// an item wins.
func (t *Tracker) SetStatus(ctx context.Context, itemID uuid.UUID, status models.ChecklistStatus) (models.ChecklistItem, error) {
	if !status.Valid() {
		return models.ChecklistItem{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	t.mu.Lock()
	i, ok := t.index[itemID]
	if !ok {
		t.mu.Unlock()
		return models.ChecklistItem{}, ErrItemNotFound
	}

	item := &t.items[i]
	item.Status = status
	item.UpdatedAt = t.now()
	if status == models.ChecklistStatusCompleted {
		ts := item.UpdatedAt
		item.CompletedAt = &ts
	} else {
		item.CompletedAt = nil
	}
	updated := *item

	wasComplete := t.complete
	t.complete = t.isCompleteLocked()
	counts := t.countsLocked()
	event := ProgressEvent{
		BusinessID:     t.businessID,
		ItemID:         itemID,
		Status:         status,
		Counts:         counts,
		Progress:       progressOf(counts),
		Complete:       t.complete,
		BecameComplete: t.complete && !wasComplete,
	}

	saveErr := t.saveLocked(ctx)
	listeners := slices.Clone(t.listeners)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}

	return updated, saveErr
}

// Progress is completed/total in [0,1], or 0 for an empty checklist.
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progressOf(t.countsLocked())
}

// IsComplete is true iff every item is completed.
func (t *Tracker) IsComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isCompleteLocked()
}

func (t *Tracker) Counts() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countsLocked()
}

// Items returns a copy of the checklist in generation order.
func (t *Tracker) Items() []models.ChecklistItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) Item(itemID uuid.UUID) (models.ChecklistItem, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[itemID]
	if !ok {
		return models.ChecklistItem{}, false
	}
	return t.items[i], true
}

func (t *Tracker) snapshot() []models.ChecklistItem {
	out := make([]models.ChecklistItem, len(t.items))
	copy(out, t.items)
	return out
}

func (t *Tracker) isCompleteLocked() bool {
	if len(t.items) == 0 {
		return false
	}
	for _, it := range t.items {
		if it.Status != models.ChecklistStatusCompleted {
			return false
		}
	}
	return true
}

func (t *Tracker) countsLocked() Counts {
	c := Counts{Total: len(t.items)}
	for _, it := range t.items {
		switch it.Status {
		case models.ChecklistStatusCompleted:
			c.Completed++
		case models.ChecklistStatusInProgress:
			c.InProgress++
		default:
			c.Pending++
		}
	}
	return c
}

func progressOf(c Counts) float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total)
}
