package compliance

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizease/bizease-backend/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	data    map[uuid.UUID][]models.ChecklistItem
	saves   int
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[uuid.UUID][]models.ChecklistItem{}}
}

func (s *memStore) Save(_ context.Context, businessID uuid.UUID, items []models.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[businessID] = append([]models.ChecklistItem(nil), items...)
	return nil
}

func (s *memStore) Load(_ context.Context, businessID uuid.UUID) ([]models.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]models.ChecklistItem(nil), s.data[businessID]...), nil
}

// yields seven items
var foodStore = models.BusinessProfile{
	Structure:             models.StructurePrivateLimited,
	Industry:              models.IndustryFoodBeverage,
	HasPhysicalStore:      true,
	EmployeeCount:         "1",
	ExistingRegistrations: []string{models.RegistrationFireSafety},
}

func newTracker(t *testing.T, store Store) (*Tracker, []models.ChecklistItem) {
	t.Helper()
	businessID := uuid.New()
	tr := NewTracker(businessID, store, nil)
	items := DeriveChecklist(businessID, foodStore)
	require.NoError(t, tr.Initialize(context.Background(), items))
	return tr, items
}

func TestTrackerCompletionAndReset(t *testing.T) {
	ctx := context.Background()
	tr, items := newTracker(t, newMemStore())

	assert.Equal(t, 0.0, tr.Progress())
	assert.False(t, tr.IsComplete())

	for i, it := range items {
		_, err := tr.SetStatus(ctx, it.ID, models.ChecklistStatusCompleted)
		require.NoError(t, err)
		if i < len(items)-1 {
			assert.False(t, tr.IsComplete(), "one item short must not be complete")
		}
	}

	assert.Equal(t, 1.0, tr.Progress())
	assert.True(t, tr.IsComplete())

	_, err := tr.SetStatus(ctx, items[3].ID, models.ChecklistStatusPending)
	require.NoError(t, err)
	assert.False(t, tr.IsComplete())
	assert.Less(t, tr.Progress(), 1.0)
}

func TestTrackerProgressIsMonotonicUnderCompletion(t *testing.T) {
	ctx := context.Background()
	tr, items := newTracker(t, newMemStore())

	last := tr.Progress()
	for _, it := range items {
		_, err := tr.SetStatus(ctx, it.ID, models.ChecklistStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, last, tr.Progress())

		_, err = tr.SetStatus(ctx, it.ID, models.ChecklistStatusCompleted)
		require.NoError(t, err)
		assert.Greater(t, tr.Progress(), last)
		last = tr.Progress()
	}
}

func TestTrackerRestoresPersistedProgress(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	businessID := uuid.New()

	first := NewTracker(businessID, store, nil)
	require.NoError(t, first.Initialize(ctx, DeriveChecklist(businessID, foodStore)))
	items := first.Items()
	require.Len(t, items, 7)
	_, err := first.SetStatus(ctx, items[0].ID, models.ChecklistStatusCompleted)
	require.NoError(t, err)
	_, err = first.SetStatus(ctx, items[1].ID, models.ChecklistStatusCompleted)
	require.NoError(t, err)

	// A reload re-derives the checklist with fresh ids.
	reloaded := NewTracker(businessID, store, nil)
	require.NoError(t, reloaded.Initialize(ctx, DeriveChecklist(businessID, foodStore)))

	assert.Equal(t, Counts{Total: 7, Completed: 2, Pending: 5}, reloaded.Counts())
	assert.Equal(t, items[0].ID, reloaded.Items()[0].ID)
	assert.InDelta(t, 2.0/7.0, reloaded.Progress(), 1e-9)
}

// rowStore keeps rows keyed by item id and never deletes, so any save of a
// set with fresh ids adds rows next to the stored ones.
type rowStore struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]models.ChecklistItem
	order     []uuid.UUID
	failLoads int
	saves     int
}

func newRowStore() *rowStore {
	return &rowStore{rows: map[uuid.UUID]models.ChecklistItem{}}
}

func (s *rowStore) Save(_ context.Context, _ uuid.UUID, items []models.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	for _, it := range items {
		if _, ok := s.rows[it.ID]; !ok {
			s.order = append(s.order, it.ID)
		}
		s.rows[it.ID] = it
	}
	return nil
}

func (s *rowStore) Load(_ context.Context, businessID uuid.UUID) ([]models.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoads > 0 {
		s.failLoads--
		return nil, errors.New("connection refused")
	}
	var out []models.ChecklistItem
	for _, id := range s.order {
		if s.rows[id].BusinessID == businessID {
			out = append(out, s.rows[id])
		}
	}
	return out, nil
}

func TestTrackerLoadFailureFallsBackToGenerated(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("connection refused")
	businessID := uuid.New()
	tr := NewTracker(businessID, store, nil)
	items := DeriveChecklist(businessID, foodStore)

	err := tr.Initialize(context.Background(), items)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.True(t, tr.Detached())
	assert.Equal(t, catalogIDs(items), catalogIDs(tr.Items()))
	assert.Equal(t, 0, store.saves)
}

func TestTrackerLoadFailureDoesNotDuplicateStoredItems(t *testing.T) {
	ctx := context.Background()
	store := newRowStore()
	businessID := uuid.New()

	first := NewTracker(businessID, store, nil)
	require.NoError(t, first.Initialize(ctx, DeriveChecklist(businessID, foodStore)))
	items := first.Items()
	for _, it := range items[:2] {
		_, err := first.SetStatus(ctx, it.ID, models.ChecklistStatusCompleted)
		require.NoError(t, err)
	}

	store.failLoads = 1
	detached := NewTracker(businessID, store, nil)
	err := detached.Initialize(ctx, DeriveChecklist(businessID, foodStore))
	require.ErrorIs(t, err, ErrPersistence)

	_, err = detached.SetStatus(ctx, detached.Items()[3].ID, models.ChecklistStatusCompleted)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Len(t, store.rows, 7)

	reloaded := NewTracker(businessID, store, nil)
	require.NoError(t, reloaded.Initialize(ctx, DeriveChecklist(businessID, foodStore)))
	assert.Equal(t, Counts{Total: 7, Completed: 2, Pending: 5}, reloaded.Counts())
	assert.InDelta(t, 2.0/7.0, reloaded.Progress(), 1e-9)
}

func TestTrackerReattachPrefersStoredState(t *testing.T) {
	ctx := context.Background()
	store := newRowStore()
	businessID := uuid.New()

	first := NewTracker(businessID, store, nil)
	require.NoError(t, first.Initialize(ctx, DeriveChecklist(businessID, foodStore)))
	_, err := first.SetStatus(ctx, first.Items()[0].ID, models.ChecklistStatusCompleted)
	require.NoError(t, err)

	store.failLoads = 2
	tr := NewTracker(businessID, store, nil)
	require.ErrorIs(t, tr.Initialize(ctx, DeriveChecklist(businessID, foodStore)), ErrPersistence)
	assert.ErrorIs(t, tr.Reattach(ctx), ErrPersistence)
	assert.True(t, tr.Detached())

	savesBefore := store.saves
	require.NoError(t, tr.Reattach(ctx))
	assert.False(t, tr.Detached())
	assert.Equal(t, Counts{Total: 7, Completed: 1, Pending: 6}, tr.Counts())
	assert.Equal(t, first.Items()[0].ID, tr.Items()[0].ID)
	assert.Equal(t, savesBefore, store.saves)

	_, err = tr.SetStatus(ctx, tr.Items()[1].ID, models.ChecklistStatusCompleted)
	require.NoError(t, err)
	assert.Len(t, store.rows, 7)
}

func TestTrackerReattachSavesWhenNothingStored(t *testing.T) {
	ctx := context.Background()
	store := newRowStore()
	store.failLoads = 1
	businessID := uuid.New()

	tr := NewTracker(businessID, store, nil)
	require.ErrorIs(t, tr.Initialize(ctx, DeriveChecklist(businessID, foodStore)), ErrPersistence)
	require.NoError(t, tr.Reattach(ctx))

	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.rows, 7)
}

func TestTrackerReconcileCarriesStatusByCatalogID(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	businessID := uuid.New()

	noStore := foodStore
	noStore.HasPhysicalStore = false
	tr := NewTracker(businessID, store, nil)
	require.NoError(t, tr.Initialize(ctx, DeriveChecklist(businessID, noStore)))
	before := tr.Items()
	require.NotContains(t, catalogIDs(before), string(EntryTradeLicense))
	_, err := tr.SetStatus(ctx, before[0].ID, models.ChecklistStatusCompleted)
	require.NoError(t, err)

	var events []ProgressEvent
	tr.OnProgress(func(e ProgressEvent) { events = append(events, e) })

	require.NoError(t, tr.Reconcile(ctx, DeriveChecklist(businessID, foodStore)))
	after := tr.Items()
	assert.Len(t, after, 7)
	assert.Contains(t, catalogIDs(after), string(EntryTradeLicense))
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, models.ChecklistStatusCompleted, after[0].Status)
	assert.Equal(t, 1, tr.Counts().Completed)
	assert.Equal(t, catalogIDs(after), catalogIDs(store.data[businessID]))
	require.Len(t, events, 1)
	assert.Equal(t, 7, events[0].Counts.Total)

	saves := store.saves
	require.NoError(t, tr.Reconcile(ctx, DeriveChecklist(businessID, foodStore)))
	assert.Equal(t, saves, store.saves, "unchanged profile must not rewrite")
	assert.Len(t, events, 1)
}

func TestTrackerSaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	businessID := uuid.New()
	tr := NewTracker(businessID, store, nil)
	items := DeriveChecklist(businessID, foodStore)

	store.saveErr = errors.New("disk full")
	err := tr.Initialize(ctx, items)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Len(t, tr.Items(), len(items))

	updated, err := tr.SetStatus(ctx, items[0].ID, models.ChecklistStatusCompleted)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, models.ChecklistStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 1, tr.Counts().Completed)
}

func TestTrackerRejectsUnknownItemAndStatus(t *testing.T) {
	ctx := context.Background()
	tr, items := newTracker(t, newMemStore())

	_, err := tr.SetStatus(ctx, uuid.New(), models.ChecklistStatusCompleted)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = tr.SetStatus(ctx, items[0].ID, models.ChecklistStatus("done"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTrackerNotifiesCompletionEdgeOnce(t *testing.T) {
	ctx := context.Background()
	tr, items := newTracker(t, newMemStore())

	var events []ProgressEvent
	tr.OnProgress(func(e ProgressEvent) { events = append(events, e) })

	for _, it := range items {
		_, err := tr.SetStatus(ctx, it.ID, models.ChecklistStatusCompleted)
		require.NoError(t, err)
	}
	// completing an already completed item is not a new edge
	_, err := tr.SetStatus(ctx, items[0].ID, models.ChecklistStatusCompleted)
	require.NoError(t, err)

	edges := 0
	for _, e := range events {
		if e.BecameComplete {
			edges++
		}
	}
	assert.Equal(t, 1, edges)
	assert.Len(t, events, len(items)+1)
	assert.True(t, events[len(events)-1].Complete)
}

func TestTrackerEmptyChecklist(t *testing.T) {
	tr := NewTracker(uuid.New(), nil, nil)
	require.NoError(t, tr.Initialize(context.Background(), nil))

	assert.Equal(t, 0.0, tr.Progress())
	assert.False(t, tr.IsComplete())
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	tr, items := newTracker(t, newMemStore())

	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, _ = tr.SetStatus(ctx, id, models.ChecklistStatusCompleted)
		}(it.ID)
	}
	wg.Wait()

	assert.True(t, tr.IsComplete())
}
