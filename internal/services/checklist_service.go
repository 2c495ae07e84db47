package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/metrics"
	"github.com/bizease/bizease-backend/internal/models"
)

// ChecklistService keeps one compliance.Tracker per business and fans
// tracker progress events out to subscribers.
type ChecklistService struct {
	store   compliance.Store
	metrics *metrics.Metrics
	log     *logrus.Entry

	mu          sync.Mutex
	trackers    map[uuid.UUID]*compliance.Tracker
	subscribers []func(compliance.ProgressEvent)

	// opening collapses concurrent first Opens of one business into a
	// single load and seed.
	opening singleflight.Group
}

type UpdateItemStatusRequest struct {
	Status string `json:"status" validate:"required,checklist_status"`
}

type ProgressView struct {
	compliance.Counts
	Progress float64 `json:"progress"`
	Percent  int     `json:"percent"`
	Complete bool    `json:"complete"`
}

type ChecklistView struct {
	BusinessID uuid.UUID              `json:"business_id"`
	Items      []models.ChecklistItem `json:"items"`
	Progress   ProgressView           `json:"progress"`
}

type CategorySummary struct {
	Category  string `json:"category"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

type Dashboard struct {
	BusinessID        uuid.UUID              `json:"business_id"`
	RegistrationID    string                 `json:"registration_id"`
	BusinessName      string                 `json:"business_name"`
	Progress          ProgressView           `json:"progress"`
	Categories        []CategorySummary      `json:"categories"`
	RemainingRequired []models.ChecklistItem `json:"remaining_required"`
	NextSteps         []models.ChecklistItem `json:"next_steps"`
	ECardEligible     bool                   `json:"ecard_eligible"`
}

func NewChecklistService(store compliance.Store, m *metrics.Metrics) *ChecklistService {
	return &ChecklistService{
		store:    store,
		metrics:  m,
		log:      logrus.WithField("component", "checklist"),
		trackers: make(map[uuid.UUID]*compliance.Tracker),
	}
}

// Subscribe registers fn for progress events of every business.
func (s *ChecklistService) Subscribe(fn func(compliance.ProgressEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *ChecklistService) publish(e compliance.ProgressEvent) {
	if e.Status != "" {
		s.metrics.StatusChanged(string(e.Status))
	}
	if e.BecameComplete {
		s.metrics.ChecklistCompleted()
		s.log.WithField("business_id", e.BusinessID.String()).Info("Checklist completed")
	}

	s.mu.Lock()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
}

// Open returns the tracker for business, creating and seeding it on first
// use. A returned compliance.ErrPersistence is non-fatal: the tracker is
// valid and registered. A tracker that started without its stored state
// retries the load on every Open until it succeeds.
func (s *ChecklistService) Open(ctx context.Context, business *models.Business) (*compliance.Tracker, error) {
	if t := s.registered(business.ID); t != nil {
		if err := t.Reattach(ctx); err != nil {
			s.metrics.PersistenceFailed("reattach")
			return t, err
		}
		return t, nil
	}

	v, err, _ := s.opening.Do(business.ID.String(), func() (interface{}, error) {
		return s.initialize(ctx, business)
	})
	t, _ := v.(*compliance.Tracker)
	if t == nil {
		return nil, err
	}
	return t, err
}

func (s *ChecklistService) registered(businessID uuid.UUID) *compliance.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trackers[businessID]
}

func (s *ChecklistService) initialize(ctx context.Context, business *models.Business) (*compliance.Tracker, error) {
	if t := s.registered(business.ID); t != nil {
		return t, nil
	}

	t := compliance.NewTracker(business.ID, s.store, s.log)
	err := t.Initialize(ctx, compliance.DeriveChecklist(business.ID, business.Profile))
	if err != nil && !errors.Is(err, compliance.ErrPersistence) {
		return nil, err
	}
	if err != nil {
		s.metrics.PersistenceFailed("initialize")
	}

	t.OnProgress(s.publish)
	s.mu.Lock()
	s.trackers[business.ID] = t
	s.mu.Unlock()
	return t, err
}

// Generate derives the checklist for a submitted profile. A business seen
// before keeps the status of every entry the new profile still requires.
func (s *ChecklistService) Generate(ctx context.Context, business *models.Business) (*ChecklistView, error) {
	t, err := s.Open(ctx, business)
	if t == nil {
		return nil, err
	}
	if rerr := t.Reconcile(ctx, compliance.DeriveChecklist(business.ID, business.Profile)); rerr != nil {
		s.metrics.PersistenceFailed("reconcile")
		if err == nil {
			err = rerr
		}
	}
	s.metrics.ChecklistGenerated(business.Profile.Structure, business.Profile.Industry)
	return viewOf(business.ID, t), err
}

func (s *ChecklistService) GetChecklist(ctx context.Context, business *models.Business) (*ChecklistView, error) {
	t, err := s.Open(ctx, business)
	if t == nil {
		return nil, err
	}
	return viewOf(business.ID, t), err
}

func (s *ChecklistService) UpdateItemStatus(ctx context.Context, business *models.Business, itemID uuid.UUID, status models.ChecklistStatus) (*models.ChecklistItem, *ProgressView, error) {
	t, err := s.Open(ctx, business)
	if t == nil {
		return nil, nil, err
	}

	item, err := t.SetStatus(ctx, itemID, status)
	if err != nil && !errors.Is(err, compliance.ErrPersistence) {
		return nil, nil, err
	}
	if err != nil {
		s.metrics.PersistenceFailed("set_status")
	}

	s.log.WithFields(logrus.Fields{
		"business_id": business.ID.String(),
		"item_id":     itemID.String(),
		"status":      status,
	}).Debug("Checklist item updated")

	progress := progressView(t)
	return &item, &progress, err
}

func (s *ChecklistService) Progress(ctx context.Context, business *models.Business) (*ProgressView, error) {
	t, err := s.Open(ctx, business)
	if t == nil {
		return nil, err
	}
	p := progressView(t)
	return &p, err
}

// IsComplete reports whether every checklist item of business is completed.
func (s *ChecklistService) IsComplete(ctx context.Context, business *models.Business) (bool, error) {
	t, err := s.Open(ctx, business)
	if t == nil {
		return false, err
	}
	return t.IsComplete(), nil
}

func (s *ChecklistService) Dashboard(ctx context.Context, business *models.Business) (*Dashboard, error) {
	t, err := s.Open(ctx, business)
	if t == nil {
		return nil, err
	}

	items := t.Items()
	progress := progressView(t)
	d := &Dashboard{
		BusinessID:        business.ID,
		RegistrationID:    business.RegistrationID,
		BusinessName:      business.BusinessName,
		Progress:          progress,
		RemainingRequired: []models.ChecklistItem{},
		NextSteps:         []models.ChecklistItem{},
		ECardEligible:     progress.Complete,
	}

	byCategory := map[string]*CategorySummary{}
	var order []string
	for _, it := range items {
		c, ok := byCategory[it.Category]
		if !ok {
			c = &CategorySummary{Category: it.Category}
			byCategory[it.Category] = c
			order = append(order, it.Category)
		}
		c.Total++
		if it.Status == models.ChecklistStatusCompleted {
			c.Completed++
			continue
		}
		if it.IsRequired {
			d.RemainingRequired = append(d.RemainingRequired, it)
		}
	}
	for _, name := range order {
		d.Categories = append(d.Categories, *byCategory[name])
	}

	d.NextSteps = nextSteps(items, 3)
	return d, err
}

// nextSteps picks up to n unfinished items, high priority first, in-progress
// before pending, then checklist order.
func nextSteps(items []models.ChecklistItem, n int) []models.ChecklistItem {
	var open []models.ChecklistItem
	for _, it := range items {
		if it.Status != models.ChecklistStatusCompleted {
			open = append(open, it)
		}
	}
	rank := map[models.Priority]int{models.PriorityHigh: 0, models.PriorityMedium: 1, models.PriorityLow: 2}
	sort.SliceStable(open, func(i, j int) bool {
		if rank[open[i].Priority] != rank[open[j].Priority] {
			return rank[open[i].Priority] < rank[open[j].Priority]
		}
		return open[i].Status == models.ChecklistStatusInProgress && open[j].Status != models.ChecklistStatusInProgress
	})
	if len(open) > n {
		open = open[:n]
	}
	if open == nil {
		return []models.ChecklistItem{}
	}
	return open
}

// Preview evaluates a profile without creating a business.
func (s *ChecklistService) Preview(profile models.BusinessProfile) []compliance.Requirement {
	return compliance.Evaluate(profile)
}

func viewOf(businessID uuid.UUID, t *compliance.Tracker) *ChecklistView {
	return &ChecklistView{
		BusinessID: businessID,
		Items:      t.Items(),
		Progress:   progressView(t),
	}
}

func progressView(t *compliance.Tracker) ProgressView {
	counts := t.Counts()
	var p float64
	if counts.Total > 0 {
		p = float64(counts.Completed) / float64(counts.Total)
	}
	return ProgressView{
		Counts:   counts,
		Progress: p,
		Percent:  int(p*100 + 0.5),
		Complete: counts.Total > 0 && counts.Completed == counts.Total,
	}
}

// ParseStatus converts a wire status into a models.ChecklistStatus.
func ParseStatus(raw string) (models.ChecklistStatus, error) {
	status := models.ChecklistStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", compliance.ErrInvalidStatus, raw)
	}
	return status, nil
}
