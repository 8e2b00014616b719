package viewmodel

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/model"
)

// TravelManager owns the travel collection and its active, upcoming and
// past partitions. All methods are safe for concurrent use.
type TravelManager struct {
	store     TravelStore
	reminders TravelReminders
	logger    *zap.Logger
	now       func() time.Time
	observers

	mu       sync.RWMutex
	travels  []model.Travel
	active   []model.Travel
	upcoming []model.Travel
	past     []model.Travel
}

// NewTravelManager loads the stored travels and computes the partitions.
func NewTravelManager(ctx context.Context, store TravelStore, opts ...Option) *TravelManager {
	o := buildOptions(opts)
	m := &TravelManager{
		store:     store,
		reminders: o.travelReminders,
		logger:    o.logger,
		now:       o.now,
	}
	m.travels = store.LoadTravels(ctx)
	m.recomputeLocked()
	return m
}

// Reload replaces the in-memory collection with the stored one.
func (m *TravelManager) Reload(ctx context.Context) {
	m.mu.Lock()
	m.travels = m.store.LoadTravels(ctx)
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(Event{Kind: TravelsChanged})
}

// Reschedule re-registers the reminders of every trip.
func (m *TravelManager) Reschedule(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.travels {
		m.rescheduleLocked(ctx, t, t)
	}
}

// Add appends travel and schedules its reminders.
func (m *TravelManager) Add(ctx context.Context, travel model.Travel) {
	m.mutate(ctx, func() bool {
		travel = cloneTravel(travel)
		m.travels = append(m.travels, travel)
		m.rescheduleLocked(ctx, travel, travel)
		return true
	})
}

// Update replaces the travel with the same identity. Unknown travels are
// ignored.
func (m *TravelManager) Update(ctx context.Context, travel model.Travel) {
	m.mutate(ctx, func() bool {
		i := m.indexLocked(travel.ID)
		if i < 0 {
			return false
		}
		old := m.travels[i]
		travel = cloneTravel(travel)
		m.travels[i] = travel
		m.rescheduleLocked(ctx, old, travel)
		return true
	})
}

// Delete removes every travel with the identity of travel together with
// its itinerary, tips and reminders.
func (m *TravelManager) Delete(ctx context.Context, travel model.Travel) {
	m.mutate(ctx, func() bool {
		kept := m.travels[:0]
		for _, t := range m.travels {
			if t.ID == travel.ID {
				if m.reminders != nil {
					m.reminders.CancelTravelReminders(ctx, t)
				}
				continue
			}
			kept = append(kept, t)
		}
		m.travels = kept
		return true
	})
}

// ToggleActive flips the active flag of the travel with the identity of travel.
func (m *TravelManager) ToggleActive(ctx context.Context, travel model.Travel) {
	m.mutate(ctx, func() bool {
		i := m.indexLocked(travel.ID)
		if i < 0 {
			return false
		}
		m.travels[i].IsActive = !m.travels[i].IsActive
		return true
	})
}

// AddItineraryItem appends item to the travel with the given identity and
// schedules its reminder.
func (m *TravelManager) AddItineraryItem(ctx context.Context, item model.ItineraryItem, travelID string) {
	m.mutate(ctx, func() bool {
		i := m.indexLocked(travelID)
		if i < 0 {
			return false
		}
		m.travels[i].ItineraryItems = append(m.travels[i].ItineraryItems, item)
		if m.reminders != nil {
			m.reminders.ScheduleItineraryReminder(ctx, item)
		}
		return true
	})
}

// UpdateItineraryItem replaces the item with the same identity within the
// given travel.
func (m *TravelManager) UpdateItineraryItem(ctx context.Context, item model.ItineraryItem, travelID string) {
	m.mutate(ctx, func() bool {
		i := m.indexLocked(travelID)
		if i < 0 {
			return false
		}
		for j := range m.travels[i].ItineraryItems {
			if m.travels[i].ItineraryItems[j].ID == item.ID {
				m.travels[i].ItineraryItems[j] = item
				if m.reminders != nil {
					m.reminders.CancelItineraryReminder(ctx, item)
					m.reminders.ScheduleItineraryReminder(ctx, item)
				}
				return true
			}
		}
		return false
	})
}

// DeleteItineraryItem removes the item with the identity of item from the
// given travel and cancels its reminder. Remaining items keep their order.
func (m *TravelManager) DeleteItineraryItem(ctx context.Context, item model.ItineraryItem, travelID string) {
	m.mutate(ctx, func() bool {
		i := m.indexLocked(travelID)
		if i < 0 {
			return false
		}
		items := m.travels[i].ItineraryItems
		kept := make([]model.ItineraryItem, 0, len(items))
		for _, it := range items {
			if it.ID != item.ID {
				kept = append(kept, it)
			}
		}
		m.travels[i].ItineraryItems = kept
		if m.reminders != nil {
			m.reminders.CancelItineraryReminder(ctx, item)
		}
		return true
	})
}

// AddLocalTip appends tip to the travel with the given identity.
func (m *TravelManager) AddLocalTip(ctx context.Context, tip model.LocalTip, travelID string) {
	m.mutate(ctx, func() bool {
		i := m.indexLocked(travelID)
		if i < 0 {
			return false
		}
		m.travels[i].LocalTips = append(m.travels[i].LocalTips, tip)
		return true
	})
}

// ToggleTipBookmark flips the bookmark of the tip with the identity of tip
// within the given travel.
func (m *TravelManager) ToggleTipBookmark(ctx context.Context, tip model.LocalTip, travelID string) {
	m.mutate(ctx, func() bool {
		i := m.indexLocked(travelID)
		if i < 0 {
			return false
		}
		for j := range m.travels[i].LocalTips {
			if m.travels[i].LocalTips[j].ID == tip.ID {
				m.travels[i].LocalTips[j].IsBookmarked = !m.travels[i].LocalTips[j].IsBookmarked
				return true
			}
		}
		return false
	})
}

// Recompute rebuilds the partitions against the current time.
func (m *TravelManager) Recompute() {
	m.mu.Lock()
	m.recomputeLocked()
	m.mu.Unlock()
	m.publish(Event{Kind: TravelsChanged})
}

// Travels returns a copy of the collection in insertion order.
func (m *TravelManager) Travels() []model.Travel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTravels(m.travels)
}

// ActiveTravels returns the active partition in collection order.
func (m *TravelManager) ActiveTravels() []model.Travel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTravels(m.active)
}

// UpcomingTravels returns trips departing after now, soonest first.
func (m *TravelManager) UpcomingTravels() []model.Travel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTravels(m.upcoming)
}

// PastTravels returns trips that have returned, most recent departure first.
func (m *TravelManager) PastTravels() []model.Travel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTravels(m.past)
}

// Travel returns the travel with the given identity.
func (m *TravelManager) Travel(id string) (model.Travel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexLocked(id); i >= 0 {
		return cloneTravel(m.travels[i]), true
	}
	return model.Travel{}, false
}

// CurrentTravel returns the first travel, in collection order, that is
// active right now.
func (m *TravelManager) CurrentTravel() (model.Travel, bool) {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.travels {
		if t.IsCurrent(now) {
			return cloneTravel(t), true
		}
	}
	return model.Travel{}, false
}

// UpcomingItinerary returns at most limit items of the given travel dated
// at or after now, soonest first.
func (m *TravelManager) UpcomingItinerary(travelID string, limit int) []model.ItineraryItem {
	now := m.now()
	t, ok := m.Travel(travelID)
	if !ok {
		return []model.ItineraryItem{}
	}

	items := []model.ItineraryItem{}
	for _, it := range t.ItineraryItems {
		if !it.Date.Before(now) {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// BookmarkedTips returns the bookmarked tips of the given travel.
func (m *TravelManager) BookmarkedTips(travelID string) []model.LocalTip {
	t, ok := m.Travel(travelID)
	if !ok {
		return []model.LocalTip{}
	}
	tips := []model.LocalTip{}
	for _, tip := range t.LocalTips {
		if tip.IsBookmarked {
			tips = append(tips, tip)
		}
	}
	return tips
}

// TravelTimeZone returns the local zone of the given travel.
func (m *TravelManager) TravelTimeZone(travelID string) (model.Zone, bool) {
	t, ok := m.Travel(travelID)
	if !ok {
		return model.Zone{}, false
	}
	return t.LocalTimeZone, true
}

// Statistics summarizes the collection. Active counts the active flag
// regardless of dates.
func (m *TravelManager) Statistics() model.TravelStatistics {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := model.TravelStatistics{Total: len(m.travels)}
	for _, t := range m.travels {
		if t.IsActive {
			stats.Active++
		}
		if t.IsUpcoming(now) {
			stats.Upcoming++
		}
		if t.IsPast(now) {
			stats.Past++
		}
	}
	return stats
}

func (m *TravelManager) indexLocked(id string) int {
	for i, t := range m.travels {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// rescheduleLocked cancels the reminders owned by old and schedules those
// of current.
func (m *TravelManager) rescheduleLocked(ctx context.Context, old, current model.Travel) {
	if m.reminders == nil {
		return
	}
	m.reminders.CancelTravelReminders(ctx, old)
	m.reminders.ScheduleTravelReminders(ctx, current)
	m.reminders.ScheduleTimeZoneReminder(ctx, current)
}

// mutate runs fn under the lock; when it reports a change the collection
// is persisted, the partitions recomputed and observers notified.
func (m *TravelManager) mutate(ctx context.Context, fn func() bool) {
	m.mu.Lock()
	if !fn() {
		m.mu.Unlock()
		return
	}
	if err := m.store.SaveTravels(ctx, m.travels); err != nil {
		m.logger.Error("failed to save travels", zap.Int("count", len(m.travels)), zap.Error(err))
	}
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(Event{Kind: TravelsChanged})
}

func (m *TravelManager) recomputeLocked() {
	m.active, m.upcoming, m.past = PartitionTravels(m.travels, m.now())
}

// PartitionTravels classifies travels against now. The three predicates
// are independent, so a travel may appear in none of the partitions.
func PartitionTravels(travels []model.Travel, now time.Time) (active, upcoming, past []model.Travel) {
	active, upcoming, past = []model.Travel{}, []model.Travel{}, []model.Travel{}
	for _, t := range travels {
		if t.IsCurrent(now) {
			active = append(active, t)
		}
		if t.IsUpcoming(now) {
			upcoming = append(upcoming, t)
		}
		if t.IsPast(now) {
			past = append(past, t)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DepartureDate.Before(upcoming[j].DepartureDate)
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].DepartureDate.After(past[j].DepartureDate)
	})
	return active, upcoming, past
}

// cloneTravel copies the nested slices so callers cannot alias manager state.
func cloneTravel(t model.Travel) model.Travel {
	t.ItineraryItems = append([]model.ItineraryItem{}, t.ItineraryItems...)
	t.LocalTips = append([]model.LocalTip{}, t.LocalTips...)
	return t
}

func cloneTravels(travels []model.Travel) []model.Travel {
	out := make([]model.Travel, 0, len(travels))
	for _, t := range travels {
		out = append(out, cloneTravel(t))
	}
	return out
}
