package viewmodel

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nhle/taskventure/internal/model"
)

func newTravelManager(t *testing.T, opts ...Option) *TravelManager {
	t.Helper()
	g, _ := newGateway(t)
	opts = append([]Option{WithClock(fixedClock), WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewTravelManager(context.Background(), g, opts...)
}

func trip(dest string, departure time.Duration, ret *time.Duration, active bool) model.Travel {
	var r *time.Time
	if ret != nil {
		v := now.Add(*ret)
		r = &v
	}
	t := model.NewTravel(dest, now.Add(departure), r, model.LocalZone())
	t.IsActive = active
	return t
}

func dur(d time.Duration) *time.Duration { return &d }

func TestPartitionTravels(t *testing.T) {
	tests := []struct {
		name                   string
		travel                 model.Travel
		active, upcoming, past bool
	}{
		{name: "active in progress", travel: trip("Oslo", -time.Hour, dur(time.Hour), true), active: true},
		{name: "in progress but not flagged", travel: trip("Bergen", -time.Hour, dur(time.Hour), false)},
		{name: "active without return", travel: trip("Lima", -time.Hour, nil, true), active: true},
		{name: "flagged but not departed", travel: trip("Quito", time.Hour, nil, true), upcoming: true},
		{name: "returned", travel: trip("Rome", -5*day, dur(-2*day), false), past: true},
		{name: "returned but still flagged", travel: trip("Nice", -5*day, dur(-2*day), true), past: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, u, p := PartitionTravels([]model.Travel{tt.travel}, now)
			if (len(a) == 1) != tt.active || (len(u) == 1) != tt.upcoming || (len(p) == 1) != tt.past {
				t.Fatalf("expected active=%v upcoming=%v past=%v, got %d/%d/%d",
					tt.active, tt.upcoming, tt.past, len(a), len(u), len(p))
			}
		})
	}
}

func TestTravelManager_PartitionOrdering(t *testing.T) {
	ctx := context.Background()
	m := newTravelManager(t)

	m.Add(ctx, trip("Ten days", 10*day, nil, false))
	m.Add(ctx, trip("Old trip", -30*day, dur(-25*day), false))
	m.Add(ctx, trip("Five days", 5*day, nil, false))
	m.Add(ctx, trip("Recent trip", -5*day, dur(-2*day), false))

	if got := destinations(m.UpcomingTravels()); !equalStrings(got, []string{"Five days", "Ten days"}) {
		t.Errorf("upcoming: got %v", got)
	}
	if got := destinations(m.PastTravels()); !equalStrings(got, []string{"Recent trip", "Old trip"}) {
		t.Errorf("past: got %v", got)
	}
	if got := m.ActiveTravels(); len(got) != 0 {
		t.Errorf("active: expected none, got %v", destinations(got))
	}
}

func TestTravelManager_DeleteItineraryKeepsPartition(t *testing.T) {
	ctx := context.Background()
	m := newTravelManager(t)

	rome := trip("Rome", -5*day, dur(-2*day), false)
	item := model.NewItineraryItem("Colosseum", "", now.Add(-4*day), nil, model.ItineraryActivity)
	rome.ItineraryItems = []model.ItineraryItem{item}
	m.Add(ctx, rome)

	m.DeleteItineraryItem(ctx, item, rome.ID)

	got, _ := m.Travel(rome.ID)
	if len(got.ItineraryItems) != 0 {
		t.Fatalf("expected item removed, got %d", len(got.ItineraryItems))
	}
	if past := destinations(m.PastTravels()); !equalStrings(past, []string{"Rome"}) {
		t.Fatalf("partition changed after itinerary deletion: %v", past)
	}
}

func TestTravelManager_NestedCollections(t *testing.T) {
	ctx := context.Background()
	m := newTravelManager(t)

	tokyo := trip("Tokyo", 7*day, dur(14*day), false)
	m.Add(ctx, tokyo)

	later := model.NewItineraryItem("Senso-ji", "", tokyo.DepartureDate.Add(day), nil, "")
	first := model.NewItineraryItem("Narita", "", tokyo.DepartureDate, model.StringPtr("Narita Airport"), model.ItineraryFlight)
	m.AddItineraryItem(ctx, later, tokyo.ID)
	m.AddItineraryItem(ctx, first, tokyo.ID)

	// Stored order is insertion order; the upcoming query sorts.
	got, _ := m.Travel(tokyo.ID)
	if got.ItineraryItems[0].ID != later.ID {
		t.Fatal("itinerary items must not be re-sorted")
	}
	upcoming := m.UpcomingItinerary(tokyo.ID, 5)
	if len(upcoming) != 2 || upcoming[0].ID != first.ID {
		t.Fatalf("unexpected upcoming itinerary %+v", upcoming)
	}
	if got := m.UpcomingItinerary(tokyo.ID, 1); len(got) != 1 {
		t.Fatalf("limit not applied, got %d", len(got))
	}

	first.Title = "Arrival at Narita"
	m.UpdateItineraryItem(ctx, first, tokyo.ID)
	got, _ = m.Travel(tokyo.ID)
	if got.ItineraryItems[1].Title != "Arrival at Narita" {
		t.Fatalf("item not updated: %q", got.ItineraryItems[1].Title)
	}

	tip := model.NewLocalTip("Trains", "Get a JR Pass", model.TipTransportation)
	m.AddLocalTip(ctx, tip, tokyo.ID)
	if len(m.BookmarkedTips(tokyo.ID)) != 0 {
		t.Fatal("new tips are not bookmarked")
	}
	m.ToggleTipBookmark(ctx, tip, tokyo.ID)
	if got := m.BookmarkedTips(tokyo.ID); len(got) != 1 || got[0].ID != tip.ID {
		t.Fatalf("expected bookmarked tip, got %+v", got)
	}
	m.ToggleTipBookmark(ctx, tip, tokyo.ID)
	if len(m.BookmarkedTips(tokyo.ID)) != 0 {
		t.Fatal("second toggle should clear the bookmark")
	}

	// Identity misses are silent.
	m.AddItineraryItem(ctx, first, "missing")
	m.AddLocalTip(ctx, tip, "missing")
	m.ToggleTipBookmark(ctx, model.NewLocalTip("x", "y", ""), tokyo.ID)
	m.Update(ctx, trip("Nowhere", day, nil, false))
	if len(m.Travels()) != 1 {
		t.Fatalf("expected 1 travel, got %d", len(m.Travels()))
	}
	if got := m.UpcomingItinerary("missing", 5); len(got) != 0 {
		t.Fatalf("unknown travel should have no itinerary, got %d", len(got))
	}
}

func TestTravelManager_ReturnedSlicesDoNotAlias(t *testing.T) {
	ctx := context.Background()
	m := newTravelManager(t)

	tokyo := trip("Tokyo", 7*day, nil, false)
	tokyo.ItineraryItems = make([]model.ItineraryItem, 0, 4)
	m.Add(ctx, tokyo)

	// Appending to the caller's copy must not leak into the manager.
	_ = append(tokyo.ItineraryItems, model.NewItineraryItem("x", "", now, nil, ""))
	got, _ := m.Travel(tokyo.ID)
	got.ItineraryItems = append(got.ItineraryItems, model.NewItineraryItem("y", "", now, nil, ""))

	again, _ := m.Travel(tokyo.ID)
	if len(again.ItineraryItems) != 0 {
		t.Fatalf("manager state was aliased: %d items", len(again.ItineraryItems))
	}
}

func TestTravelManager_CurrentTravelAndToggle(t *testing.T) {
	ctx := context.Background()
	m := newTravelManager(t)

	oslo := trip("Oslo", -time.Hour, dur(time.Hour), false)
	m.Add(ctx, oslo)
	if _, ok := m.CurrentTravel(); ok {
		t.Fatal("inactive trip should not be current")
	}

	m.ToggleActive(ctx, oslo)
	cur, ok := m.CurrentTravel()
	if !ok || cur.ID != oslo.ID {
		t.Fatal("expected Oslo to be current")
	}
	if got := destinations(m.ActiveTravels()); !equalStrings(got, []string{"Oslo"}) {
		t.Fatalf("active: got %v", got)
	}
	if len(m.UpcomingTravels()) != 0 || len(m.PastTravels()) != 0 {
		t.Fatal("active trip must not be upcoming or past")
	}

	zone, ok := m.TravelTimeZone(oslo.ID)
	if !ok || !zone.Equal(model.LocalZone()) {
		t.Fatalf("unexpected zone %v", zone)
	}

	stats := m.Statistics()
	if stats != (model.TravelStatistics{Total: 1, Active: 1}) {
		t.Fatalf("unexpected statistics %+v", stats)
	}

	m.Delete(ctx, oslo)
	if len(m.Travels()) != 0 || len(m.ActiveTravels()) != 0 {
		t.Fatal("delete should remove the travel from every view")
	}
}

func TestTravelManager_Reminders(t *testing.T) {
	ctx := context.Background()
	r := &reminderLog{}
	m := newTravelManager(t, WithTravelReminders(r))

	tokyo := trip("Tokyo", 7*day, nil, false)
	item := model.NewItineraryItem("Narita", "", tokyo.DepartureDate, nil, model.ItineraryFlight)
	tokyo.ItineraryItems = []model.ItineraryItem{item}

	m.Add(ctx, tokyo)
	for _, id := range []string{"travel_departure_" + tokyo.ID, "timezone_" + tokyo.ID, "itinerary_" + item.ID} {
		if !contains(r.scheduled, id) {
			t.Errorf("expected %s scheduled, got %v", id, r.scheduled)
		}
	}

	r.reset()
	extra := model.NewItineraryItem("Hotel", "", tokyo.DepartureDate.Add(3*time.Hour), nil, model.ItineraryAccommodation)
	m.AddItineraryItem(ctx, extra, tokyo.ID)
	if !equalStrings(r.scheduled, []string{"itinerary_" + extra.ID}) {
		t.Errorf("expected only the new item scheduled, got %v", r.scheduled)
	}

	r.reset()
	m.DeleteItineraryItem(ctx, extra, tokyo.ID)
	if !contains(r.cancelled, "itinerary_"+extra.ID) {
		t.Errorf("expected item reminder cancelled, got %v", r.cancelled)
	}

	r.reset()
	m.Delete(ctx, tokyo)
	if !contains(r.cancelled, "travel_departure_"+tokyo.ID) {
		t.Errorf("expected travel reminders cancelled, got %v", r.cancelled)
	}
}

func TestSampleData(t *testing.T) {
	ctx := context.Background()
	tasks := newTaskManager(t)
	travels := newTravelManager(t)

	tasks.CreateSampleTasks(ctx)
	travels.CreateSampleTravels(ctx)

	if len(tasks.Tasks()) != 4 {
		t.Fatalf("expected 4 sample tasks, got %d", len(tasks.Tasks()))
	}
	if got := titles(tasks.UpcomingTasks(1)); !equalStrings(got, []string{"Book dinner reservation"}) {
		t.Errorf("soonest sample task: got %v", got)
	}

	if got := destinations(travels.UpcomingTravels()); !equalStrings(got, []string{"Tokyo, Japan", "Paris, France"}) {
		t.Fatalf("sample travels: got %v", got)
	}
	tokyo := travels.UpcomingTravels()[0]
	if len(tokyo.ItineraryItems) != 3 || len(tokyo.LocalTips) != 3 {
		t.Fatalf("expected 3 items and 3 tips, got %d/%d", len(tokyo.ItineraryItems), len(tokyo.LocalTips))
	}
	if tokyo.LocalTimeZone.Name() != "Asia/Tokyo" {
		t.Fatalf("unexpected Tokyo zone %s", tokyo.LocalTimeZone)
	}
}
