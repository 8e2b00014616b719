package model

import (
	"testing"
	"time"
)

func TestTravelPhases(t *testing.T) {
	day := 24 * time.Hour
	ret := func(d time.Duration) *time.Time { r := now.Add(d); return &r }

	tests := []struct {
		name         string
		departure    time.Time
		ret          *time.Time
		active       bool
		wantCurrent  bool
		wantUpcoming bool
		wantPast     bool
	}{
		{name: "in progress", departure: now.Add(-day), ret: ret(day), active: true, wantCurrent: true},
		{name: "in progress but inactive", departure: now.Add(-day), ret: ret(day)},
		{name: "open ended", departure: now.Add(-day), active: true, wantCurrent: true},
		{name: "departs later", departure: now.Add(day), ret: ret(2 * day), active: true, wantUpcoming: true},
		{name: "returned", departure: now.Add(-3 * day), ret: ret(-day), active: true, wantPast: true},
		{name: "departs now", departure: now, active: true, wantCurrent: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := NewTravel("Tokyo", tt.departure, tt.ret, ZoneOrLocal("Asia/Tokyo"))
			trip.IsActive = tt.active
			if got := trip.IsCurrent(now); got != tt.wantCurrent {
				t.Errorf("IsCurrent = %v", got)
			}
			if got := trip.IsUpcoming(now); got != tt.wantUpcoming {
				t.Errorf("IsUpcoming = %v", got)
			}
			if got := trip.IsPast(now); got != tt.wantPast {
				t.Errorf("IsPast = %v", got)
			}
		})
	}
}

func TestNewTravelDefaults(t *testing.T) {
	trip := NewTravel("Paris", now, nil, Zone{})
	if trip.LocalTimeZone.Location() != time.Local {
		t.Fatal("zero zone should default to local")
	}
	if trip.IsActive || trip.ItineraryItems == nil || trip.LocalTips == nil {
		t.Fatalf("unexpected trip %+v", trip)
	}
	if got := trip.LocalTime(now); !got.Equal(now) {
		t.Fatal("LocalTime must keep the instant")
	}
}

func TestItemAndTipDefaults(t *testing.T) {
	item := NewItineraryItem("Temple", "", now, nil, "")
	if item.Type != ItineraryActivity || item.ID == "" {
		t.Fatalf("unexpected item %+v", item)
	}
	tip := NewLocalTip("Cash", "Carry yen", "")
	if tip.Category != TipGeneral || tip.IsBookmarked {
		t.Fatalf("unexpected tip %+v", tip)
	}
	if StringPtr("") != nil || *StringPtr("x") != "x" {
		t.Fatal("StringPtr")
	}
}
