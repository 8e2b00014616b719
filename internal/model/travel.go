package model

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryType classifies an itinerary entry.
type ItineraryType string

const (
	ItineraryFlight         ItineraryType = "flight"
	ItineraryAccommodation  ItineraryType = "accommodation"
	ItineraryActivity       ItineraryType = "activity"
	ItineraryMeeting        ItineraryType = "meeting"
	ItineraryDining         ItineraryType = "dining"
	ItineraryTransportation ItineraryType = "transportation"
)

// ItineraryTypes lists every itinerary type in display order.
var ItineraryTypes = []ItineraryType{
	ItineraryFlight, ItineraryAccommodation, ItineraryActivity,
	ItineraryMeeting, ItineraryDining, ItineraryTransportation,
}

// TipCategory classifies a local tip.
type TipCategory string

const (
	TipGeneral        TipCategory = "general"
	TipFood           TipCategory = "food"
	TipTransportation TipCategory = "transportation"
	TipCulture        TipCategory = "culture"
	TipSafety         TipCategory = "safety"
	TipShopping       TipCategory = "shopping"
)

// TipCategories lists every tip category in display order.
var TipCategories = []TipCategory{
	TipGeneral, TipFood, TipTransportation, TipCulture, TipSafety, TipShopping,
}

// Travel is a planned trip. Itinerary items and tips are owned by the trip
// and go away with it.
type Travel struct {
	ID             string          `json:"id"`
	Destination    string          `json:"destination"`
	DepartureDate  time.Time       `json:"departure_date"`
	ReturnDate     *time.Time      `json:"return_date,omitempty"`
	FlightNumber   *string         `json:"flight_number,omitempty"`
	Accommodation  *string         `json:"accommodation,omitempty"`
	LocalTimeZone  Zone            `json:"local_time_zone"`
	Notes          string          `json:"notes"`
	ItineraryItems []ItineraryItem `json:"itinerary_items"`
	LocalTips      []LocalTip      `json:"local_tips"`
	IsActive       bool            `json:"is_active"`
}

// NewTravel builds an inactive trip with a fresh identity and no
// itinerary or tips.
func NewTravel(destination string, departure time.Time, ret *time.Time, zone Zone) Travel {
	if zone.Location() == nil {
		zone = LocalZone()
	}
	t := Travel{
		ID:             uuid.New().String(),
		Destination:    destination,
		DepartureDate:  departure,
		LocalTimeZone:  zone,
		ItineraryItems: []ItineraryItem{},
		LocalTips:      []LocalTip{},
	}
	if ret != nil {
		r := *ret
		t.ReturnDate = &r
	}
	return t
}

// IsCurrent reports whether the trip is flagged active and now falls between
// departure and return (inclusive). A trip without a return date stays
// current once it has departed.
func (t Travel) IsCurrent(now time.Time) bool {
	return t.IsActive &&
		!t.DepartureDate.After(now) &&
		(t.ReturnDate == nil || !t.ReturnDate.Before(now))
}

// IsUpcoming reports whether departure is strictly after now, regardless
// of the active flag.
func (t Travel) IsUpcoming(now time.Time) bool {
	return t.DepartureDate.After(now)
}

// IsPast reports whether the trip has a return date strictly before now.
func (t Travel) IsPast(now time.Time) bool {
	return t.ReturnDate != nil && t.ReturnDate.Before(now)
}

// LocalTime returns ts expressed in the trip's local zone.
func (t Travel) LocalTime(ts time.Time) time.Time {
	return t.LocalTimeZone.In(ts)
}

// ItineraryItem is a scheduled entry within a trip.
type ItineraryItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	Location    *string       `json:"location,omitempty"`
	Type        ItineraryType `json:"type"`
}

// NewItineraryItem builds an item with a fresh identity. An empty type
// defaults to activity.
func NewItineraryItem(title, description string, date time.Time, location *string, typ ItineraryType) ItineraryItem {
	if typ == "" {
		typ = ItineraryActivity
	}
	return ItineraryItem{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		Type:        typ,
	}
}

// LocalTip is a piece of destination advice attached to a trip.
type LocalTip struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	Category     TipCategory `json:"category"`
	IsBookmarked bool        `json:"is_bookmarked"`
}

// NewLocalTip builds an unbookmarked tip with a fresh identity. An empty
// category defaults to general.
func NewLocalTip(title, content string, category TipCategory) LocalTip {
	if category == "" {
		category = TipGeneral
	}
	return LocalTip{
		ID:       uuid.New().String(),
		Title:    title,
		Content:  content,
		Category: category,
	}
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
