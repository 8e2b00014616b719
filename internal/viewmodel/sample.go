package viewmodel

import (
	"context"
	"time"

	"github.com/nhle/taskventure/internal/model"
)

const day = 24 * time.Hour

// SampleTasks returns the demo task set relative to now.
func SampleTasks(now time.Time) []model.Task {
	return []model.Task{
		model.NewTask("Pack luggage for Tokyo trip", now,
			model.WithDescription("Don't forget passport and chargers"),
			model.WithPriority(model.PriorityHigh),
			model.WithDueDate(now.Add(2*day)),
			model.WithCategory(model.CategoryTravel)),
		model.NewTask("Book dinner reservation", now,
			model.WithDescription("Try the new sushi place"),
			model.WithPriority(model.PriorityMedium),
			model.WithDueDate(now.Add(4*time.Hour)),
			model.WithCategory(model.CategoryPersonal)),
		model.NewTask("Finish quarterly report", now,
			model.WithDescription("Q3 financial analysis"),
			model.WithPriority(model.PriorityUrgent),
			model.WithDueDate(now.Add(day)),
			model.WithCategory(model.CategoryWork)),
		model.NewTask("Buy groceries", now,
			model.WithDescription("Milk, bread, fruits"),
			model.WithPriority(model.PriorityLow),
			model.WithDueDate(now.Add(3*day)),
			model.WithCategory(model.CategoryShopping)),
	}
}

// SampleTravels returns the demo trips relative to now: Tokyo with an
// itinerary and tips, and Paris without.
func SampleTravels(now time.Time) []model.Travel {
	tokyoReturn := now.Add(14 * day)
	tokyo := model.NewTravel("Tokyo, Japan", now.Add(7*day), &tokyoReturn, model.ZoneOrLocal("Asia/Tokyo"))
	tokyo.ItineraryItems = []model.ItineraryItem{
		model.NewItineraryItem("Arrival at Narita Airport", "", tokyo.DepartureDate,
			model.StringPtr("Narita Airport"), model.ItineraryFlight),
		model.NewItineraryItem("Check-in at Hotel", "", tokyo.DepartureDate.Add(3*time.Hour),
			model.StringPtr("Shibuya"), model.ItineraryAccommodation),
		model.NewItineraryItem("Visit Senso-ji Temple", "", tokyo.DepartureDate.Add(day),
			model.StringPtr("Asakusa"), model.ItineraryActivity),
	}
	tokyo.LocalTips = []model.LocalTip{
		model.NewLocalTip("Transportation", "Get a JR Pass for unlimited train rides", model.TipTransportation),
		model.NewLocalTip("Dining Etiquette", "Don't tip at restaurants - it's not customary in Japan", model.TipFood),
		model.NewLocalTip("Language", "Download Google Translate app with camera feature", model.TipGeneral),
	}

	parisReturn := now.Add(37 * day)
	paris := model.NewTravel("Paris, France", now.Add(30*day), &parisReturn, model.ZoneOrLocal("Europe/Paris"))

	return []model.Travel{tokyo, paris}
}

// CreateSampleTasks adds the demo task set.
func (m *TaskManager) CreateSampleTasks(ctx context.Context) {
	for _, t := range SampleTasks(m.now()) {
		m.Add(ctx, t)
	}
}

// CreateSampleTravels adds the demo trips.
func (m *TravelManager) CreateSampleTravels(ctx context.Context) {
	for _, t := range SampleTravels(m.now()) {
		m.Add(ctx, t)
	}
}
