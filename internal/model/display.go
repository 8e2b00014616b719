package model

// Meta is the presentation metadata attached to an enum tag.
type Meta struct {
	Label string
	Icon  string
	Color string
}

var priorityMeta = map[Priority]Meta{
	PriorityLow:    {Label: "Low", Color: "#1ed55f"},
	PriorityMedium: {Label: "Medium", Color: "#ffc934"},
	PriorityHigh:   {Label: "High", Color: "#ffff03"},
	PriorityUrgent: {Label: "Urgent", Color: "#eb262f"},
}

var categoryMeta = map[Category]Meta{
	CategoryPersonal: {Label: "Personal", Icon: "person.fill"},
	CategoryWork:     {Label: "Work", Icon: "briefcase.fill"},
	CategoryTravel:   {Label: "Travel", Icon: "airplane"},
	CategoryHealth:   {Label: "Health", Icon: "heart.fill"},
	CategoryShopping: {Label: "Shopping", Icon: "cart.fill"},
	CategoryOther:    {Label: "Other", Icon: "folder.fill"},
}

var itineraryMeta = map[ItineraryType]Meta{
	ItineraryFlight:         {Label: "Flight", Icon: "airplane"},
	ItineraryAccommodation:  {Label: "Accommodation", Icon: "bed.double.fill"},
	ItineraryActivity:       {Label: "Activity", Icon: "star.fill"},
	ItineraryMeeting:        {Label: "Meeting", Icon: "person.2.fill"},
	ItineraryDining:         {Label: "Dining", Icon: "fork.knife"},
	ItineraryTransportation: {Label: "Transportation", Icon: "car.fill"},
}

var tipMeta = map[TipCategory]Meta{
	TipGeneral:        {Label: "General", Icon: "info.circle.fill"},
	TipFood:           {Label: "Food & Dining", Icon: "fork.knife.circle.fill"},
	TipTransportation: {Label: "Transportation", Icon: "car.circle.fill"},
	TipCulture:        {Label: "Culture", Icon: "building.columns.fill"},
	TipSafety:         {Label: "Safety", Icon: "shield.fill"},
	TipShopping:       {Label: "Shopping", Icon: "bag.fill"},
}

// PriorityMeta returns the display metadata for p.
func PriorityMeta(p Priority) Meta {
	if m, ok := priorityMeta[p]; ok {
		return m
	}
	return Meta{Label: string(p)}
}

// CategoryMeta returns the display metadata for c.
func CategoryMeta(c Category) Meta {
	if m, ok := categoryMeta[c]; ok {
		return m
	}
	return Meta{Label: string(c)}
}

// ItineraryMeta returns the display metadata for t.
func ItineraryMeta(t ItineraryType) Meta {
	if m, ok := itineraryMeta[t]; ok {
		return m
	}
	return Meta{Label: string(t)}
}

// TipMeta returns the display metadata for c.
func TipMeta(c TipCategory) Meta {
	if m, ok := tipMeta[c]; ok {
		return m
	}
	return Meta{Label: string(c)}
}
