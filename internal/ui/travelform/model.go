package travelform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskventure/internal/model"
	"github.com/nhle/taskventure/internal/theme"
	"github.com/nhle/taskventure/internal/ui"
	"github.com/nhle/taskventure/internal/validation"
)

// Kind selects which form is shown.
type Kind int

const (
	KindTravel Kind = iota
	KindItem
	KindTip
)

// TravelSubmittedMsg carries a created (EditID empty) or edited trip.
type TravelSubmittedMsg struct {
	EditID string
	Edit   TravelEdit
}

// ItemSubmittedMsg carries a new itinerary item for TravelID.
type ItemSubmittedMsg struct {
	TravelID string
	Item     model.ItineraryItem
}

// TipSubmittedMsg carries a new local tip for TravelID.
type TipSubmittedMsg struct {
	TravelID string
	Tip      model.LocalTip
}

// CancelMsg is dispatched when the user aborts any of the forms.
type CancelMsg struct{}

// TravelEdit holds the trip fields captured by the form.
type TravelEdit struct {
	Destination   string
	Departure     time.Time
	Return        *time.Time
	Zone          model.Zone
	FlightNumber  *string
	Accommodation *string
	Notes         string
}

// Apply copies the edit onto t, keeping identity, itinerary, tips and the
// active flag.
func (e TravelEdit) Apply(t model.Travel) model.Travel {
	t.Destination = e.Destination
	t.DepartureDate = e.Departure
	t.ReturnDate = e.Return
	t.LocalTimeZone = e.Zone
	t.FlightNumber = e.FlightNumber
	t.Accommodation = e.Accommodation
	t.Notes = e.Notes
	return t
}

// New builds a trip from the edit.
func (e TravelEdit) New() model.Travel {
	t := model.NewTravel(e.Destination, e.Departure, e.Return, e.Zone)
	return e.Apply(t)
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	destination   string
	departure     string
	returnDate    string
	zone          string
	flightNumber  string
	accommodation string
	notes         string

	title       string
	description string
	date        string
	location    string
	itemType    model.ItineraryType

	content     string
	tipCategory model.TipCategory
}

// Model is the Bubble Tea model for the trip, itinerary item and tip forms.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	kind     Kind
	editID   string
	travelID string
	tripZone model.Zone
	width    int
	height   int
}

// New creates a new form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate opens an empty trip form. Departure defaults to a week from now.
func (m *Model) StartCreate(now time.Time) tea.Cmd {
	m.kind = KindTravel
	m.editID = ""
	depart := now.Add(7 * 24 * time.Hour)
	*m.fb = formBindings{departure: ui.FormatDateTime(&depart, nil)}
	return m.start()
}

// StartEdit opens the trip form filled from t.
func (m *Model) StartEdit(t model.Travel) tea.Cmd {
	m.kind = KindTravel
	m.editID = t.ID
	loc := t.LocalTimeZone.Location()
	*m.fb = formBindings{
		destination: t.Destination,
		departure:   ui.FormatDateTime(&t.DepartureDate, loc),
		returnDate:  ui.FormatDateTime(t.ReturnDate, loc),
		zone:        t.LocalTimeZone.Name(),
		notes:       t.Notes,
	}
	if t.FlightNumber != nil {
		m.fb.flightNumber = *t.FlightNumber
	}
	if t.Accommodation != nil {
		m.fb.accommodation = *t.Accommodation
	}
	return m.start()
}

// StartItem opens the itinerary item form for trip t. Dates are entered in
// the trip's local zone.
func (m *Model) StartItem(t model.Travel) tea.Cmd {
	m.kind = KindItem
	m.travelID = t.ID
	m.tripZone = t.LocalTimeZone
	*m.fb = formBindings{
		date:     ui.FormatDateTime(&t.DepartureDate, t.LocalTimeZone.Location()),
		itemType: model.ItineraryActivity,
	}
	return m.start()
}

// StartTip opens the local tip form for trip t.
func (m *Model) StartTip(t model.Travel) tea.Cmd {
	m.kind = KindTip
	m.travelID = t.ID
	*m.fb = formBindings{tipCategory: model.TipGeneral}
	return m.start()
}

func (m *Model) start() tea.Cmd {
	switch m.kind {
	case KindItem:
		m.form = m.buildItemForm()
	case KindTip:
		m.form = m.buildTipForm()
	default:
		m.form = m.buildTravelForm()
	}
	return m.form.Init()
}

// Update handles messages for the active form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the active form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	var titleText string
	switch m.kind {
	case KindItem:
		titleText = "New Itinerary Item"
	case KindTip:
		titleText = "New Local Tip"
	default:
		titleText = "New Trip"
		if m.editID != "" {
			titleText = "Edit Trip"
		}
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildTravelForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Destination").
				Placeholder("City, Country").
				Value(&m.fb.destination).
				Validate(func(s string) error {
					return validation.Struct(validation.TravelInput{Destination: s})
				}),
			huh.NewInput().
				Title("Time Zone").
				Placeholder("IANA name, e.g. Asia/Tokyo (empty for local)").
				Value(&m.fb.zone).
				Validate(validateZone),
			huh.NewInput().
				Title("Departure").
				Placeholder("YYYY-MM-DD HH:MM, destination time").
				Value(&m.fb.departure).
				Validate(ui.ValidateDateTime),
			huh.NewInput().
				Title("Return").
				Placeholder("YYYY-MM-DD HH:MM (optional)").
				Value(&m.fb.returnDate).
				Validate(ui.ValidateOptionalDateTime),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Flight Number").
				Placeholder("optional").
				Value(&m.fb.flightNumber),
			huh.NewInput().
				Title("Accommodation").
				Placeholder("optional").
				Value(&m.fb.accommodation),
			huh.NewText().
				Title("Notes").
				Placeholder("Markdown is supported").
				Value(&m.fb.notes),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m *Model) buildItemForm() *huh.Form {
	types := make([]huh.Option[model.ItineraryType], 0, len(model.ItineraryTypes))
	for _, t := range model.ItineraryTypes {
		types = append(types, huh.NewOption(model.ItineraryMeta(t).Label, t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.fb.title).
				Validate(func(s string) error {
					return validation.Struct(validation.ItineraryInput{Title: s})
				}),
			huh.NewSelect[model.ItineraryType]().
				Title("Type").
				Options(types...).
				Value(&m.fb.itemType),
			huh.NewInput().
				Title("When").
				Placeholder("YYYY-MM-DD HH:MM, "+m.tripZone.Name()).
				Value(&m.fb.date).
				Validate(ui.ValidateDateTime),
			huh.NewInput().
				Title("Location").
				Placeholder("optional").
				Value(&m.fb.location),
			huh.NewText().
				Title("Description").
				Value(&m.fb.description),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m *Model) buildTipForm() *huh.Form {
	cats := make([]huh.Option[model.TipCategory], 0, len(model.TipCategories))
	for _, c := range model.TipCategories {
		cats = append(cats, huh.NewOption(model.TipMeta(c).Label, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.fb.title).
				Validate(func(s string) error {
					return validation.Struct(validation.TipInput{Title: s, Content: "-"})
				}),
			huh.NewSelect[model.TipCategory]().
				Title("Category").
				Options(cats...).
				Value(&m.fb.tipCategory),
			huh.NewText().
				Title("Tip").
				Value(&m.fb.content).
				Validate(func(s string) error {
					return validation.Struct(validation.TipInput{Title: "-", Content: s})
				}),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) handleSubmit() tea.Cmd {
	var msg tea.Msg
	var err error

	switch m.kind {
	case KindItem:
		var item model.ItineraryItem
		item, err = m.fb.item(m.tripZone)
		msg = ItemSubmittedMsg{TravelID: m.travelID, Item: item}
	case KindTip:
		var tip model.LocalTip
		tip, err = m.fb.tip()
		msg = TipSubmittedMsg{TravelID: m.travelID, Tip: tip}
	default:
		var edit TravelEdit
		edit, err = m.fb.travel()
		msg = TravelSubmittedMsg{EditID: m.editID, Edit: edit}
	}

	if err != nil {
		return func() tea.Msg { return CancelMsg{} }
	}
	return func() tea.Msg { return msg }
}

func (fb *formBindings) travel() (TravelEdit, error) {
	zoneName := strings.TrimSpace(fb.zone)
	if strings.EqualFold(zoneName, "local") {
		zoneName = ""
	}
	in := validation.TravelInput{
		Destination: validation.SanitizeText(fb.destination),
		Zone:        zoneName,
	}
	if err := validation.Struct(in); err != nil {
		return TravelEdit{}, err
	}

	zone := model.ZoneOrLocal(in.Zone)
	depart, err := ui.ParseDateTime(fb.departure, zone.Location())
	if err != nil {
		return TravelEdit{}, err
	}
	ret, err := ui.ParseOptionalDateTime(fb.returnDate, zone.Location())
	if err != nil {
		return TravelEdit{}, err
	}
	if ret != nil && ret.Before(depart) {
		return TravelEdit{}, fmt.Errorf("return must not be before departure")
	}

	return TravelEdit{
		Destination:   in.Destination,
		Departure:     depart,
		Return:        ret,
		Zone:          zone,
		FlightNumber:  model.StringPtr(strings.TrimSpace(fb.flightNumber)),
		Accommodation: model.StringPtr(strings.TrimSpace(fb.accommodation)),
		Notes:         strings.TrimSpace(fb.notes),
	}, nil
}

func (fb *formBindings) item(zone model.Zone) (model.ItineraryItem, error) {
	in := validation.ItineraryInput{
		Title: validation.SanitizeText(fb.title),
		Type:  string(fb.itemType),
	}
	if err := validation.Struct(in); err != nil {
		return model.ItineraryItem{}, err
	}
	date, err := ui.ParseDateTime(fb.date, zone.Location())
	if err != nil {
		return model.ItineraryItem{}, err
	}
	return model.NewItineraryItem(
		in.Title,
		validation.SanitizeText(fb.description),
		date,
		model.StringPtr(strings.TrimSpace(fb.location)),
		fb.itemType,
	), nil
}

func (fb *formBindings) tip() (model.LocalTip, error) {
	in := validation.TipInput{
		Title:    validation.SanitizeText(fb.title),
		Content:  validation.SanitizeText(fb.content),
		Category: string(fb.tipCategory),
	}
	if err := validation.Struct(in); err != nil {
		return model.LocalTip{}, err
	}
	return model.NewLocalTip(in.Title, in.Content, fb.tipCategory), nil
}

func validateZone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "local") {
		return nil
	}
	if _, err := model.LoadZone(s); err != nil {
		return fmt.Errorf("unknown time zone %q", s)
	}
	return nil
}
