package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/nhle/taskventure/internal/model"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// These should never fail in normal operation.
	register := map[string]validator.Func{
		"notblank":       validateNotBlank,
		"priority":       validatePriority,
		"category":       validateCategory,
		"itinerary_type": validateItineraryType,
		"tip_category":   validateTipCategory,
	}
	for tag, fn := range register {
		if err := Validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
		}
	}
}

// TaskInput is the user-supplied shape of a task before it becomes a model.Task.
type TaskInput struct {
	Title    string `validate:"notblank,max=200"`
	Priority string `validate:"omitempty,priority"`
	Category string `validate:"omitempty,category"`
	Zone     string `validate:"omitempty,timezone"`
}

// TravelInput is the user-supplied shape of a trip.
type TravelInput struct {
	Destination string `validate:"notblank,max=200"`
	Zone        string `validate:"omitempty,timezone"`
}

// ItineraryInput is the user-supplied shape of an itinerary item.
type ItineraryInput struct {
	Title string `validate:"notblank,max=200"`
	Type  string `validate:"omitempty,itinerary_type"`
}

// TipInput is the user-supplied shape of a local tip.
type TipInput struct {
	Title    string `validate:"notblank,max=200"`
	Content  string `validate:"notblank"`
	Category string `validate:"omitempty,tip_category"`
}

// Struct validates v and flattens validator errors into one readable error.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "notblank":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "timezone":
		return fmt.Sprintf("%s %q is not a known time zone", field, fe.Value())
	default:
		return fmt.Sprintf("%s has invalid value %q", field, fe.Value())
	}
}

// validateNotBlank rejects strings that are empty after trimming whitespace
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validatePriority(fl validator.FieldLevel) bool {
	return ValidatePriority(fl.Field().String()) == nil
}

func validateCategory(fl validator.FieldLevel) bool {
	return ValidateCategory(fl.Field().String()) == nil
}

func validateItineraryType(fl validator.FieldLevel) bool {
	return ValidateItineraryType(fl.Field().String()) == nil
}

func validateTipCategory(fl validator.FieldLevel) bool {
	return ValidateTipCategory(fl.Field().String()) == nil
}

// SanitizeText drops control characters other than newline and tab, then
// trims surrounding whitespace.
func SanitizeText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(cleaned)
}

// ValidatePriority validates a Priority string value
func ValidatePriority(value string) error {
	for _, p := range model.Priorities {
		if string(p) == value {
			return nil
		}
	}
	return fmt.Errorf("invalid priority: %s (must be 'low', 'medium', 'high', or 'urgent')", value)
}

// ValidateCategory validates a Category string value
func ValidateCategory(value string) error {
	for _, c := range model.Categories {
		if string(c) == value {
			return nil
		}
	}
	return fmt.Errorf("invalid category: %s", value)
}

// ValidateItineraryType validates an ItineraryType string value
func ValidateItineraryType(value string) error {
	for _, t := range model.ItineraryTypes {
		if string(t) == value {
			return nil
		}
	}
	return fmt.Errorf("invalid itinerary type: %s", value)
}

// ValidateTipCategory validates a TipCategory string value
func ValidateTipCategory(value string) error {
	for _, c := range model.TipCategories {
		if string(c) == value {
			return nil
		}
	}
	return fmt.Errorf("invalid tip category: %s", value)
}
