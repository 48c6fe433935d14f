package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"stayindia/pkg/config"
	"stayindia/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// StayWindow is a validated booking window: UTC midnights, half-open
// [CheckIn, CheckOut), at least one night.
type StayWindow struct {
	CheckIn  time.Time
	CheckOut time.Time
	Nights   int
}

type BookingValidator struct {
	validate    *validator.Validate
	maxSpanDays int

	// now is swappable for tests
	now func() time.Time
}

func NewBookingValidator(cfg *config.Config) *BookingValidator {
	return &BookingValidator{
		validate:    validator.New(),
		maxSpanDays: cfg.MaxBookingSpanDays,
		now:         time.Now,
	}
}

// ParseRequest checks the request shape and parses its dates into a
// StayWindow. It is syntax only; policy checks run in ValidateWindow after
// the listing has been resolved, so a bad date on an unknown listing still
// surfaces as not-found.
func (v *BookingValidator) ParseRequest(req *model.BookingRequest) (StayWindow, error) {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return StayWindow{}, translateValidationErrors(validationErrs)
		}
		return StayWindow{}, err
	}

	checkIn, err := parseDay(req.CheckIn)
	if err != nil {
		return StayWindow{}, ValidationErrors{
			ValidationError{Field: "CheckIn", Message: "check_in must be a valid date in YYYY-MM-DD format"},
		}
	}

	checkOut, err := parseDay(req.CheckOut)
	if err != nil {
		return StayWindow{}, ValidationErrors{
			ValidationError{Field: "CheckOut", Message: "check_out must be a valid date in YYYY-MM-DD format"},
		}
	}

	return StayWindow{CheckIn: checkIn, CheckOut: checkOut}, nil
}

// ValidateWindow applies the booking policy to a parsed window and fills in
// the night count. Dates are calendar days interpreted as UTC midnight; a
// check-in of today is allowed, yesterday is not.
func (v *BookingValidator) ValidateWindow(window StayWindow) (StayWindow, error) {
	today := v.now().UTC().Truncate(24 * time.Hour)
	if window.CheckIn.Before(today) {
		return StayWindow{}, ValidationErrors{
			ValidationError{Field: "CheckIn", Message: "check_in cannot be in the past"},
		}
	}

	if !window.CheckOut.After(window.CheckIn) {
		return StayWindow{}, ValidationErrors{
			ValidationError{Field: "CheckOut", Message: "check_out must be after check_in"},
		}
	}

	nights := int(window.CheckOut.Sub(window.CheckIn).Hours() / 24)
	if nights > v.maxSpanDays {
		return StayWindow{}, ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: fmt.Sprintf("stay cannot exceed %d nights", v.maxSpanDays),
			},
		}
	}

	window.Nights = nights
	return window, nil
}

// ValidateRequest parses and policy-checks a request in one step.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) (StayWindow, error) {
	window, err := v.ParseRequest(req)
	if err != nil {
		return StayWindow{}, err
	}
	return v.ValidateWindow(window)
}

func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation(model.BookingDateLayout, s, time.UTC)
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
