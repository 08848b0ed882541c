// Package validation registers the portal's form rules on a validator instance and
// turns validator failures into typed application errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"

	// MinimumAge is the youngest an applicant may be on the day they apply.
	MinimumAge = 18
	// Test dates are bookable from MinTestLeadDays to MaxTestLeadDays after today, inclusive.
	MinTestLeadDays = 7
	MaxTestLeadDays = 60
)

// TimeSlots are the hourly driving test slots.
var TimeSlots = []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}

// New returns a validator with the portal rules registered. now supplies "today"
// for the age and test window rules.
func New(now func() time.Time) *validator.Validate {
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		dob, err := ParseDate(fl.Field().String())
		if err != nil {
			return false
		}
		return Age(dob, now()) >= MinimumAge
	})
	_ = v.RegisterValidation("testwindow", func(fl validator.FieldLevel) bool {
		date, err := ParseDate(fl.Field().String())
		if err != nil {
			return false
		}
		return InTestWindow(date, now())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, slot := range TimeSlots {
			if slot == value {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("cardexpiry", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("01/06", fl.Field().String())
		return err == nil
	})
	return v
}

// ParseDate parses a YYYY-MM-DD form value as a UTC calendar date.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
}

// DateOnly drops the clock part, keeping the calendar date of t.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Age returns whole years between dob and today.
func Age(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// TestWindow returns the first and last bookable test dates.
func TestWindow(today time.Time) (time.Time, time.Time) {
	day := DateOnly(today)
	return day.AddDate(0, 0, MinTestLeadDays), day.AddDate(0, 0, MaxTestLeadDays)
}

// InTestWindow reports whether date is bookable as of today.
func InTestWindow(date, today time.Time) bool {
	earliest, latest := TestWindow(today)
	date = DateOnly(date)
	return !date.Before(earliest) && !date.After(latest)
}

// Translate converts validator failures into application errors. The age and test
// window rules map to their dedicated error codes.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "adult":
			return appErrors.ErrUnderageApplicant
		case "testwindow":
			return appErrors.ErrTestDateOutOfWindow
		}
		messages = append(messages, message(fe))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, strings.Join(messages, "; "))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "eqfield":
		return field + " must match " + strings.ToLower(fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "digits":
		return field + " must contain only digits"
	case "timeslot":
		return field + " must be one of: " + strings.Join(TimeSlots, ", ")
	case "cardexpiry":
		return field + " must be in MM/YY format"
	default:
		return field + " is invalid"
	}
}
