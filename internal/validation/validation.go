package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-search/shared/models"
	"github.com/go-playground/validator/v10"
)

// MaxPassengers is the largest party a single search may book for
const MaxPassengers = 9

const (
	ErrOriginRequired        = "origin is required"
	ErrDestinationRequired   = "destination is required"
	ErrSameAirport           = "origin and destination must differ"
	ErrDepartureRequired     = "departure date is required"
	ErrDepartureFormat       = "departure date must be a valid date (YYYY-MM-DD)"
	ErrDepartureInPast       = "departure date must not be in the past"
	ErrAdultsRequired        = "at least 1 adult passenger is required"
	ErrNegativePassengers    = "children and infants must not be negative"
	ErrTooManyPassengers     = "no more than 9 passengers may travel together"
	ErrUnknownClass          = "class must be one of economy, business, first"
	ErrUnknownTripType       = "trip type must be one-way or round-trip"
	ErrReturnRequired        = "return date is required for round-trip searches"
	ErrReturnFormat          = "return date must be a valid date (YYYY-MM-DD)"
	ErrReturnBeforeDeparture = "return date must be after the departure date"
)

var validate = validator.New()

// Validate checks params against every search rule and reports all violations.
// Dates are interpreted in now's location. A date-only departure on the current day is
// allowed; a timestamp departure must not be earlier than now.
func Validate(params models.SearchParams, now time.Time) models.ValidationResult {
	errs := []string{}
	loc := now.Location()

	params.Origin = strings.TrimSpace(params.Origin)
	params.Destination = strings.TrimSpace(params.Destination)
	failed := fieldErrors(params)

	if failed["Origin"] {
		errs = append(errs, ErrOriginRequired)
	}
	if failed["Destination"] {
		errs = append(errs, ErrDestinationRequired)
	}
	if params.Origin != "" && strings.EqualFold(params.Origin, params.Destination) {
		errs = append(errs, ErrSameAirport)
	}

	var departure time.Time
	departureOK := false
	if failed["DepartureDate"] {
		errs = append(errs, ErrDepartureRequired)
	} else if d, err := models.ParseTravelDate(params.DepartureDate, loc); err != nil {
		errs = append(errs, ErrDepartureFormat)
	} else {
		departure, departureOK = d, true
		if departure.Before(earliestDeparture(params.DepartureDate, now)) {
			errs = append(errs, ErrDepartureInPast)
		}
	}

	if failed["Adults"] {
		errs = append(errs, ErrAdultsRequired)
	}
	if failed["Children"] || failed["Infants"] {
		errs = append(errs, ErrNegativePassengers)
	}
	if params.Passengers.Total() > MaxPassengers {
		errs = append(errs, ErrTooManyPassengers)
	}

	if failed["Class"] {
		errs = append(errs, ErrUnknownClass)
	}
	if failed["TripType"] {
		errs = append(errs, ErrUnknownTripType)
	}

	if failed["ReturnDate"] {
		errs = append(errs, ErrReturnRequired)
	}
	if params.ReturnDate != "" {
		ret, err := models.ParseTravelDate(params.ReturnDate, loc)
		if err != nil {
			errs = append(errs, ErrReturnFormat)
		} else if departureOK && !ret.After(departure) {
			errs = append(errs, ErrReturnBeforeDeparture)
		}
	}

	return models.ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// fieldErrors runs the struct tag rules and returns the names of the failing fields
func fieldErrors(params models.SearchParams) map[string]bool {
	failed := make(map[string]bool)

	var verrs validator.ValidationErrors
	if err := validate.Struct(params); errors.As(err, &verrs) {
		for _, fe := range verrs {
			failed[fe.StructField()] = true
		}
	}
	return failed
}

// earliestDeparture is the start of today for date-only values and now itself for timestamps
func earliestDeparture(value string, now time.Time) time.Time {
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return now
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
