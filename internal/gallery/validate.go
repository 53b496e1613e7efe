package gallery

import "fmt"

// User-facing messages
const (
	MsgMultipleIndicators = "You can only select one indicator when selecting multiple companies."
	MsgNoData             = "No data available"
)

// DefaultMaxCompanies is the selection limit when none is configured
const DefaultMaxCompanies = 7

// ValidationError is a selection the gallery refuses before doing any work.
// Its message is shown to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TooManyCompaniesMessage is the over-limit message for a given limit
func TooManyCompaniesMessage(limit int) string {
	return fmt.Sprintf("You can select up to %d companies at the same time.", limit)
}

// Validate checks the selection shape.
// Only 1 company × N indicators or N companies × 1 indicator is allowed.
func Validate(companies, indicators []string, maxCompanies int) error {
	if maxCompanies <= 0 {
		maxCompanies = DefaultMaxCompanies
	}
	if len(companies) > maxCompanies {
		return &ValidationError{Message: TooManyCompaniesMessage(maxCompanies)}
	}
	if len(companies) > 1 && len(indicators) > 1 {
		return &ValidationError{Message: MsgMultipleIndicators}
	}
	return nil
}
