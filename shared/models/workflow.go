package models

// Temporal names shared by the API server and the worker
const (
	SearchTaskQueue         = "flight-search-queue"
	SearchWorkflowName      = "FlightSearchWorkflow"
	ActivityValidateSearch  = "ValidateSearch"
	ActivityGenerateFlights = "GenerateFlights"
)

// SearchWorkflowInput represents input for the flight search workflow
type SearchWorkflowInput struct {
	SearchID string         `json:"searchId"`
	Params   SearchParams   `json:"params"`
	Filters  *SearchFilters `json:"filters,omitempty"`
	Sort     *SortOptions   `json:"sort,omitempty"`
}

// SearchWorkflowResult is produced by both the in-process and the Temporal runner
type SearchWorkflowResult struct {
	SearchID   string           `json:"searchId"`
	Validation ValidationResult `json:"validation"`
	Params     SearchParams     `json:"params"`
	Flights    []Flight         `json:"flights"`
	Facets     FilterFacets     `json:"facets"`
}

// ValidateSearchInput is the input of the ValidateSearch activity
type ValidateSearchInput struct {
	Params SearchParams `json:"params"`
}

// GenerateFlightsInput is the input of the GenerateFlights activity
type GenerateFlightsInput struct {
	SearchID string       `json:"searchId"`
	Params   SearchParams `json:"params"`
}
