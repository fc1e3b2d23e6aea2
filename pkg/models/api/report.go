package api

// ReportMeta describes a registered report for list endpoints.
type ReportMeta struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// ReportError is one accumulated report error.
type ReportError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResponse is the payload returned for a report run.
type RunResponse struct {
	Report    string        `json:"report"`
	StartDate string        `json:"start_date,omitempty"`
	EndDate   string        `json:"end_date,omitempty"`
	Data      any           `json:"data,omitempty"`
	Errors    []ReportError `json:"errors,omitempty"`
}
