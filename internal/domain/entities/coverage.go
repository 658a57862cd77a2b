package entities

// PolicyStatus is the display status of a coverage policy.
type PolicyStatus string

const (
	PolicyStatusActive  PolicyStatus = "active"
	PolicyStatusExpired PolicyStatus = "expired"
)

// CoveragePolicy is a summary view of a purchased coverage position.
type CoveragePolicy struct {
	PolicyID       string       `json:"policyId"`
	Asset          string       `json:"asset"`
	CoverageAmount string       `json:"coverageAmount"`
	Premium        string       `json:"premium"`
	CoverageType   CoverageType `json:"coverageType"`
	StartTime      int64        `json:"startTime"`
	EndTime        int64        `json:"endTime"`
	Status         PolicyStatus `json:"status"`
}

// CoverageSummary groups a holder's policies for the summary endpoint.
type CoverageSummary struct {
	Address  string           `json:"address"`
	Active   []CoveragePolicy `json:"active"`
	Expired  []CoveragePolicy `json:"expired"`
	Currency string           `json:"currency"`
}
