package model

// CountUnavailable is the upstream sentinel for a counter whose backing
// query failed. Distinct from zero.
const CountUnavailable = -1

type Dashboard struct {
	CompaniesCount   int       `json:"companies_count"`
	CallsCount       int       `json:"calls_count"`
	CallsToday       int       `json:"calls_today"`
	SMSToday         int       `json:"sms_today"`
	LowSMSCompanies  []Company `json:"low_sms_companies"`
	NoCallsCompanies []Company `json:"no_calls_companies"`
}

// CountKnown reports whether n carries a real value rather than the
// fetch-failed sentinel.
func CountKnown(n int) bool { return n != CountUnavailable }
