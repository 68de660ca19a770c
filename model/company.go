package model

// SMSLevel buckets a credit balance for display.
type SMSLevel int

const (
	SMSOK SMSLevel = iota
	SMSLow
	SMSCritical
)

type Company struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	TwilioPhone       string `json:"twilio_phone"`
	Address           string `json:"address"`
	City              string `json:"city"`
	Timezone          string `json:"timezone"`
	TimezoneOffsetMin int    `json:"timezone_offset_mins"`
	CategoryID        int    `json:"company_category_id"`
	SMSRemaining      int    `json:"sms_remining"` // upstream field name, sic
	CreatedAt         string `json:"created_at"`
	LastActivity      string `json:"last_activity"`
}

// CompanyPatch carries the editable subset of Company fields for an update.
// Zero values are sent as-is; the server treats the patch as a full form post.
type CompanyPatch struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	TwilioPhone  string `json:"twilio_phone"`
	Address      string `json:"address"`
	SMSRemaining int    `json:"sms_remining"`
}

// CreditLevel buckets SMSRemaining using the console's badge thresholds.
func (c Company) CreditLevel() SMSLevel {
	switch {
	case c.SMSRemaining > 50:
		return SMSOK
	case c.SMSRemaining > 20:
		return SMSLow
	default:
		return SMSCritical
	}
}
