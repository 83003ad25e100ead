package dealer

import (
	"encoding/json"
	"time"
)

// Status enumerates dealer account lifecycle states.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
	StatusExpired  Status = "expired"
)

// Section names the independently approvable parts of a dealer profile.
type Section string

const (
	SectionProfile Section = "profile"
	SectionBank    Section = "bank"
	SectionRates   Section = "rates"
)

// ValidSection reports whether s names a known section.
func ValidSection(s Section) bool {
	return s == SectionProfile || s == SectionBank || s == SectionRates
}

// UpdateState enumerates the per-section approval machine. A section with
// no row is implicitly in the "none" state.
type UpdateState string

const (
	UpdatePending  UpdateState = "pending"
	UpdateApproved UpdateState = "approved"
	UpdateRejected UpdateState = "rejected"
)

// Account is a dealer (distributor) login. ValidTill is always ValidFrom
// plus PackageDays; expiry is a derived fact re-asserted at login, not a
// scheduled transition.
type Account struct {
	ID          int64           `json:"id"`
	DealerCode  string          `json:"dealer_code"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	PINHash     string          `json:"-"`
	GSTN        string          `json:"gstn"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	Package     string          `json:"package"`
	PackageDays int             `json:"package_days"`
	ValidFrom   time.Time       `json:"valid_from"`
	ValidTill   time.Time       `json:"valid_till"`
	Status      Status          `json:"status"`
	Profile     json.RawMessage `json:"profile,omitempty"`
	Bank        json.RawMessage `json:"bank,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UpdateRequest is a dealer-submitted change to one section, awaiting an
// admin decision. A resubmission while pending replaces the payload.
type UpdateRequest struct {
	ID          int64           `json:"id"`
	DealerCode  string          `json:"dealer_code"`
	Section     Section         `json:"section"`
	State       UpdateState     `json:"state"`
	Payload     json.RawMessage `json:"payload"`
	SubmittedAt time.Time       `json:"submitted_at"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
	DecidedBy   string          `json:"decided_by,omitempty"`
}

// RegisterInput holds registration form fields.
type RegisterInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Package string `json:"package" validate:"required"`
	GSTN    string `json:"gstn"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Summary holds the admin dashboard counts.
type Summary struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Blocked        int `json:"blocked"`
	Expired        int `json:"expired"`
	Pending        int `json:"pending"`
	PendingUpdates int `json:"pending_updates"`
}
