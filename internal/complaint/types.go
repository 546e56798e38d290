package complaint

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotAvailable is substituted for any checklist field the model omits.
const NotAvailable = "N/A"

var (
	ErrInvalidRequest = errors.New("invalid complaint request")
	ErrInference      = errors.New("inference failed")
)

// Mode selects how the model is prompted and how its answer is decoded.
type Mode string

const (
	ModeStructured Mode = "structured"
	ModeRaw        Mode = "raw"
)

// ParseMode maps a config value to a Mode. Unknown values are an error.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStructured, "":
		return ModeStructured, nil
	case ModeRaw:
		return ModeRaw, nil
	default:
		return "", fmt.Errorf("unknown response mode %q", s)
	}
}

type Request struct {
	Image    []byte
	MimeType string
	Text     string
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: complaint text is required", ErrInvalidRequest)
	}
	if len(r.Image) == 0 {
		return fmt.Errorf("%w: image is required", ErrInvalidRequest)
	}
	return nil
}

// Fields is the inspection checklist returned by the model in structured mode.
type Fields struct {
	ProductCondition   string `json:"product_condition"`
	ExpiryStatus       string `json:"expiry_status"`
	PackagingIntegrity string `json:"packaging_integrity"`
	FoodSafetyConcerns string `json:"food_safety_concerns"`
	Severity           string `json:"severity"`
	VerificationStatus string `json:"verification_status"`
}

// SeverityLabel is the severity as displayed: upper-cased.
func (f Fields) SeverityLabel() string {
	return strings.ToUpper(f.Severity)
}

type OutcomeKind string

const (
	OutcomeStructured OutcomeKind = "structured"
	OutcomeRaw        OutcomeKind = "raw"
	OutcomeFailed     OutcomeKind = "failed"
)

// Outcome is the decoded model answer. Exactly one of Fields, Raw or Reason
// is meaningful, selected by Kind.
type Outcome struct {
	Kind   OutcomeKind
	Fields *Fields
	Raw    string
	Reason string
}

func Structured(f Fields) Outcome { return Outcome{Kind: OutcomeStructured, Fields: &f} }

func Raw(text string) Outcome { return Outcome{Kind: OutcomeRaw, Raw: text} }

func Failed(reason string) Outcome { return Outcome{Kind: OutcomeFailed, Reason: reason} }

func (o Outcome) Failed() bool { return o.Kind == OutcomeFailed }

// Analysis is the result of one complaint analysis. It is never mutated after
// Analyze returns.
type Analysis struct {
	ID            string
	Complaint     string
	Mode          Mode
	Outcome       Outcome
	Answer        string
	SuggestedPost string
	CreatedAt     time.Time
}
