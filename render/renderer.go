package render

import (
	"fmt"
	"time"

	"github.com/cbroglie/mustache"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/poiesic/claimlens/core"
)

// Renderer renders answer templates. It is immutable after New and safe
// for concurrent use.
type Renderer struct {
	templates  map[string]*mustache.Template
	printer    *message.Printer
	currency   string
	dateLayout string
}

// New parses every template in config, filling gaps from DefaultConfig.
func New(config Config) (*Renderer, error) {
	defaults := DefaultConfig()
	if config.CurrencySymbol == "" {
		config.CurrencySymbol = defaults.CurrencySymbol
	}
	if config.DateLayout == "" {
		config.DateLayout = defaults.DateLayout
	}
	if config.Language == "" {
		config.Language = defaults.Language
	}

	tag, err := language.Parse(config.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLanguage, config.Language, err)
	}

	sources := defaults.Templates
	for key, text := range config.Templates {
		sources[key] = text
	}

	templates := make(map[string]*mustache.Template, len(sources))
	for key, text := range sources {
		tmpl, err := mustache.ParseStringRaw(text, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, key, err)
		}
		templates[key] = tmpl
	}

	return &Renderer{
		templates:  templates,
		printer:    message.NewPrinter(tag),
		currency:   config.CurrencySymbol,
		dateLayout: config.DateLayout,
	}, nil
}

// Render renders the template registered under key with fields.
func (r *Renderer) Render(key string, fields map[string]any) (string, error) {
	tmpl, ok := r.templates[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
	}
	out, err := tmpl.Render(fields)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", key, err)
	}
	return out, nil
}

// Currency formats amount with the currency symbol and two decimals.
func (r *Renderer) Currency(amount float64) string {
	return r.currency + r.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Date formats t with the configured layout. Zero times render as "".
func (r *Renderer) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(r.dateLayout)
}

// ClaimFields flattens a claim into template fields. Optional values that
// are missing become "" and an empty status becomes UNKNOWN.
func (r *Renderer) ClaimFields(c *core.Claim) map[string]any {
	if c == nil {
		c = &core.Claim{}
	}
	status := string(c.Status)
	if status == "" {
		status = core.StatusUnknown
	}
	metadata := make(map[string]string, len(c.Metadata))
	for k, v := range c.Metadata {
		metadata[k] = v
	}
	return map[string]any{
		"claim_number":  c.ClaimNumber,
		"patient_name":  c.PatientName,
		"policy_number": c.PolicyNumber,
		"status":        status,
		"amount":        r.Currency(c.Amount),
		"submitted_at":  r.Date(c.SubmittedAt),
		"processed_at":  r.Date(c.ProcessedAt),
		"denial_code":   c.DenialCode,
		"denial_reason": c.DenialReason,
		"notes":         c.Notes,
		"metadata":      metadata,
	}
}

// ClaimAnswer renders the single-claim answer: the denial template for
// denied claims, the status template otherwise.
func (r *Renderer) ClaimAnswer(c *core.Claim) (string, error) {
	key := KeyStatus
	if c.IsDenied() {
		key = KeyDenial
	}
	return r.Render(key, r.ClaimFields(c))
}
