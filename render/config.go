package render

// Template keys.
const (
	KeyStatus            = "status"
	KeyDenial            = "denial"
	KeyNotFound          = "not_found"
	KeyMultipleMatches   = "multiple_matches"
	KeyNoMatches         = "no_matches"
	KeyPrompt            = "prompt"
	KeySemanticMatches   = "semantic_matches"
	KeyNoSemanticMatches = "no_semantic_matches"
	KeyIndexUnavailable  = "index_unavailable"
	KeyServerError       = "server_error"
)

// Config holds the answer templates and formatting settings.
type Config struct {
	// Templates overrides individual templates by key. Keys not present
	// fall back to the built-in text.
	Templates      map[string]string `yaml:"templates"`
	CurrencySymbol string            `yaml:"currency_symbol"`
	// DateLayout is a time.Format layout.
	DateLayout string `yaml:"date_layout"`
	// Language is a BCP 47 tag controlling number formatting.
	Language string `yaml:"language"`
}

// DefaultTemplates returns a copy of the built-in templates.
func DefaultTemplates() map[string]string {
	return map[string]string{
		KeyStatus:            "Claim {{claim_number}} for {{patient_name}} is *{{status}}* ({{amount}}). Submitted on {{submitted_at}}. Policy: {{policy_number}}.",
		KeyDenial:            "Claim {{claim_number}} was denied ({{denial_code}}): {{denial_reason}}. Provider: {{metadata.provider}}. Notes: {{notes}}",
		KeyNotFound:          "No claim found with number {{claim_number}}.",
		KeyMultipleMatches:   "I found {{count}} claims matching your query. Showing top {{top}} results.",
		KeyNoMatches:         "No matching claims found. Try using a claim number (e.g., CLM-2025-1000) or policy number.",
		KeyPrompt:            "Please enter a claim number or a few keywords.",
		KeySemanticMatches:   "Found {{count}} semantically matched claims (top similarity {{top_similarity}}).",
		KeyNoSemanticMatches: "No semantically relevant claims found.",
		KeyIndexUnavailable:  "No semantic index available. Run the indexer first.",
		KeyServerError:       "Something went wrong while answering your query. Please try again.",
	}
}

// DefaultConfig returns the built-in templates with rupee amounts and
// US-style dates.
func DefaultConfig() Config {
	return Config{
		Templates:      DefaultTemplates(),
		CurrencySymbol: "₹",
		DateLayout:     "1/2/2006",
		Language:       "en",
	}
}
