package model

// Diagnostic mirrors one rustc diagnostic as emitted by
// `rustc --error-format=json` or wrapped by `cargo build --message-format=json`.
// Consumed read-only by the dead-code reaper.
type Diagnostic struct {
	Message  string           `json:"message"`
	Code     *DiagnosticCode  `json:"code"`
	Level    string           `json:"level"`
	Spans    []DiagnosticSpan `json:"spans"`
	Children []Diagnostic     `json:"children"`
}

// DiagnosticCode is the lint or error code of a diagnostic, e.g. "dead_code".
type DiagnosticCode struct {
	Code string `json:"code"`
}

// DiagnosticSpan is a source location attached to a diagnostic. Lines and
// columns are 1-based, byte offsets 0-based, matching rustc's JSON.
type DiagnosticSpan struct {
	FileName                string  `json:"file_name"`
	ByteStart               uint32  `json:"byte_start"`
	ByteEnd                 uint32  `json:"byte_end"`
	LineStart               int     `json:"line_start"`
	LineEnd                 int     `json:"line_end"`
	ColumnStart             int     `json:"column_start"`
	ColumnEnd               int     `json:"column_end"`
	SuggestedReplacement    *string `json:"suggested_replacement"`
	SuggestionApplicability *string `json:"suggestion_applicability"`
}

// MachineApplicable reports whether the span carries a replacement that the
// compiler says can be applied without human judgement.
func (s DiagnosticSpan) MachineApplicable() bool {
	return s.SuggestedReplacement != nil &&
		s.SuggestionApplicability != nil &&
		*s.SuggestionApplicability == "MachineApplicable"
}

// Suggestion is one machine-applicable fix distilled from a diagnostic.
type Suggestion struct {
	// Message is the message of the diagnostic the fix belongs to,
	// e.g. "unused import: `std::fmt`".
	Message      string
	Replacements []Replacement
}

// FileName returns the file the suggestion applies to. Rustc never emits one
// suggestion spanning several files.
func (s Suggestion) FileName() string {
	if len(s.Replacements) == 0 {
		return ""
	}

	return s.Replacements[0].FileName
}

// Replacement is one concrete text substitution of a Suggestion.
type Replacement struct {
	FileName  string
	ByteStart uint32
	ByteEnd   uint32
	Text      string
}
