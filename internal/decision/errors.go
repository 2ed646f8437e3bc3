package decision

import "errors"

var (
	// ErrInvocationFailed is returned when the model endpoint could not be
	// reached or rejected the request. The raw completion is unavailable.
	ErrInvocationFailed = errors.New("model invocation failed")

	// ErrNoDecisionObject is returned when the completion contains no JSON
	// object to parse.
	ErrNoDecisionObject = errors.New("no JSON object found in model response")

	// ErrMissingField is returned when the parsed object lacks a required
	// field.
	ErrMissingField = errors.New("decision response missing required field")
)

// Text sentinels persisted on decision records.
const (
	// PendingPlaceholder fills the text fields of a record between creation
	// and its terminal update.
	PendingPlaceholder = "Pending analysis"

	// DefaultAssessment fills strengths/weaknesses the model left out of an
	// otherwise valid response.
	DefaultAssessment = "none identified"

	// ParseFailureSentinel fills strengths/weaknesses when the response
	// could not be parsed at all.
	ParseFailureSentinel = "parsing failed"

	// ParseFailureMarker prefixes the truncated raw response stored as the
	// reason on a parse failure.
	ParseFailureMarker = "Failed to parse agent response: "
)

// MaxRawResponseLen bounds how much of an unparseable completion is kept on
// the failed record.
const MaxRawResponseLen = 500
