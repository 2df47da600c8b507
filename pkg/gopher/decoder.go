package gopher

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Outcome classifies a raw poll response into one of four canonical
// states. The API does not guarantee a response shape, so classification
// is defensive and never rejects a body it cannot recognise.
type Outcome int

const (
	// OutcomePending means the job has not produced results yet.
	OutcomePending Outcome = iota
	// OutcomeEmpty means the body was an empty collection. The API uses
	// this both for "not computed yet" and "zero matches", so callers
	// treat it like OutcomePending until the retry budget runs out.
	OutcomeEmpty
	// OutcomeReady means result data is available.
	OutcomeReady
	// OutcomeFailed means the API reported a terminal failure.
	OutcomeFailed
)

// CanonicalResult is the decoder's normalized view of a poll response.
// Items is non-nil when the body carried an item collection; when it is
// nil the renderer falls back to displaying Raw as-is.
type CanonicalResult struct {
	Outcome Outcome
	Items   []gjson.Result
	Raw     gjson.Result
	Reason  string
}

// Decode classifies a raw result body. The rules run in strict order:
// array shape first, then the error field, then data, then status, and
// finally the as-is fallback. That precedence matters: an error field
// wins over a data field, and status is only consulted when neither is
// present.
func Decode(body []byte) CanonicalResult {
	parsed := gjson.ParseBytes(body)

	switch {
	case parsed.IsArray():
		items := parsed.Array()
		if len(items) == 0 {
			return CanonicalResult{Outcome: OutcomeEmpty, Raw: parsed}
		}
		return CanonicalResult{Outcome: OutcomeReady, Items: items, Raw: parsed}

	case parsed.IsObject():
		if errField := parsed.Get("error"); errField.Exists() && errField.String() != "" {
			return CanonicalResult{Outcome: OutcomeFailed, Raw: parsed, Reason: errField.String()}
		}
		if data := parsed.Get("data"); data.Exists() {
			if !data.IsArray() {
				// A single non-collection payload is displayed as-is, not
				// forced into a one-item list.
				return CanonicalResult{Outcome: OutcomeReady, Raw: parsed}
			}
			items := data.Array()
			if items == nil {
				items = []gjson.Result{}
			}
			return CanonicalResult{Outcome: OutcomeReady, Items: items, Raw: parsed}
		}
		if status := parsed.Get("status"); status.Exists() {
			return classifyStatus(parsed, status.String())
		}
		// Unrecognised object shape: degrade to displaying it as-is
		// rather than fabricating an error.
		return CanonicalResult{Outcome: OutcomeReady, Raw: parsed}

	default:
		return CanonicalResult{Outcome: OutcomeFailed, Raw: parsed, Reason: "unexpected response format"}
	}
}

func classifyStatus(parsed gjson.Result, status string) CanonicalResult {
	normalized := strings.ReplaceAll(strings.ToLower(status), " ", "_")

	switch normalized {
	case "in_progress", "pending", "processing":
		return CanonicalResult{Outcome: OutcomePending, Raw: parsed}

	case "completed", "success", "done", "finished":
		return CanonicalResult{Outcome: OutcomeReady, Raw: parsed}

	case "failed", "error", "cancelled":
		reason := parsed.Get("error").String()
		if reason == "" {
			reason = parsed.Get("message").String()
		}
		if reason == "" {
			reason = fmt.Sprintf("search status: %s", status)
		}
		return CanonicalResult{Outcome: OutcomeFailed, Raw: parsed, Reason: reason}

	default:
		// Unknown statuses are treated optimistically as still running.
		return CanonicalResult{Outcome: OutcomePending, Raw: parsed}
	}
}
