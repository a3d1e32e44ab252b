// Package classify decides whether an endpoint response answers a query.
package classify

import (
	"fmt"

	"github.com/DjordjeVuckovic/qado-check/internal/sparql"
)

type Verdict int

const (
	Inconclusive Verdict = iota
	Confirmed
	Rejected
)

func (v Verdict) String() string {
	switch v {
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	default:
		return "inconclusive"
	}
}

// Definitive reports whether v ends probing.
func (v Verdict) Definitive() bool {
	return v == Confirmed || v == Rejected
}

type Evidence int

const (
	NoEvidence Evidence = iota
	NonEmptyBindings
	EmptyBindings
	BooleanTrue
	BooleanFalse
)

func (e Evidence) String() string {
	switch e {
	case NonEmptyBindings:
		return "non_empty_bindings"
	case EmptyBindings:
		return "empty_bindings"
	case BooleanTrue:
		return "boolean_true"
	case BooleanFalse:
		return "boolean_false"
	default:
		return "none"
	}
}

// Outcome is the classification of one endpoint response. Err explains an
// Inconclusive verdict and is nil otherwise.
type Outcome struct {
	Verdict  Verdict
	Evidence Evidence
	Err      error
}

// Classify inspects a raw response. A non-success status or a body in
// neither result shape is Inconclusive. An empty result is Rejected, not
// Inconclusive: the endpoint answered, the answer was empty.
func Classify(status int, body []byte) Outcome {
	if status < 200 || status >= 300 {
		return Outcome{Verdict: Inconclusive, Err: fmt.Errorf("status %d", status)}
	}

	res, err := sparql.DecodeResult(body)
	if err != nil {
		return Outcome{Verdict: Inconclusive, Err: err}
	}

	switch res.Kind {
	case sparql.KindSelect:
		if len(res.Bindings) > 0 {
			return Outcome{Verdict: Confirmed, Evidence: NonEmptyBindings}
		}
		return Outcome{Verdict: Rejected, Evidence: EmptyBindings}
	case sparql.KindAsk:
		if res.Boolean {
			return Outcome{Verdict: Confirmed, Evidence: BooleanTrue}
		}
		return Outcome{Verdict: Rejected, Evidence: BooleanFalse}
	default:
		return Outcome{Verdict: Inconclusive, Err: fmt.Errorf("unexpected result kind %s", res.Kind)}
	}
}
