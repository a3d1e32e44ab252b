package qado

import (
	"fmt"
	"strings"
	"time"
)

// Property is the status predicate stamped on a check record.
type Property string

const (
	Succeeded Property = "testedSuccessfullyAt"
	Failed    Property = "didNotWorkAt"
)

// TimestampLayout matches xsd:dateTime without fractional seconds or zone.
const TimestampLayout = "2006-01-02T15:04:05"

// CheckRecord is the outcome of validating one candidate query.
// Endpoint is empty when no endpoint gave a definitive answer.
type CheckRecord struct {
	QueryID   string    `json:"query_id"`
	Property  Property  `json:"property"`
	Timestamp time.Time `json:"timestamp"`
	Endpoint  string    `json:"endpoint,omitempty"`
}

func (r CheckRecord) HasEndpoint() bool {
	return r.Endpoint != ""
}

// InsertStatement renders the additive SPARQL UPDATE for r. It never removes
// triples, so repeating it only adds another check node.
func InsertStatement(r CheckRecord) (string, error) {
	if !validIRI(r.QueryID) {
		return "", fmt.Errorf("query id %q is not a valid IRI", r.QueryID)
	}
	if r.HasEndpoint() && !validIRI(r.Endpoint) {
		return "", fmt.Errorf("endpoint %q is not a valid IRI", r.Endpoint)
	}
	if r.Property != Succeeded && r.Property != Failed {
		return "", fmt.Errorf("unknown check property %q", r.Property)
	}

	ts := r.Timestamp.UTC().Format(TimestampLayout)

	var b strings.Builder
	b.WriteString(prefix("qado", Namespace))
	b.WriteString(" ")
	b.WriteString(prefix("xsd", XSDNamespace))
	fmt.Fprintf(&b, " insert { <%s> qado:%s [ a qado:%s ; qado:%s \"%s\"^^xsd:dateTime ] .",
		r.QueryID, PredHasSPARQLCheck, ClassSPARQLCheck, r.Property, ts)
	if r.HasEndpoint() {
		fmt.Fprintf(&b, " <%s> qado:%s <%s> .", r.QueryID, PredCorrespondsToKnowledgeGraph, r.Endpoint)
	}
	b.WriteString(" } where {}")

	return b.String(), nil
}

// validIRI reports whether s can be written between angle brackets as a
// SPARQL IRIREF.
func validIRI(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c <= 0x20 {
			return false
		}
		switch c {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return false
		}
	}
	return true
}
