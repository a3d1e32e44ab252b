package qado

import (
	"fmt"
	"strings"
)

// CandidateQuery is a stored SPARQL query under test.
type CandidateQuery struct {
	ID   string
	Text string
}

// ClassMatch selects how questions are matched when fetching candidates.
type ClassMatch string

const (
	// MatchSubClass selects questions typed with any subclass of qado:Question.
	MatchSubClass ClassMatch = "subclass"
	// MatchExactClass selects questions typed as qado:Question itself.
	MatchExactClass ClassMatch = "exact"
)

func ParseClassMatch(s string) (ClassMatch, error) {
	switch ClassMatch(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchSubClass:
		return MatchSubClass, nil
	case MatchExactClass:
		return MatchExactClass, nil
	default:
		return "", fmt.Errorf("unknown class match %q (want %q or %q)", s, MatchSubClass, MatchExactClass)
	}
}

// Variables projected by the candidate query.
const (
	VarQuery = "query"
	VarText  = "text"
)

// CandidateSelect builds the SELECT query that lists every query attached to
// a question, together with its text.
func CandidateSelect(m ClassMatch) string {
	var questionPattern string
	switch m {
	case MatchExactClass:
		questionPattern = fmt.Sprintf("?question a qado:%s ; qado:%s ?query .",
			ClassQuestion, PredHasSparqlQuery)
	default:
		questionPattern = fmt.Sprintf("?question a ?class ; qado:%s ?query . ?class rdfs:subClassOf qado:%s .",
			PredHasSparqlQuery, ClassQuestion)
	}

	return strings.Join([]string{
		prefix("qado", Namespace),
		prefix("rdfs", RDFSNamespace),
		"select ?" + VarQuery + " ?" + VarText + " where {",
		questionPattern,
		fmt.Sprintf("?query a qado:%s ; qado:%s ?text .", ClassQuery, PredHasQueryText),
		"} ORDER BY ?" + VarQuery,
	}, " ")
}
