// Package qado holds the QADO vocabulary and the store client that reads
// candidate queries from, and writes check records to, a QADO triplestore.
package qado

const (
	Namespace     = "http://purl.com/qado/ontology.ttl#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// Class and predicate local names, used with the qado: prefix.
const (
	ClassQuestion    = "Question"
	ClassQuery       = "Query"
	ClassSPARQLCheck = "SPARQLCheck"

	PredHasSparqlQuery              = "hasSparqlQuery"
	PredHasQueryText                = "hasQueryText"
	PredHasSPARQLCheck              = "hasSPARQLCheck"
	PredCorrespondsToKnowledgeGraph = "correspondsToKnowledgeGraph"
)

func prefix(name, ns string) string {
	return "PREFIX " + name + ": <" + ns + ">"
}
