package sparql

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownShape = errors.New("body is neither a SELECT nor an ASK result")

// Term is one RDF term in a binding, as serialized by SPARQL JSON results.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Binding maps a variable name to its value in one solution.
type Binding map[string]Term

type ResultKind int

const (
	KindSelect ResultKind = iota + 1
	KindAsk
)

func (k ResultKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindAsk:
		return "ask"
	default:
		return "unknown"
	}
}

// Result is the decoded body of a query response. Exactly one of Bindings
// (KindSelect) or Boolean (KindAsk) is meaningful.
type Result struct {
	Kind     ResultKind
	Vars     []string
	Bindings []Binding
	Boolean  bool
}

type selectBody struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings *[]Binding `json:"bindings"`
	} `json:"results"`
}

type askBody struct {
	Boolean *bool `json:"boolean"`
}

// DecodeResult decodes body into one of the two known result shapes.
// The SELECT shape is tried first, then the ASK shape.
func DecodeResult(body []byte) (Result, error) {
	sel, selErr := decodeSelect(body)
	if selErr == nil {
		return sel, nil
	}

	ask, askErr := decodeAsk(body)
	if askErr == nil {
		return ask, nil
	}

	return Result{}, fmt.Errorf("%w (select: %v; ask: %v)", ErrUnknownShape, selErr, askErr)
}

func decodeSelect(body []byte) (Result, error) {
	var sb selectBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return Result{}, err
	}
	if sb.Results == nil || sb.Results.Bindings == nil {
		return Result{}, errors.New("missing results.bindings")
	}
	return Result{
		Kind:     KindSelect,
		Vars:     sb.Head.Vars,
		Bindings: *sb.Results.Bindings,
	}, nil
}

func decodeAsk(body []byte) (Result, error) {
	var ab askBody
	if err := json.Unmarshal(body, &ab); err != nil {
		return Result{}, err
	}
	if ab.Boolean == nil {
		return Result{}, errors.New("missing boolean")
	}
	return Result{Kind: KindAsk, Boolean: *ab.Boolean}, nil
}

// Value returns the lexical value bound to name, if any.
func (b Binding) Value(name string) (string, bool) {
	t, ok := b[name]
	if !ok {
		return "", false
	}
	return t.Value, true
}
