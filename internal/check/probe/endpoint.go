package probe

import (
	"fmt"
	"net/url"
	"os"

	"github.com/DjordjeVuckovic/qado-check/internal/apperr"
	"gopkg.in/yaml.v3"
)

// Endpoint is a public knowledge-graph SPARQL endpoint.
type Endpoint struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// DefaultEndpoints lists the endpoints in precedence order.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "dbpedia", URL: "https://dbpedia.org/sparql"},
		{Name: "wikidata", URL: "https://query.wikidata.org/sparql"},
	}
}

type endpointsFile struct {
	Endpoints []Endpoint `yaml:"endpoints"`
}

func LoadEndpointsFile(path string) ([]Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	return ParseEndpoints(data)
}

func ParseEndpoints(data []byte) ([]Endpoint, error) {
	var f endpointsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, apperr.NewValidationWrap("parse endpoints YAML", err)
	}
	if err := ValidateEndpoints(f.Endpoints); err != nil {
		return nil, err
	}
	return f.Endpoints, nil
}

// ValidateEndpoints checks the list is non-empty, every URL is absolute
// http(s) and names are unique. Missing names default to the URL host.
func ValidateEndpoints(endpoints []Endpoint) error {
	if len(endpoints) == 0 {
		return apperr.NewValidation("no endpoints configured")
	}

	seen := make(map[string]bool, len(endpoints))
	for i := range endpoints {
		ep := &endpoints[i]
		if ep.URL == "" {
			return apperr.NewValidation(fmt.Sprintf("endpoint at index %d has no url", i))
		}
		u, err := url.Parse(ep.URL)
		if err != nil {
			return apperr.NewValidationWrap(fmt.Sprintf("endpoint at index %d has an invalid url", i), err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return apperr.NewValidation(fmt.Sprintf("endpoint %q must be an absolute http(s) url", ep.URL))
		}
		if ep.Name == "" {
			ep.Name = u.Host
		}
		if seen[ep.Name] {
			return apperr.NewValidation(fmt.Sprintf("duplicate endpoint name %q", ep.Name))
		}
		seen[ep.Name] = true
	}
	return nil
}
