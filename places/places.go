package places

import (
	"context"
	"strings"
)

// Address locates a place record.
type Address struct {
	Neighborhood string `json:"neighborhood,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Locality     string `json:"locality,omitempty"`
	Region       string `json:"region,omitempty"`
}

// Record is one place returned by the search provider, in the
// provider's relevance order.
type Record struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone,omitempty"`
	URL     string  `json:"url,omitempty"`
	Address Address `json:"address"`
}

// Query is a structured restaurant search. Empty fields mean no
// preference.
type Query struct {
	Cuisine  string `json:"cuisine,omitempty"`
	Location string `json:"location,omitempty"`
	Price    string `json:"price,omitempty"`
}

// Terms synthesizes the free-text query sent to the provider.
func (q Query) Terms() string {
	parts := []string{"restaurant"}
	for _, p := range []string{q.Cuisine, q.Price, q.Location} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Client performs one search per completed location-collection step.
// The call is a plain awaited request/response bounded by ctx.
type Client interface {
	Search(ctx context.Context, query Query) ([]Record, error)
}
