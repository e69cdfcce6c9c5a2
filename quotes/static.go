package quotes

import (
	"context"

	"tradesim/models"
)

// StaticProvider serves quotes from a fixed table. Used in tests and as an
// offline demo mode; prices never move.
type StaticProvider struct {
	quotes map[string]models.Quote
}

// NewStaticProvider creates a provider serving the given quotes
func NewStaticProvider(qs ...models.Quote) *StaticProvider {
	table := make(map[string]models.Quote, len(qs))
	for _, q := range qs {
		table[q.Symbol] = q
	}
	return &StaticProvider{quotes: table}
}

// Set adds or replaces a quote
func (p *StaticProvider) Set(q models.Quote) {
	p.quotes[q.Symbol] = q
}

// Lookup returns the fixed quote for a symbol, or (nil, nil) when unknown
func (p *StaticProvider) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, nil
	}
	return &q, nil
}
