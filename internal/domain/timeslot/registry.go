package timeslot

import "github.com/alysesue/bookings-api-sub001/internal/models"

// ProviderRegistry deduplicates provider records for one aggregation run so
// every bucket shares the same instance per provider id.
type ProviderRegistry struct {
	providers map[uint]*models.ServiceProvider
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[uint]*models.ServiceProvider),
	}
}

// Add registers the provider. Idempotent by id: the first instance wins.
func (r *ProviderRegistry) Add(p *models.ServiceProvider) {
	if p == nil {
		return
	}
	if _, ok := r.providers[p.ID]; !ok {
		r.providers[p.ID] = p
	}
}

func (r *ProviderRegistry) Get(id uint) (*models.ServiceProvider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

func (r *ProviderRegistry) Len() int {
	return len(r.providers)
}
