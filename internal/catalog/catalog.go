package catalog

import "strings"

// Service is one bookable service from the business catalog.
type Service struct {
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int
}

// Catalog holds the ordered service list. Order matters: the assistant
// resolves service mentions by first match, so more specific names should
// come before generic ones.
type Catalog struct {
	services []Service
}

// New creates a catalog from an explicit service list.
func New(services []Service) *Catalog {
	return &Catalog{services: services}
}

// Default returns the built-in catalog used when no external source is
// configured.
func Default() *Catalog {
	return New([]Service{
		{Name: "Corte de Cabelo", Description: "Corte feminino ou masculino", DurationMinutes: 45, PriceCents: 6000},
		{Name: "Escova", Description: "Escova modelada", DurationMinutes: 40, PriceCents: 5000},
		{Name: "Coloração", Description: "Coloração completa", DurationMinutes: 120, PriceCents: 18000},
		{Name: "Hidratação", Description: "Hidratação profunda", DurationMinutes: 50, PriceCents: 8000},
		{Name: "Manicure", Description: "Manicure tradicional", DurationMinutes: 40, PriceCents: 3500},
		{Name: "Pedicure", Description: "Pedicure tradicional", DurationMinutes: 50, PriceCents: 4000},
		{Name: "Design de Sobrancelha", Description: "Design e modelagem", DurationMinutes: 30, PriceCents: 4500},
		{Name: "Maquiagem", Description: "Maquiagem social", DurationMinutes: 60, PriceCents: 12000},
	})
}

// Match resolves a free-text message to a service by case-insensitive
// substring match against each display name, in list order. The first
// matching entry wins; there is no ranking, so a message mentioning two
// services resolves to whichever comes first in the catalog.
func (c *Catalog) Match(message string) (Service, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return Service{}, false
	}
	for _, svc := range c.services {
		if strings.Contains(msg, strings.ToLower(svc.Name)) {
			return svc, true
		}
	}
	return Service{}, false
}

// Names returns the display names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.services))
	for _, svc := range c.services {
		names = append(names, svc.Name)
	}
	return names
}

// Services returns a copy of the service list.
func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}
