package bank

import (
	"context"
	"strings"

	"github.com/cv-helper/cv-helper-api/config"
	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/portal"
)

// Scraper reads the asset listing of one bank portal through a browser.
type Scraper interface {
	Name() string
	Assets(ctx context.Context, drv portal.Driver, userName, password string) (*models.BankAssets, error)
}

// Registry routes a bank name to its scraper. Anything that isn't BCN routes
// to Caixa, matching the legacy lookup table.
type Registry struct {
	scrapers map[string]Scraper
	fallback Scraper
}

func NewRegistry(cfg config.BanksConfig) *Registry {
	bcn := NewBCN(cfg.BCNBaseURL)
	caixa := NewCaixa(cfg.CaixaBaseURL)
	return &Registry{
		scrapers: map[string]Scraper{
			bcn.Name():   bcn,
			caixa.Name(): caixa,
		},
		fallback: caixa,
	}
}

func (r *Registry) Lookup(name string) Scraper {
	if s, ok := r.scrapers[strings.ToLower(name)]; ok {
		return s
	}
	return r.fallback
}
