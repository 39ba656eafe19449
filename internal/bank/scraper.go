package bank

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/portal"
	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"go.uber.org/zap"
)

// portalScraper drives one bank's login form and accounts page. The banks
// share the same flow; only URLs and selectors differ.
type portalScraper struct {
	name           string
	loginURL       string
	assetsURL      string
	selUserField   string
	selPassField   string
	selSubmit      string
	selAccountRows string
}

// NewBCN scrapes the BCN internet banking portal.
func NewBCN(baseURL string) Scraper {
	base := strings.TrimSuffix(baseURL, "/")
	return &portalScraper{
		name:           "bcn",
		loginURL:       base + "/particulares/login",
		assetsURL:      base + "/particulares/posicao-integrada",
		selUserField:   `input[name="username"]`,
		selPassField:   `input[name="password"]`,
		selSubmit:      `button[type="submit"]`,
		selAccountRows: `table.account-summary tbody tr`,
	}
}

// NewCaixa scrapes the Caixa internet banking portal.
func NewCaixa(baseURL string) Scraper {
	base := strings.TrimSuffix(baseURL, "/")
	return &portalScraper{
		name:           "caixa",
		loginURL:       base + "/login",
		assetsURL:      base + "/posicao-global",
		selUserField:   `input[name="user"]`,
		selPassField:   `input[name="pass"]`,
		selSubmit:      `input[type="submit"]`,
		selAccountRows: `table.saldos tbody tr`,
	}
}

func (s *portalScraper) Name() string {
	return s.name
}

// Assets logs in and scrapes the account listing. The bank, like the
// coworking portal, reports bad credentials only by keeping the browser on
// the login page.
func (s *portalScraper) Assets(ctx context.Context, drv portal.Driver, userName, password string) (*models.BankAssets, error) {
	startedAt := time.Now()
	defer func() {
		metrics.PortalScrapeDuration.WithLabelValues(s.name, "assets").Observe(metrics.MeasureDuration(startedAt))
	}()

	if err := drv.Navigate(ctx, s.loginURL); err != nil {
		return nil, errs.PortalError("open bank login page", err)
	}
	if err := drv.WaitVisible(ctx, s.selUserField); err != nil {
		return nil, errs.PortalError("wait for bank login form", err)
	}
	if err := drv.SendKeys(ctx, s.selUserField, userName); err != nil {
		return nil, errs.PortalError("fill bank user name", err)
	}
	if err := drv.SendKeys(ctx, s.selPassField, password); err != nil {
		return nil, errs.PortalError("fill bank password", err)
	}
	if err := drv.Click(ctx, s.selSubmit); err != nil {
		return nil, errs.PortalError("submit bank login", err)
	}

	landing, err := drv.Location(ctx)
	if err != nil {
		return nil, errs.PortalError("read bank landing url", err)
	}
	if strings.HasPrefix(landing, s.loginURL) {
		return nil, errs.ErrInvalidCredentials
	}

	if err := drv.Navigate(ctx, s.assetsURL); err != nil {
		return nil, errs.PortalError("open accounts page", err)
	}
	html, err := drv.OuterHTML(ctx)
	if err != nil {
		return nil, errs.PortalError("read accounts page", err)
	}

	accounts, err := s.parseAccounts(html)
	if err != nil {
		return nil, err
	}

	logger.Info("Bank assets scraped",
		zap.String("bank", s.name),
		zap.Int("accounts", len(accounts)),
	)
	return &models.BankAssets{Bank: s.name, Accounts: accounts}, nil
}

// parseAccounts reads account rows as name, number, balance, currency cells.
func (s *portalScraper) parseAccounts(html string) ([]models.BankAccount, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errs.PortalError("parse accounts page", err)
	}

	accounts := []models.BankAccount{}
	doc.Find(s.selAccountRows).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		accounts = append(accounts, models.BankAccount{
			Name:     strings.TrimSpace(cells.Eq(0).Text()),
			Number:   strings.TrimSpace(cells.Eq(1).Text()),
			Balance:  strings.TrimSpace(cells.Eq(2).Text()),
			Currency: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})
	return accounts, nil
}
