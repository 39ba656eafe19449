package services

import (
	"context"

	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/pkg/tracing"
)

// AssetsService scrapes a bank portal's asset listing through a fresh
// browser session.
type AssetsService struct {
	sessions SessionFactory
	banks    BankRegistry
}

func NewAssetsService(sessions SessionFactory, banks BankRegistry) *AssetsService {
	return &AssetsService{sessions: sessions, banks: banks}
}

// GetAssets resolves the bank by name and runs its scraper on a dedicated
// session. The session is released on every exit path.
func (s *AssetsService) GetAssets(ctx context.Context, bankName, userName, password string) (*models.BankAssets, error) {
	ctx, span := tracing.StartSpan(ctx, "AssetsService.GetAssets")
	defer span.End()

	sess, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	scraper := s.banks.Lookup(bankName)
	return scraper.Assets(ctx, sess, userName, password)
}
