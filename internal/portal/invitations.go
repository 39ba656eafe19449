package portal

import (
	"context"
	"strings"
	"time"

	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	selInvitationList   = `.o_invitation_list`
	selInvitationAccept = `.o_invitation_list .o_invitation_pending button.o_accept`
)

// Acceptor accepts pending booking invitations. Individual items failing to
// accept are skipped; only an unreachable invitations UI is an error.
type Acceptor struct {
	invitationsURL string
}

func NewAcceptor(baseURL string) *Acceptor {
	return &Acceptor{invitationsURL: strings.TrimSuffix(baseURL, "/") + "/web/invitations"}
}

// AcceptInvitations clicks through up to n pending invitations and returns
// how many were accepted.
func (a *Acceptor) AcceptInvitations(ctx context.Context, drv Driver, n int) (int, error) {
	startedAt := time.Now()
	defer func() {
		metrics.PortalScrapeDuration.WithLabelValues("coworking", "accept_invitations").Observe(metrics.MeasureDuration(startedAt))
	}()

	if err := drv.Navigate(ctx, a.invitationsURL); err != nil {
		return 0, errs.PortalError("open invitations page", err)
	}
	if err := drv.WaitVisible(ctx, selInvitationList); err != nil {
		return 0, errs.PortalError("wait for invitation list", err)
	}

	accepted := 0
	for i := 0; i < n; i++ {
		// Accepting removes the row, so the first pending button always
		// targets the next invitation.
		if err := drv.Click(ctx, selInvitationAccept); err != nil {
			metrics.InvitationsAcceptedTotal.WithLabelValues("skipped").Inc()
			logger.Warn("Invitation could not be accepted", zap.Int("index", i), zap.Error(err))
			continue
		}
		metrics.InvitationsAcceptedTotal.WithLabelValues("accepted").Inc()
		accepted++
	}

	logger.Info("Invitations processed",
		zap.Int("requested", n),
		zap.Int("accepted", accepted),
	)
	return accepted, nil
}
