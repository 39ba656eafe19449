package services

import (
	"time"

	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/storage"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"go.uber.org/zap"
)

// ConnectionService records visitor fingerprints and serves the stored logs.
type ConnectionService struct {
	log *storage.ConnectionLog
	now func() time.Time
}

func NewConnectionService(log *storage.ConnectionLog) *ConnectionService {
	return &ConnectionService{log: log, now: time.Now}
}

// Track appends a visit record. Tracking failures never affect the
// caller-visible outcome: they are logged and swallowed by design.
func (s *ConnectionService) Track(payload models.TrackRequest, headers map[string][]string, ip string) {
	now := s.now()
	rec := models.ConnectionRecord{
		Headers:     headers,
		IP:          ip,
		Fingerprint: payload.Fingerprint(),
		TimeStamp:   now.UnixMilli(),
		Date:        now.Format(models.ConnectionDateLayout),
	}

	if err := s.log.Append(rec); err != nil {
		metrics.ConnectionRecordsTotal.WithLabelValues("error").Inc()
		logger.Warn("Failed to track connection",
			zap.String("visitor_id", payload.VisitorID),
			zap.Error(err),
		)
		return
	}

	metrics.ConnectionRecordsTotal.WithLabelValues("ok").Inc()
	logger.Info("Connection tracked",
		zap.String("visitor_id", payload.VisitorID),
		zap.String("pathname", payload.Pathname),
	)
}

// Tree lists the connections store.
func (s *ConnectionService) Tree() (*storage.TreeNode, error) {
	return s.log.Tree()
}

// Get returns one visitor's log, most recent first.
func (s *ConnectionService) Get(visitorID string) ([]models.ConnectionRecord, error) {
	return s.log.Get(visitorID)
}

// Delete removes one visitor's log.
func (s *ConnectionService) Delete(visitorID string) error {
	if err := s.log.Delete(visitorID); err != nil {
		return err
	}
	logger.Info("Connection log deleted", zap.String("visitor_id", visitorID))
	return nil
}
