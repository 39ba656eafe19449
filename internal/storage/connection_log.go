package storage

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/models"
	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
)

const connectionsDir = "connections"

func connectionLogFile(visitorID string) string {
	return fmt.Sprintf("%s/connection-log.%s.json", connectionsDir, visitorID)
}

// ConnectionLog stores one capped JSON file per visitor, newest record first.
type ConnectionLog struct {
	store *Store
}

func NewConnectionLog(store *Store) *ConnectionLog {
	return &ConnectionLog{store: store}
}

// Append prepends a record to the visitor's log, evicting the oldest record
// when the cap is exceeded.
func (l *ConnectionLog) Append(rec models.ConnectionRecord) error {
	if rec.Fingerprint.VisitorID == "" {
		return errs.InvalidInputError("visitorId", "missing")
	}
	name := connectionLogFile(rec.Fingerprint.VisitorID)

	var records []models.ConnectionRecord
	if _, err := l.store.ReadJSON(name, &records); err != nil {
		return err
	}

	records = append([]models.ConnectionRecord{rec}, records...)
	if len(records) > models.MaxConnectionRecords {
		records = records[:models.MaxConnectionRecords]
	}
	return l.store.WriteJSON(name, records)
}

// Get returns a visitor's log sorted most-recent-first by the record date.
func (l *ConnectionLog) Get(visitorID string) ([]models.ConnectionRecord, error) {
	var records []models.ConnectionRecord
	found, err := l.store.ReadJSON(connectionLogFile(visitorID), &records)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFoundError("connection log")
	}

	sort.SliceStable(records, func(i, j int) bool {
		ti, errI := time.Parse(models.ConnectionDateLayout, records[i].Date)
		tj, errJ := time.Parse(models.ConnectionDateLayout, records[j].Date)
		if errI != nil || errJ != nil {
			return false
		}
		return ti.After(tj)
	})
	return records, nil
}

// Delete removes a visitor's log file.
func (l *ConnectionLog) Delete(visitorID string) error {
	err := l.store.Delete(connectionLogFile(visitorID))
	if os.IsNotExist(err) {
		return errs.NotFoundError("connection log")
	}
	return err
}

// Tree lists the connections directory.
func (l *ConnectionLog) Tree() (*TreeNode, error) {
	return l.store.Tree(connectionsDir)
}
