package registry

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "group-verify-bot/internal/errors"
	"group-verify-bot/internal/models"
)

// entry is everything the registry knows about one user
type entry struct {
	status       models.Status
	record       *models.VerificationRecord
	messageCount int
	registeredAt time.Time
}

// Registry holds the verified, blocked and pending sets and the unverified
// message counters. All operations are serialized by one lock, so ClearAll
// never exposes a half-cleared state.
type Registry struct {
	mu     sync.RWMutex
	users  map[int64]*entry
	now    func() time.Time
	logger *logrus.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithClock overrides the time source used for registration timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New creates an empty registry
func New(logger *logrus.Logger, opts ...Option) *Registry {
	r := &Registry{
		users:  make(map[int64]*entry),
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Status returns the user's current status
func (r *Registry) Status(userID int64) models.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.users[userID]; ok {
		return e.status
	}
	return models.StatusNone
}

// IsVerified checks if a user is verified
func (r *Registry) IsVerified(userID int64) bool {
	return r.Status(userID) == models.StatusVerified
}

// IsBlocked checks if a user is blocked
func (r *Registry) IsBlocked(userID int64) bool {
	return r.Status(userID) == models.StatusBlocked
}

// IsPending checks if a user has a pending record
func (r *Registry) IsPending(userID int64) bool {
	return r.Status(userID) == models.StatusPending
}

// PutPending files a verification record. It fails if the user is already
// pending, verified or blocked.
func (r *Registry) PutPending(record models.VerificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(record.UserID)
	switch e.status {
	case models.StatusBlocked:
		return apperrors.ErrBlocked
	case models.StatusVerified:
		return apperrors.ErrAlreadyVerified
	case models.StatusPending:
		return apperrors.ErrAlreadyPending
	}

	rec := record
	e.status = models.StatusPending
	e.record = &rec
	r.logger.WithField("user_id", record.UserID).Debug("Filed pending record")
	return nil
}

// GetPending returns a copy of the user's pending record without consuming it
func (r *Registry) GetPending(userID int64) (models.VerificationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.users[userID]
	if !ok || e.status != models.StatusPending || e.record == nil {
		return models.VerificationRecord{}, apperrors.ErrNotFound
	}
	return *e.record, nil
}

// TakePending removes and returns the user's pending record. The user drops
// back to StatusNone.
func (r *Registry) TakePending(userID int64) (models.VerificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.takeLocked(userID)
}

// MarkVerified moves the user into the verified set and stamps the
// registration time. Any pending record is discarded.
func (r *Registry) MarkVerified(userID int64) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.markVerifiedLocked(userID)
}

// MarkBlocked moves the user into the blocked set. Any pending record is discarded.
func (r *Registry) MarkBlocked(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markBlockedLocked(userID)
}

// Approve consumes the pending record and verifies the user in one step, so
// two concurrent approvals yield exactly one success and one ErrNotFound.
func (r *Registry) Approve(userID int64) (models.VerificationRecord, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.takeLocked(userID)
	if err != nil {
		return models.VerificationRecord{}, time.Time{}, err
	}
	return record, r.markVerifiedLocked(userID), nil
}

// Reject consumes the pending record and blocks the user in one step
func (r *Registry) Reject(userID int64) (models.VerificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.takeLocked(userID)
	if err != nil {
		return models.VerificationRecord{}, err
	}
	r.markBlockedLocked(userID)
	return record, nil
}

// RegistrationTime returns when the user became verified
func (r *Registry) RegistrationTime(userID int64) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.users[userID]
	if !ok || e.status != models.StatusVerified {
		return time.Time{}, false
	}
	return e.registeredAt, true
}

// IncrementCount bumps the user's unverified message counter and returns the new value
func (r *Registry) IncrementCount(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(userID)
	e.messageCount++
	return e.messageCount
}

// CountMessage reads the status and, for users that are neither verified nor
// blocked, increments the counter under the same lock. The returned count is
// zero when no increment happened.
func (r *Registry) CountMessage(userID int64) (models.Status, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(userID)
	if e.status == models.StatusVerified || e.status == models.StatusBlocked {
		return e.status, 0
	}
	e.messageCount++
	return e.status, e.messageCount
}

// MessageCount returns the user's unverified message counter
func (r *Registry) MessageCount(userID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.users[userID]; ok {
		return e.messageCount
	}
	return 0
}

// ResetCount sets the user's counter back to zero
func (r *Registry) ResetCount(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.users[userID]; ok {
		e.messageCount = 0
	}
}

// ClearAll empties every registry and reports what was removed
func (r *Registry) ClearAll() models.ClearStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats models.ClearStats
	for _, e := range r.users {
		switch e.status {
		case models.StatusVerified:
			stats.Verified++
		case models.StatusBlocked:
			stats.Blocked++
		case models.StatusPending:
			stats.Pending++
		}
		if e.messageCount > 0 {
			stats.Counters++
		}
	}

	r.users = make(map[int64]*entry)
	r.logger.WithFields(logrus.Fields{
		"verified": stats.Verified,
		"blocked":  stats.Blocked,
		"pending":  stats.Pending,
		"counters": stats.Counters,
	}).Info("Cleared registry")
	return stats
}

// PendingRecords returns copies of all pending records, oldest first
func (r *Registry) PendingRecords() []models.VerificationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]models.VerificationRecord, 0)
	for _, e := range r.users {
		if e.status == models.StatusPending && e.record != nil {
			records = append(records, *e.record)
		}
	}
	sortRecords(records)
	return records
}

// Stats returns the current registry sizes
func (r *Registry) Stats() models.RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats models.RegistryStats
	for _, e := range r.users {
		switch e.status {
		case models.StatusVerified:
			stats.Verified++
		case models.StatusBlocked:
			stats.Blocked++
		case models.StatusPending:
			stats.Pending++
		}
		if e.messageCount > 0 {
			stats.Counted++
		}
	}
	return stats
}

// entryLocked returns the user's entry, creating it. Caller holds the write lock.
func (r *Registry) entryLocked(userID int64) *entry {
	e, ok := r.users[userID]
	if !ok {
		e = &entry{}
		r.users[userID] = e
	}
	return e
}

func (r *Registry) takeLocked(userID int64) (models.VerificationRecord, error) {
	e, ok := r.users[userID]
	if !ok || e.status != models.StatusPending || e.record == nil {
		return models.VerificationRecord{}, apperrors.ErrNotFound
	}

	record := *e.record
	e.record = nil
	e.status = models.StatusNone
	return record, nil
}

func (r *Registry) markVerifiedLocked(userID int64) time.Time {
	e := r.entryLocked(userID)
	e.status = models.StatusVerified
	e.record = nil
	e.registeredAt = r.now()
	r.logger.WithField("user_id", userID).Info("User verified")
	return e.registeredAt
}

func (r *Registry) markBlockedLocked(userID int64) {
	e := r.entryLocked(userID)
	e.status = models.StatusBlocked
	e.record = nil
	e.registeredAt = time.Time{}
	r.logger.WithField("user_id", userID).Info("User blocked")
}
