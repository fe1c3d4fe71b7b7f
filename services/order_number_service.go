package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orderCounterName = "orders"

// OrderNumberService produces globally unique order numbers of the form
// ORD-YYYYMMDD-NNNNNN. Uniqueness comes from an atomically incremented
// counter row, never from counting existing orders: two concurrent callers
// counting rows can read the same value before either commits.
type OrderNumberService struct {
	db         *gorm.DB
	maxRetries int
	logger     *zap.Logger
}

// NewOrderNumberService creates a generator with the given retry bound
func NewOrderNumberService(db *gorm.DB, maxRetries int, logger *zap.Logger) *OrderNumberService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &OrderNumberService{db: db, maxRetries: maxRetries, logger: logger}
}

// Next returns the next unique order number. Transient database errors are
// retried up to the configured bound; exhaustion surfaces
// ErrNumberGenerationFailed.
func (s *OrderNumberService) Next() (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		seq, err := s.nextCounterValue()
		if err != nil {
			lastErr = err
			s.logger.Warn("order number generation attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		return fmt.Sprintf("ORD-%s-%06d", time.Now().UTC().Format("20060102"), seq), nil
	}
	return "", fmt.Errorf("%w: %d attempts: %v", ErrNumberGenerationFailed, s.maxRetries, lastErr)
}

// nextCounterValue increments and reads the counter in one atomic statement.
// The upsert form works on both postgres and sqlite.
func (s *OrderNumberService) nextCounterValue() (int64, error) {
	var value int64
	err := s.db.Raw(
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = value + 1
		 RETURNING value`,
		orderCounterName,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
