package chainsol

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HistoryStore persists submitted transactions through gorm.
type HistoryStore struct {
	db *gorm.DB
}

// OpenHistoryStore opens (creating if needed) a SQLite history database.
// ":memory:" gives a throwaway store.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open history db %s", path)
	}

	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across the pool.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "history db handle")
	}
	sqlDB.SetMaxOpenConns(1)

	return NewHistoryStore(db)
}

func NewHistoryStore(db *gorm.DB) (*HistoryStore, error) {
	if err := db.AutoMigrate(&TransactionHistory{}); err != nil {
		return nil, errors.Wrap(err, "migrate transaction history")
	}
	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Record(ctx context.Context, entry *TransactionHistory) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(entry).Error, "record transaction")
}

// Finish sets the terminal status of an operation.
func (s *HistoryStore) Finish(ctx context.Context, operationID string, signature string, cause error) error {
	updates := map[string]interface{}{
		"status": StatusConfirmed,
	}
	if signature != "" {
		updates["signature"] = signature
	}
	if cause != nil {
		updates["status"] = StatusFailed
		updates["error_message"] = cause.Error()
	} else {
		now := time.Now()
		updates["confirmed_at"] = &now
	}

	res := s.db.WithContext(ctx).
		Model(&TransactionHistory{}).
		Where("operation_id = ?", operationID).
		Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update transaction")
	}
	if res.RowsAffected == 0 {
		return errors.Errorf("operation %s not recorded", operationID)
	}
	return nil
}

func (s *HistoryStore) Get(ctx context.Context, operationID string) (*TransactionHistory, error) {
	var entry TransactionHistory
	err := s.db.WithContext(ctx).Where("operation_id = ?", operationID).First(&entry).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get operation %s", operationID)
	}
	return &entry, nil
}

// ByAddress lists the newest entries where address signed or was targeted.
// An empty address lists everything.
func (s *HistoryStore) ByAddress(ctx context.Context, address string, limit int) ([]TransactionHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	q := s.db.WithContext(ctx)
	if address != "" {
		q = q.Where("signer = ? OR target = ?", address, address)
	}

	var histories []TransactionHistory
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&histories).Error
	return histories, errors.Wrap(err, "list transactions")
}

func (s *HistoryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
