// Package sequence issues gap-free per-user, per-business-day invoice
// serials. Allocation is a single atomic upsert so two concurrent callers can
// never observe the same serial.
package sequence

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Counter tracks the next serial for a (user, business date) pair. The row is
// created on the first invoice of the day and never deleted.
type Counter struct {
	UserID  snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	DateKey string       `gorm:"primaryKey;type:varchar(10)"`
	NextNo  int64        `gorm:"not null;default:1"`
}

func (Counter) TableName() string { return "invoice_counters" }

type RepositoryParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Repository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRepository(p RepositoryParam) *Repository {
	return &Repository{
		db:  p.DB,
		log: p.Log.Named("sequence.repository"),
	}
}

// Allocate returns the next serial for (userID, dateKey) and advances the
// counter, as one indivisible statement. It must be called inside an open
// transaction; a rollback returns the counter to its prior value.
//
// The first allocation of a day inserts next_no=2 and returns 1; later
// allocations increment and return the pre-increment value.
func (r *Repository) Allocate(ctx context.Context, tx *gorm.DB, userID snowflake.ID, dateKey string) (int64, error) {
	if tx.Dialector.Name() == "mysql" {
		return r.allocateMySQL(ctx, tx, userID, dateKey)
	}

	var next int64
	err := tx.WithContext(ctx).Raw(
		`INSERT INTO invoice_counters (user_id, date_key, next_no)
		 VALUES (?, ?, 2)
		 ON CONFLICT (user_id, date_key)
		 DO UPDATE SET next_no = invoice_counters.next_no + 1
		 RETURNING next_no`,
		userID,
		dateKey,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}

// allocateMySQL has no RETURNING; LAST_INSERT_ID(expr) smuggles the new
// counter value out of the upsert so the read stays race-free.
func (r *Repository) allocateMySQL(ctx context.Context, tx *gorm.DB, userID snowflake.ID, dateKey string) (int64, error) {
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO invoice_counters (user_id, date_key, next_no)
		 VALUES (?, ?, LAST_INSERT_ID(2))
		 ON DUPLICATE KEY UPDATE next_no = LAST_INSERT_ID(next_no + 1)`,
		userID,
		dateKey,
	).Error
	if err != nil {
		return 0, err
	}

	var next int64
	if err := tx.WithContext(ctx).Raw(`SELECT LAST_INSERT_ID()`).Scan(&next).Error; err != nil {
		return 0, err
	}
	return next - 1, nil
}

// Peek reports the serial the next allocation would return, without
// consuming it. Returns 1 when no invoice has been created for the day yet.
func (r *Repository) Peek(ctx context.Context, userID snowflake.ID, dateKey string) (int64, error) {
	var counter Counter
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date_key = ?", userID, dateKey).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 0, err
	}
	return counter.NextNo, nil
}
