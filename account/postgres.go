package account

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"snapbuy-seller-onboarding/shared"
)

// accountRow is the gorm model backing AccountState.
type accountRow struct {
	UserID           string `gorm:"primaryKey;size:64;not null"`
	IsPremium        bool   `gorm:"not null;default:false"`
	MerchantID       string `gorm:"size:64;index"`
	OnboardingStatus string `gorm:"size:32;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (accountRow) TableName() string { return "accounts" }

func (r accountRow) toState() shared.AccountState {
	return shared.AccountState{
		UserID:           r.UserID,
		IsPremium:        r.IsPremium,
		MerchantID:       r.MerchantID,
		OnboardingStatus: shared.OnboardingStatus(r.OnboardingStatus),
	}
}

// PostgresStore persists AccountState in Postgres through gorm.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres connects to the database and migrates the accounts table.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&accountRow{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (shared.AccountState, error) {
	var row accountRow
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.AccountState{}, ErrNotFound
	}
	if err != nil {
		return shared.AccountState{}, err
	}
	return row.toState(), nil
}

func (s *PostgresStore) Create(ctx context.Context, userID string) (shared.AccountState, error) {
	row := accountRow{
		UserID:           userID,
		OnboardingStatus: string(shared.OnboardingNotStarted),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing accountRow
		err := tx.First(&existing, "user_id = ?", userID).Error
		if err == nil {
			row = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return shared.AccountState{}, err
	}
	return row.toState(), nil
}

func (s *PostgresStore) BeginOnboarding(ctx context.Context, userID string) error {
	return s.update(ctx, userID, func(row *accountRow) error {
		if row.OnboardingStatus == string(shared.OnboardingCompleted) {
			return nil
		}
		row.OnboardingStatus = string(shared.OnboardingInProgress)
		return nil
	})
}

func (s *PostgresStore) CommitMerchantLink(ctx context.Context, userID, merchantID string) error {
	return s.update(ctx, userID, func(row *accountRow) error {
		if row.OnboardingStatus == string(shared.OnboardingCompleted) {
			if row.MerchantID == merchantID {
				return nil
			}
			return ErrMerchantConflict
		}
		row.MerchantID = merchantID
		row.OnboardingStatus = string(shared.OnboardingCompleted)
		return nil
	})
}

func (s *PostgresStore) FailOnboarding(ctx context.Context, userID string) error {
	return s.update(ctx, userID, func(row *accountRow) error {
		if row.OnboardingStatus != string(shared.OnboardingInProgress) {
			return nil
		}
		row.OnboardingStatus = string(shared.OnboardingFailed)
		return nil
	})
}

func (s *PostgresStore) SetPremium(ctx context.Context, userID string) error {
	return s.update(ctx, userID, func(row *accountRow) error {
		row.IsPremium = true
		return nil
	})
}

// update runs a read-modify-write on one row inside a transaction with a
// row lock, keeping the single-writer semantics across worker processes.
func (s *PostgresStore) update(ctx context.Context, userID string, mutate func(*accountRow) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row accountRow
		err := tx.Clauses(forUpdate()).First(&row, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := mutate(&row); err != nil {
			return err
		}
		return tx.Save(&row).Error
	})
}

func forUpdate() clause.Expression {
	return clause.Locking{Strength: "UPDATE"}
}
