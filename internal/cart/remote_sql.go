package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountCart struct {
	AccountID string    `gorm:"column:account_id;primaryKey"`
	Lines     string    `gorm:"column:lines"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountCart) TableName() string {
	return "account_carts"
}

// SQLRemoteRepository stores account carts in the account_carts table.
type SQLRemoteRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLRemoteRepository(db *gorm.DB) (*SQLRemoteRepository, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	return &SQLRemoteRepository{db: db, now: time.Now}, nil
}

func (r *SQLRemoteRepository) Load(ctx context.Context, accountID string) ([]Line, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, errors.New("account id is required")
	}
	var row accountCart
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading account cart: %w", err)
	}
	return DecodeLines([]byte(row.Lines))
}

func (r *SQLRemoteRepository) Save(ctx context.Context, accountID string, lines []Line) error {
	if strings.TrimSpace(accountID) == "" {
		return errors.New("account id is required")
	}
	payload, err := EncodeLines(lines)
	if err != nil {
		return fmt.Errorf("encoding account cart: %w", err)
	}
	row := accountCart{AccountID: accountID, Lines: string(payload), UpdatedAt: r.now().UTC()}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"lines", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing account cart: %w", err)
	}
	return nil
}
