package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbutil "github.com/router-for-me/PrizeCheck/internal/db"
	"github.com/router-for-me/PrizeCheck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Paging limits for ListSerials.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// serialSortColumns whitelists sortable columns by their API name.
var serialSortColumns = map[string]string{
	"serial_number":  "serial_numbers.serial_number",
	"customer_name":  "serial_numbers.customer_name",
	"customer_phone": "serial_numbers.customer_phone",
	"prize_name":     "prizes.name",
	"prize_tier":     "prizes.tier",
	"claimed":        "serial_numbers.claimed",
	"generated_date": "serial_numbers.generated_date",
	"redeem_date":    "serial_numbers.redeem_date",
	"created_at":     "serial_numbers.created_at",
}

// SerialFilter narrows and orders ListSerials.
type SerialFilter struct {
	Query    string // Searches serial, customer name, phone and prize name.
	Claimed  *bool  // Claimed state when set.
	PrizeID  string // Bound prize when set.
	BatchID  string // Generation batch when set.
	Sort     string // Key of serialSortColumns; defaults to generated_date.
	Desc     bool   // Sort direction.
	Page     int    // 1-based page; 0 returns every row.
	PageSize int    // Rows per page when paging.
}

// SerialPage is one page of serial numbers.
type SerialPage struct {
	Items    []models.SerialNumber `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// ListSerials returns serial numbers with their prizes, filtered and sorted.
func (s *Service) ListSerials(ctx context.Context, filter SerialFilter) (SerialPage, error) {
	sortKey := strings.TrimSpace(filter.Sort)
	sortColumn, ok := serialSortColumns[sortKey]
	if sortKey != "" && !ok {
		return SerialPage{}, invalidField("sort", "Unsupported sort field")
	}
	if sortKey == "" {
		sortColumn = serialSortColumns["generated_date"]
		filter.Desc = true
	}

	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx).
			Model(&models.SerialNumber{}).
			Joins("LEFT JOIN prizes ON prizes.id = serial_numbers.prize_id")
		if term := strings.TrimSpace(filter.Query); term != "" {
			pattern := dbutil.ContainsPattern(s.db, term)
			q = q.Where(
				s.db.Where(dbutil.CaseInsensitiveLikeExpr(s.db, "serial_numbers.serial_number"), pattern).
					Or(dbutil.CaseInsensitiveLikeExpr(s.db, "serial_numbers.customer_name"), pattern).
					Or(dbutil.CaseInsensitiveLikeExpr(s.db, "serial_numbers.customer_phone"), pattern).
					Or(dbutil.CaseInsensitiveLikeExpr(s.db, "prizes.name"), pattern),
			)
		}
		if filter.Claimed != nil {
			q = q.Where("serial_numbers.claimed = ?", *filter.Claimed)
		}
		if id := strings.TrimSpace(filter.PrizeID); id != "" {
			q = q.Where("serial_numbers.prize_id = ?", id)
		}
		if id := strings.TrimSpace(filter.BatchID); id != "" {
			q = q.Where("serial_numbers.batch_id = ?", id)
		}
		return q
	}

	page := SerialPage{Items: []models.SerialNumber{}}
	if errCount := scoped().Count(&page.Total).Error; errCount != nil {
		return SerialPage{}, fmt.Errorf("campaign: count serial numbers: %w", errCount)
	}

	q := scoped().
		Select("serial_numbers.*").
		Preload("Prize").
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn, Raw: true}, Desc: filter.Desc}).
		Order("serial_numbers.id ASC")
	if filter.Page > 0 {
		size := filter.PageSize
		if size <= 0 {
			size = DefaultPageSize
		}
		if size > MaxPageSize {
			size = MaxPageSize
		}
		page.Page = filter.Page
		page.PageSize = size
		q = q.Offset((filter.Page - 1) * size).Limit(size)
	}
	if errFind := q.Find(&page.Items).Error; errFind != nil {
		return SerialPage{}, fmt.Errorf("campaign: list serial numbers: %w", errFind)
	}
	return page, nil
}

// GetSerial fetches a serial number with its prize.
func (s *Service) GetSerial(ctx context.Context, id string) (*models.SerialNumber, error) {
	var serial models.SerialNumber
	if errFind := s.db.WithContext(ctx).
		Preload("Prize").
		First(&serial, "id = ?", strings.TrimSpace(id)).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("campaign: get serial number: %w", errFind)
	}
	return &serial, nil
}

// SerialPatch holds optional serial-number fields for an admin edit.
type SerialPatch struct {
	PrizeID       *string    `json:"prize_id"` // Empty string unbinds.
	Claimed       *bool      `json:"claimed"`
	CustomerName  *string    `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone"`
	RedeemDate    *time.Time `json:"redeem_date"`
}

// UpdateSerial applies an admin edit. Claimed and the customer name move together: clearing
// claimed wipes the customer fields, and a customer name marks the code claimed. Rebinding a
// prize does not adjust stock.
func (s *Service) UpdateSerial(ctx context.Context, id string, patch SerialPatch) (*models.SerialNumber, error) {
	var updated models.SerialNumber
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.SerialNumber
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", strings.TrimSpace(id)).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errFind
		}

		updates := map[string]any{}
		if patch.PrizeID != nil {
			prizeID := strings.TrimSpace(*patch.PrizeID)
			if prizeID == "" {
				updates["prize_id"] = nil
			} else {
				var count int64
				if errCount := tx.Model(&models.Prize{}).Where("id = ?", prizeID).Count(&count).Error; errCount != nil {
					return errCount
				}
				if count == 0 {
					return invalidField("prize_id", "Prize not found")
				}
				updates["prize_id"] = prizeID
			}
		}

		name := current.CustomerName
		if patch.CustomerName != nil {
			name = strings.TrimSpace(*patch.CustomerName)
		}
		phone := current.CustomerPhone
		if patch.CustomerPhone != nil {
			phone = strings.TrimSpace(*patch.CustomerPhone)
		}
		claimed := current.Redeemed()
		if patch.Claimed != nil {
			claimed = *patch.Claimed
		} else if patch.CustomerName != nil {
			claimed = name != ""
		}

		if !claimed {
			if patch.CustomerName != nil && name != "" {
				return invalidField("claimed", "An unclaimed serial number cannot keep a customer name")
			}
			updates["claimed"] = false
			updates["customer_name"] = ""
			updates["customer_phone"] = ""
			updates["redeem_date"] = nil
		} else {
			if name == "" {
				return invalidField("customer_name", "Customer name is required for a claimed serial number")
			}
			updates["claimed"] = true
			updates["customer_name"] = name
			updates["customer_phone"] = phone
			switch {
			case patch.RedeemDate != nil:
				updates["redeem_date"] = patch.RedeemDate.UTC()
			case current.RedeemDate == nil:
				updates["redeem_date"] = s.now()
			}
		}

		if errUpdate := tx.Model(&models.SerialNumber{}).Where("id = ?", current.ID).Updates(updates).Error; errUpdate != nil {
			return errUpdate
		}
		return tx.Preload("Prize").First(&updated, "id = ?", current.ID).Error
	})
	if errTx != nil {
		var verr *ValidationError
		if errors.Is(errTx, ErrNotFound) || errors.As(errTx, &verr) {
			return nil, errTx
		}
		return nil, fmt.Errorf("campaign: update serial number: %w", errTx)
	}
	return &updated, nil
}

// DeleteSerial removes a serial number.
func (s *Service) DeleteSerial(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.SerialNumber{}, "id = ?", strings.TrimSpace(id))
	if res.Error != nil {
		return fmt.Errorf("campaign: delete serial number: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBatches returns generation batches newest first.
func (s *Service) ListBatches(ctx context.Context) ([]models.SerialBatch, error) {
	var rows []models.SerialBatch
	if errFind := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("campaign: list batches: %w", errFind)
	}
	return rows, nil
}
