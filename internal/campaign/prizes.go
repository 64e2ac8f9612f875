package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dbutil "github.com/router-for-me/PrizeCheck/internal/db"
	"github.com/router-for-me/PrizeCheck/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrizeFilter narrows ListPrizes.
type PrizeFilter struct {
	Tier  models.PrizeTier // Exact tier match when set.
	Query string           // Case-insensitive name search.
}

// ListPrizes returns prizes newest first.
func (s *Service) ListPrizes(ctx context.Context, filter PrizeFilter) ([]models.Prize, error) {
	q := s.db.WithContext(ctx).Model(&models.Prize{})
	if tier := strings.TrimSpace(string(filter.Tier)); tier != "" {
		q = q.Where("tier = ?", strings.ToLower(tier))
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(s.db, "name"), dbutil.ContainsPattern(s.db, term))
	}

	var rows []models.Prize
	if errFind := q.Order("created_at DESC").Order("id ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("campaign: list prizes: %w", errFind)
	}
	return rows, nil
}

// GetPrize fetches a prize by id.
func (s *Service) GetPrize(ctx context.Context, id string) (*models.Prize, error) {
	var prize models.Prize
	if errFind := s.db.WithContext(ctx).First(&prize, "id = ?", strings.TrimSpace(id)).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("campaign: get prize: %w", errFind)
	}
	return &prize, nil
}

// CreatePrize validates the form and stores a new prize. Remaining stock defaults to quantity.
func (s *Service) CreatePrize(ctx context.Context, in PrizeInput) (*models.Prize, error) {
	valid, errValidate := ValidatePrizeInput(in)
	if errValidate != nil {
		return nil, errValidate
	}
	remaining := valid.Quantity
	if valid.RemainingQuantity != nil {
		remaining = *valid.RemainingQuantity
	}

	now := s.now()
	prize := models.Prize{
		Name:              valid.Name,
		Description:       valid.Description,
		Tier:              valid.Tier,
		Quantity:          valid.Quantity,
		RemainingQuantity: remaining,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if errCreate := s.db.WithContext(ctx).Create(&prize).Error; errCreate != nil {
		return nil, fmt.Errorf("campaign: create prize: %w", errCreate)
	}
	return &prize, nil
}

// PrizePatch holds optional prize fields for a partial update.
type PrizePatch struct {
	Name              *string           `json:"name"`
	Description       *string           `json:"description"`
	Tier              *models.PrizeTier `json:"tier"`
	Quantity          *int              `json:"quantity"`
	RemainingQuantity *int              `json:"remaining_quantity"`
}

// UpdatePrize applies a partial update. A quantity change without an explicit remaining value
// shifts remaining by the same delta, clamped to [0, quantity].
func (s *Service) UpdatePrize(ctx context.Context, id string, patch PrizePatch) (*models.Prize, error) {
	var updated models.Prize
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Prize
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", strings.TrimSpace(id)).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errFind
		}

		in := PrizeInput{
			Name:        current.Name,
			Description: current.Description,
			Tier:        current.Tier,
			Quantity:    current.Quantity,
		}
		if patch.Name != nil {
			in.Name = *patch.Name
		}
		if patch.Description != nil {
			in.Description = *patch.Description
		}
		if patch.Tier != nil {
			in.Tier = *patch.Tier
		}
		if patch.Quantity != nil {
			in.Quantity = *patch.Quantity
		}
		remaining := current.RemainingQuantity
		if patch.RemainingQuantity != nil {
			remaining = *patch.RemainingQuantity
		} else if patch.Quantity != nil {
			remaining = clamp(current.RemainingQuantity+in.Quantity-current.Quantity, 0, max(in.Quantity, 0))
		}
		in.RemainingQuantity = &remaining

		valid, errValidate := ValidatePrizeInput(in)
		if errValidate != nil {
			return errValidate
		}

		updates := map[string]any{
			"name":               valid.Name,
			"description":        valid.Description,
			"tier":               valid.Tier,
			"quantity":           valid.Quantity,
			"remaining_quantity": *valid.RemainingQuantity,
			"updated_at":         s.now(),
		}
		if errUpdate := tx.Model(&models.Prize{}).Where("id = ?", current.ID).Updates(updates).Error; errUpdate != nil {
			return errUpdate
		}
		return tx.First(&updated, "id = ?", current.ID).Error
	})
	if errTx != nil {
		var verr *ValidationError
		if errors.Is(errTx, ErrNotFound) || errors.As(errTx, &verr) {
			return nil, errTx
		}
		return nil, fmt.Errorf("campaign: update prize: %w", errTx)
	}
	return &updated, nil
}

// DeletePrize removes a prize after unbinding every serial number that carried it.
func (s *Service) DeletePrize(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	var unbound int64
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.SerialNumber{}).Where("prize_id = ?", id).Update("prize_id", nil)
		if res.Error != nil {
			return res.Error
		}
		unbound = res.RowsAffected

		del := tx.Delete(&models.Prize{}, "id = ?", id)
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("campaign: delete prize: %w", errTx)
	}
	log.WithFields(log.Fields{"prize": id, "unbound": unbound}).Info("prize deleted")
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
