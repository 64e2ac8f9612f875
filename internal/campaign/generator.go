package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/router-for-me/PrizeCheck/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Generation limits.
const (
	// SerialLength is the number of characters in a serial number.
	SerialLength = 10
	// MaxGenerateCount caps a single generation request.
	MaxGenerateCount = 100

	serialAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts  = 16
	maxStockAttempts = 8
)

// ErrCodeSpaceExhausted indicates no unused code was found within the attempt budget.
var ErrCodeSpaceExhausted = errors.New("campaign: could not draw an unused serial number")

// GenerateRequest describes one generation run.
type GenerateRequest struct {
	Count     int    // Number of serial numbers, 1..MaxGenerateCount.
	CreatedBy string // Admin username recorded on the batch.
}

// GenerateResult holds the batch row and the serial numbers it produced.
type GenerateResult struct {
	Batch   models.SerialBatch
	Serials []models.SerialNumber
}

// Generate creates req.Count serial numbers inside one transaction, binding each to a random
// eligible prize when stock remains.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.Count < 1 || req.Count > MaxGenerateCount {
		return nil, invalidField("count", fmt.Sprintf("Count must be between 1 and %d", MaxGenerateCount))
	}

	now := s.now()
	result := &GenerateResult{Serials: make([]models.SerialNumber, 0, req.Count)}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		batch := models.SerialBatch{
			Count:     req.Count,
			CreatedBy: strings.TrimSpace(req.CreatedBy),
			CreatedAt: now,
		}
		if errCreate := tx.Create(&batch).Error; errCreate != nil {
			return fmt.Errorf("create batch: %w", errCreate)
		}

		seen := make(map[string]struct{}, req.Count)
		for i := 0; i < req.Count; i++ {
			code, errCode := s.unusedCode(tx, seen)
			if errCode != nil {
				return errCode
			}
			prize, errClaim := s.claimPrize(tx)
			if errClaim != nil {
				return errClaim
			}

			serial := models.SerialNumber{
				SerialNumber:  code,
				BatchID:       &batch.ID,
				GeneratedDate: now,
				CreatedAt:     now,
			}
			if prize != nil {
				serial.PrizeID = &prize.ID
				batch.PrizedCount++
			}
			if errCreate := tx.Omit(clause.Associations).Create(&serial).Error; errCreate != nil {
				return fmt.Errorf("create serial number: %w", errCreate)
			}
			serial.Prize = prize
			result.Serials = append(result.Serials, serial)
		}

		if errUpdate := tx.Model(&models.SerialBatch{}).
			Where("id = ?", batch.ID).
			Update("prized_count", batch.PrizedCount).Error; errUpdate != nil {
			return fmt.Errorf("update batch: %w", errUpdate)
		}
		result.Batch = batch
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, ErrCodeSpaceExhausted) {
			return nil, errTx
		}
		return nil, fmt.Errorf("campaign: generate: %w", errTx)
	}

	log.WithFields(log.Fields{
		"batch":   result.Batch.ID,
		"count":   result.Batch.Count,
		"prized":  result.Batch.PrizedCount,
		"creator": result.Batch.CreatedBy,
	}).Info("serial numbers generated")
	return result, nil
}

// randomCode draws one character per position uniformly from the alphabet.
func (s *Service) randomCode() string {
	buf := make([]byte, SerialLength)
	for i := range buf {
		buf[i] = serialAlphabet[s.picker.IntN(len(serialAlphabet))]
	}
	return string(buf)
}

// unusedCode draws codes until one is unused in both the batch and the table.
func (s *Service) unusedCode(tx *gorm.DB, seen map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.randomCode()
		if _, dup := seen[code]; dup {
			continue
		}
		var existing int64
		if errCount := tx.Model(&models.SerialNumber{}).
			Where("serial_number = ?", code).
			Count(&existing).Error; errCount != nil {
			return "", fmt.Errorf("check serial number: %w", errCount)
		}
		if existing > 0 {
			continue
		}
		seen[code] = struct{}{}
		return code, nil
	}
	return "", ErrCodeSpaceExhausted
}

// claimPrize picks an eligible prize and takes one unit of its stock. A nil prize means
// nothing was eligible.
func (s *Service) claimPrize(tx *gorm.DB) (*models.Prize, error) {
	for attempt := 0; attempt < maxStockAttempts; attempt++ {
		var eligible []models.Prize
		if errFind := tx.
			Where("tier <> ? AND remaining_quantity > 0", models.PrizeTierBig).
			Order("created_at ASC").
			Order("id ASC").
			Find(&eligible).Error; errFind != nil {
			return nil, fmt.Errorf("load eligible prizes: %w", errFind)
		}
		if len(eligible) == 0 {
			return nil, nil
		}

		pick := eligible[s.picker.IntN(len(eligible))]
		res := tx.Model(&models.Prize{}).
			Where("id = ? AND remaining_quantity > 0", pick.ID).
			UpdateColumn("remaining_quantity", gorm.Expr("remaining_quantity - 1"))
		if res.Error != nil {
			return nil, fmt.Errorf("decrement prize stock: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			pick.RemainingQuantity--
			return &pick, nil
		}
	}
	log.Warn("prize stock kept changing during generation; serial number left without a prize")
	return nil, nil
}
