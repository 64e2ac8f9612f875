package campaign

import (
	"context"
	"errors"
	"fmt"

	"github.com/router-for-me/PrizeCheck/internal/models"
	"github.com/router-for-me/PrizeCheck/internal/util"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Redeem attaches the customer's identity to an unclaimed serial number. Unknown and
// already-claimed codes both yield ErrSerialUnavailable.
func (s *Service) Redeem(ctx context.Context, form RedeemForm) (*models.SerialNumber, error) {
	if !s.redemptionOpen() {
		return nil, ErrRedemptionClosed
	}
	valid, errValidate := ValidateRedeemForm(form)
	if errValidate != nil {
		return nil, errValidate
	}

	now := s.now()
	res := s.db.WithContext(ctx).
		Model(&models.SerialNumber{}).
		Where("serial_number = ? AND claimed = ? AND customer_name = ?", valid.SerialNumber, false, "").
		Updates(map[string]any{
			"claimed":        true,
			"customer_name":  valid.FullName,
			"customer_phone": valid.PhoneNumber,
			"redeem_date":    now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("campaign: redeem: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrSerialUnavailable
	}

	var serial models.SerialNumber
	if errFind := s.db.WithContext(ctx).
		Preload("Prize").
		Where("serial_number = ?", valid.SerialNumber).
		First(&serial).Error; errFind != nil {
		return nil, fmt.Errorf("campaign: load redeemed serial: %w", errFind)
	}
	log.WithFields(log.Fields{
		"serial":   serial.SerialNumber,
		"customer": util.MaskName(serial.CustomerName),
		"phone":    util.MaskPhone(serial.CustomerPhone),
	}).Info("serial number redeemed")
	return &serial, nil
}

// PrizeForSerial returns the current prize bound to a code. A known code without a prize
// returns (nil, nil).
func (s *Service) PrizeForSerial(ctx context.Context, code string) (*models.Prize, error) {
	code = NormalizeSerial(code)
	if !ValidSerial(code) {
		return nil, ErrNotFound
	}

	var serial models.SerialNumber
	if errFind := s.db.WithContext(ctx).
		Where("serial_number = ?", code).
		First(&serial).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("campaign: find serial: %w", errFind)
	}
	if serial.PrizeID == nil {
		return nil, nil
	}

	var prize models.Prize
	if errFind := s.db.WithContext(ctx).First(&prize, "id = ?", *serial.PrizeID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("campaign: find prize: %w", errFind)
	}
	return &prize, nil
}
