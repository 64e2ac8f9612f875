package campaign

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/router-for-me/PrizeCheck/internal/models"
)

// exportHeader lists the CSV columns in output order.
var exportHeader = []string{
	"id",
	"serialNumber",
	"customerName",
	"customerPhone",
	"prizeId",
	"prizeName",
	"prizeTier",
	"claimed",
	"generatedDate",
	"redeemDate",
}

// ExportFilename returns the attachment name for an export taken at t.
func ExportFilename(t time.Time) string {
	return "serial-numbers_" + t.UTC().Format("2006-01-02") + ".csv"
}

// ExportSerials loads the selected serial numbers (all when ids is empty) in generation order.
func (s *Service) ExportSerials(ctx context.Context, ids []string) ([]models.SerialNumber, error) {
	q := s.db.WithContext(ctx).Preload("Prize")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var rows []models.SerialNumber
	if errFind := q.Order("generated_date ASC").Order("id ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("campaign: export serial numbers: %w", errFind)
	}
	return rows, nil
}

// WriteCSV writes rows as RFC 4180 CSV with a header line.
func WriteCSV(w io.Writer, rows []models.SerialNumber) error {
	cw := csv.NewWriter(w)
	if errWrite := cw.Write(exportHeader); errWrite != nil {
		return errWrite
	}
	for i := range rows {
		if errWrite := cw.Write(csvRecord(&rows[i])); errWrite != nil {
			return errWrite
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(row *models.SerialNumber) []string {
	var prizeID, prizeName, prizeTier, redeemDate string
	if row.PrizeID != nil {
		prizeID = *row.PrizeID
	}
	if row.Prize != nil {
		prizeName = row.Prize.Name
		prizeTier = string(row.Prize.Tier)
	}
	if row.RedeemDate != nil {
		redeemDate = row.RedeemDate.UTC().Format(time.RFC3339)
	}
	return []string{
		row.ID,
		row.SerialNumber,
		row.CustomerName,
		row.CustomerPhone,
		prizeID,
		prizeName,
		prizeTier,
		strconv.FormatBool(row.Claimed),
		row.GeneratedDate.UTC().Format(time.RFC3339),
		redeemDate,
	}
}
