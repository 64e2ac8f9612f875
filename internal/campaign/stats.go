package campaign

import (
	"context"
	"fmt"
	"sort"

	"github.com/router-for-me/PrizeCheck/internal/models"
)

const topPrizeLimit = 5

// PrizeCount is a prize name and how many serial numbers carry it.
type PrizeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes the serial-number table for the dashboard.
type Stats struct {
	TotalSerialNumbers int          `json:"total_serial_numbers"`
	UsedSerialNumbers  int          `json:"used_serial_numbers"`
	TotalCustomers     int          `json:"total_customers"`
	PrizesGiven        int          `json:"prizes_given"`
	SmallPrizes        int          `json:"small_prizes"`
	MediumPrizes       int          `json:"medium_prizes"`
	BigPrizes          int          `json:"big_prizes"`
	TopPrizes          []PrizeCount `json:"top_prizes"`
}

// Stats scans every serial number once and aggregates the dashboard counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var rows []models.SerialNumber
	if errFind := s.db.WithContext(ctx).
		Preload("Prize").
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return Stats{}, fmt.Errorf("campaign: load serial numbers: %w", errFind)
	}
	return ComputeStats(rows), nil
}

// ComputeStats aggregates rows in scan order. Customers are counted by distinct name.
// Top prizes rank by count with ties kept in first-seen order.
func ComputeStats(rows []models.SerialNumber) Stats {
	out := Stats{TotalSerialNumbers: len(rows), TopPrizes: []PrizeCount{}}
	customers := make(map[string]struct{})
	counts := make([]PrizeCount, 0)
	index := make(map[string]int)

	for i := range rows {
		row := &rows[i]
		if row.CustomerName != "" {
			out.UsedSerialNumbers++
			customers[row.CustomerName] = struct{}{}
		}
		if row.PrizeID != nil && *row.PrizeID != "" {
			out.PrizesGiven++
		}
		if row.Prize == nil {
			continue
		}
		switch row.Prize.Tier {
		case models.PrizeTierSmall:
			out.SmallPrizes++
		case models.PrizeTierMedium:
			out.MediumPrizes++
		case models.PrizeTierBig:
			out.BigPrizes++
		}
		if row.Prize.Name == "" {
			continue
		}
		if pos, ok := index[row.Prize.Name]; ok {
			counts[pos].Count++
			continue
		}
		index[row.Prize.Name] = len(counts)
		counts = append(counts, PrizeCount{Name: row.Prize.Name, Count: 1})
	}
	out.TotalCustomers = len(customers)

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > topPrizeLimit {
		counts = counts[:topPrizeLimit]
	}
	out.TopPrizes = append(out.TopPrizes, counts...)
	return out
}
