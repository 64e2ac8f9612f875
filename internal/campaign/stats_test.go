package campaign

import (
	"context"
	"fmt"
	"testing"

	"github.com/router-for-me/PrizeCheck/internal/models"
)

func statsRow(name string, prize *models.Prize) models.SerialNumber {
	row := models.SerialNumber{CustomerName: name}
	if prize != nil {
		row.PrizeID = &prize.ID
		row.Prize = prize
	}
	return row
}

func TestComputeStatsCountsTiersAndCustomers(t *testing.T) {
	mug := &models.Prize{ID: "mug", Name: "Mug", Tier: models.PrizeTierSmall}
	pen := &models.Prize{ID: "pen", Name: "Pen", Tier: models.PrizeTierSmall}
	speaker := &models.Prize{ID: "spk", Name: "Speaker", Tier: models.PrizeTierMedium}
	car := &models.Prize{ID: "car", Name: "Car", Tier: models.PrizeTierBig}

	rows := []models.SerialNumber{
		statsRow("", pen),
		statsRow("Ana", mug),
		statsRow("Ana", mug),
		statsRow("Ben", speaker),
		statsRow("", nil),
		statsRow("Cy", car),
		statsRow("", pen),
		statsRow("", mug),
	}
	stats := ComputeStats(rows)

	if stats.TotalSerialNumbers != 8 || stats.UsedSerialNumbers != 4 || stats.TotalCustomers != 3 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.PrizesGiven != 7 {
		t.Fatalf("prizes given = %d, want 7", stats.PrizesGiven)
	}
	if stats.SmallPrizes != 5 || stats.MediumPrizes != 1 || stats.BigPrizes != 1 {
		t.Fatalf("unexpected tier counts: %+v", stats)
	}

	withTier := 0
	for _, row := range rows {
		if row.Prize != nil && row.Prize.Tier != "" {
			withTier++
		}
	}
	if stats.SmallPrizes+stats.MediumPrizes+stats.BigPrizes != withTier {
		t.Fatalf("tier counts do not add up to %d", withTier)
	}

	want := []PrizeCount{{"Mug", 3}, {"Pen", 2}, {"Speaker", 1}, {"Car", 1}}
	if len(stats.TopPrizes) != len(want) {
		t.Fatalf("top prizes = %v, want %v", stats.TopPrizes, want)
	}
	for i := range want {
		if stats.TopPrizes[i] != want[i] {
			t.Fatalf("top prizes = %v, want %v", stats.TopPrizes, want)
		}
	}
}

func TestComputeStatsKeepsDiscoveryOrderForTiesAndCapsTopFive(t *testing.T) {
	var rows []models.SerialNumber
	for i := 0; i < 7; i++ {
		prize := &models.Prize{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Prize %d", i), Tier: models.PrizeTierSmall}
		rows = append(rows, statsRow("", prize))
	}
	stats := ComputeStats(rows)

	if len(stats.TopPrizes) != 5 {
		t.Fatalf("expected top 5, got %d", len(stats.TopPrizes))
	}
	for i, entry := range stats.TopPrizes {
		if entry.Name != fmt.Sprintf("Prize %d", i) {
			t.Fatalf("position %d = %q, want discovery order", i, entry.Name)
		}
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalSerialNumbers != 0 || stats.TopPrizes == nil || len(stats.TopPrizes) != 0 {
		t.Fatalf("unexpected stats for empty input: %+v", stats)
	}
}

func TestStatsReadsPrizeThroughJoin(t *testing.T) {
	svc, conn := newTestService(t)
	seedPrize(t, conn, "p1", "Cap", models.PrizeTierMedium, 2, 0)
	seedSerial(t, conn, models.SerialNumber{SerialNumber: "STATS00001", PrizeID: strPtr("p1"), Claimed: true, CustomerName: "Dee"})
	seedSerial(t, conn, models.SerialNumber{SerialNumber: "STATS00002", PrizeID: strPtr("p1")})
	seedSerial(t, conn, models.SerialNumber{SerialNumber: "STATS00003"})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalSerialNumbers != 3 || stats.UsedSerialNumbers != 1 || stats.MediumPrizes != 2 || stats.PrizesGiven != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(stats.TopPrizes) != 1 || stats.TopPrizes[0] != (PrizeCount{Name: "Cap", Count: 2}) {
		t.Fatalf("unexpected top prizes: %v", stats.TopPrizes)
	}
}
