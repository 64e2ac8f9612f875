package campaign

import (
	"context"
	"errors"
	"testing"

	"github.com/router-for-me/PrizeCheck/internal/models"
	"gorm.io/gorm"
)

func TestGenerateProducesRequestedCount(t *testing.T) {
	svc, conn := newTestService(t)

	res, err := svc.Generate(context.Background(), GenerateRequest{Count: 25, CreatedBy: "admin"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Serials) != 25 {
		t.Fatalf("expected 25 serial numbers, got %d", len(res.Serials))
	}

	seen := make(map[string]bool)
	for _, serial := range res.Serials {
		if !ValidSerial(serial.SerialNumber) {
			t.Fatalf("serial %q is not 10 characters of [A-Z0-9]", serial.SerialNumber)
		}
		if seen[serial.SerialNumber] {
			t.Fatalf("duplicate serial %q", serial.SerialNumber)
		}
		seen[serial.SerialNumber] = true
		if serial.BatchID == nil || *serial.BatchID != res.Batch.ID {
			t.Fatalf("serial %q not linked to batch %s", serial.SerialNumber, res.Batch.ID)
		}
		if serial.Redeemed() {
			t.Fatalf("fresh serial %q should not be redeemed", serial.SerialNumber)
		}
	}

	var stored int64
	if errCount := conn.Model(&models.SerialNumber{}).Count(&stored).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if stored != 25 {
		t.Fatalf("expected 25 stored rows, got %d", stored)
	}

	var batch models.SerialBatch
	if errFind := conn.First(&batch, "id = ?", res.Batch.ID).Error; errFind != nil {
		t.Fatalf("load batch: %v", errFind)
	}
	if batch.Count != 25 || batch.PrizedCount != 0 || batch.CreatedBy != "admin" {
		t.Fatalf("unexpected batch row: %+v", batch)
	}
}

func TestGenerateRejectsOutOfRangeCount(t *testing.T) {
	svc, _ := newTestService(t)

	for _, count := range []int{0, -1, MaxGenerateCount + 1} {
		_, err := svc.Generate(context.Background(), GenerateRequest{Count: count})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("count %d: expected ErrInvalidInput, got %v", count, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Fields["count"] == "" {
			t.Fatalf("count %d: expected count field error, got %v", count, err)
		}
	}
}

func TestGenerateBindsSelectedPrizeAndDecrementsStock(t *testing.T) {
	svc, conn := newTestService(t)
	seedPrize(t, conn, "p1", "Coffee mug", models.PrizeTierSmall, 5, 5)

	res, err := svc.Generate(context.Background(), GenerateRequest{Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Serials) != 1 {
		t.Fatalf("expected 1 serial, got %d", len(res.Serials))
	}
	serial := res.Serials[0]
	if serial.PrizeID == nil || *serial.PrizeID != "p1" {
		t.Fatalf("expected serial bound to p1, got %v", serial.PrizeID)
	}
	if serial.Prize == nil || serial.Prize.Name != "Coffee mug" || serial.Prize.Tier != models.PrizeTierSmall {
		t.Fatalf("expected prize details on the result, got %+v", serial.Prize)
	}
	if got := loadPrize(t, conn, "p1").RemainingQuantity; got != 4 {
		t.Fatalf("expected p1 remaining 4, got %d", got)
	}
	if res.Batch.PrizedCount != 1 {
		t.Fatalf("expected prized count 1, got %d", res.Batch.PrizedCount)
	}
}

func TestGenerateNeverAssignsBigTierOrOverdrawsStock(t *testing.T) {
	svc, conn := newTestService(t)
	seedPrize(t, conn, "big", "Car", models.PrizeTierBig, 10, 10)
	seedPrize(t, conn, "small", "Sticker", models.PrizeTierSmall, 3, 3)
	seedPrize(t, conn, "medium", "Headphones", models.PrizeTierMedium, 2, 2)

	ctx := context.Background()
	bound := map[string]int{}
	total := 0
	for _, count := range []int{4, 4, 7} {
		res, err := svc.Generate(ctx, GenerateRequest{Count: count})
		if err != nil {
			t.Fatalf("generate %d: %v", count, err)
		}
		total += len(res.Serials)
		for _, serial := range res.Serials {
			if serial.PrizeID == nil {
				continue
			}
			bound[*serial.PrizeID]++
		}
	}

	if total != 15 {
		t.Fatalf("expected 15 serial numbers, got %d", total)
	}
	if bound["big"] != 0 {
		t.Fatalf("big prize assigned %d times", bound["big"])
	}
	if bound["small"] != 3 || bound["medium"] != 2 {
		t.Fatalf("expected stock to be fully used exactly once, got %v", bound)
	}
	for _, id := range []string{"small", "medium"} {
		if got := loadPrize(t, conn, id).RemainingQuantity; got != 0 {
			t.Fatalf("prize %s remaining = %d, want 0", id, got)
		}
	}
	if got := loadPrize(t, conn, "big").RemainingQuantity; got != 10 {
		t.Fatalf("big prize stock changed to %d", got)
	}
}

func TestGenerateRedrawsCollidingCodes(t *testing.T) {
	// Index 0 is 'A', 1 is 'B', 2 is 'C', 3 is 'D'.
	draws := append(repeatDraw(0, SerialLength), repeatDraw(1, SerialLength)...)
	draws = append(draws, repeatDraw(2, SerialLength)...)
	draws = append(draws, repeatDraw(2, SerialLength)...)
	draws = append(draws, repeatDraw(3, SerialLength)...)
	svc, conn := newTestService(t, WithPicker(&scriptedPicker{draws: draws}))
	seedSerial(t, conn, models.SerialNumber{SerialNumber: "AAAAAAAAAA"})

	ctx := context.Background()
	first, err := svc.Generate(ctx, GenerateRequest{Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := first.Serials[0].SerialNumber; got != "BBBBBBBBBB" {
		t.Fatalf("expected stored code to be re-drawn, got %q", got)
	}

	second, err := svc.Generate(ctx, GenerateRequest{Count: 2})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if second.Serials[0].SerialNumber != "CCCCCCCCCC" || second.Serials[1].SerialNumber != "DDDDDDDDDD" {
		t.Fatalf("expected in-batch duplicate to be re-drawn, got %q and %q",
			second.Serials[0].SerialNumber, second.Serials[1].SerialNumber)
	}
}

func TestGenerateGivesUpWhenCodesKeepColliding(t *testing.T) {
	svc, conn := newTestService(t, WithPicker(&scriptedPicker{draws: []int{0}}))
	seedSerial(t, conn, models.SerialNumber{SerialNumber: "AAAAAAAAAA"})

	_, err := svc.Generate(context.Background(), GenerateRequest{Count: 1, CreatedBy: "admin"})
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("expected ErrCodeSpaceExhausted, got %v", err)
	}

	var batches int64
	if errCount := conn.Model(&models.SerialBatch{}).Count(&batches).Error; errCount != nil {
		t.Fatalf("count batches: %v", errCount)
	}
	if batches != 0 {
		t.Fatalf("expected the failed batch to roll back, found %d batch rows", batches)
	}
}

// interceptStockUpdates runs steal inside the generation transaction right before each
// UPDATE on prizes, simulating a concurrent generator that wins the race for stock.
func interceptStockUpdates(t *testing.T, conn *gorm.DB, steal func(tx *gorm.DB, call int) error) *int {
	t.Helper()
	calls := 0
	errRegister := conn.Callback().Update().Before("gorm:update").Register("campaign_test:steal_stock", func(db *gorm.DB) {
		if db.Statement.Table != "prizes" {
			return
		}
		calls++
		if errSteal := steal(db.Session(&gorm.Session{NewDB: true}), calls); errSteal != nil {
			_ = db.AddError(errSteal)
		}
	})
	if errRegister != nil {
		t.Fatalf("register callback: %v", errRegister)
	}
	return &calls
}

func TestGenerateRetriesWithAnotherPrizeWhenStockIsTaken(t *testing.T) {
	svc, conn := newTestService(t, WithPicker(&scriptedPicker{draws: []int{0}}))
	seedPrize(t, conn, "p1", "Keychain", models.PrizeTierSmall, 1, 1)
	seedPrize(t, conn, "p2", "Tote Bag", models.PrizeTierMedium, 2, 2)

	calls := interceptStockUpdates(t, conn, func(tx *gorm.DB, call int) error {
		if call > 1 {
			return nil
		}
		return tx.Exec("UPDATE prizes SET remaining_quantity = 0 WHERE id = ?", "p1").Error
	})

	res, err := svc.Generate(context.Background(), GenerateRequest{Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if *calls != 2 {
		t.Fatalf("expected a failed and a retried decrement, got %d updates", *calls)
	}
	serial := res.Serials[0]
	if serial.PrizeID == nil || *serial.PrizeID != "p2" {
		t.Fatalf("expected fallback to p2, got %v", serial.PrizeID)
	}
	if got := loadPrize(t, conn, "p1").RemainingQuantity; got != 0 {
		t.Fatalf("p1 remaining = %d, want 0", got)
	}
	if got := loadPrize(t, conn, "p2").RemainingQuantity; got != 1 {
		t.Fatalf("p2 remaining = %d, want 1", got)
	}
}

func TestGenerateLeavesSerialWithoutPrizeWhenStockRunsOutMidDraw(t *testing.T) {
	svc, conn := newTestService(t, WithPicker(&scriptedPicker{draws: []int{0}}))
	seedPrize(t, conn, "p1", "Keychain", models.PrizeTierSmall, 1, 1)

	interceptStockUpdates(t, conn, func(tx *gorm.DB, _ int) error {
		return tx.Exec("UPDATE prizes SET remaining_quantity = 0 WHERE id = ?", "p1").Error
	})

	res, err := svc.Generate(context.Background(), GenerateRequest{Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Serials[0].PrizeID != nil || res.Batch.PrizedCount != 0 {
		t.Fatalf("expected serial without prize, got %v (prized %d)", res.Serials[0].PrizeID, res.Batch.PrizedCount)
	}
	if got := loadPrize(t, conn, "p1").RemainingQuantity; got != 0 {
		t.Fatalf("p1 remaining = %d, want 0", got)
	}
}

func TestGenerateGivesUpOnPrizeAfterRepeatedLostDecrements(t *testing.T) {
	svc, conn := newTestService(t, WithPicker(&scriptedPicker{draws: []int{0}}))
	seedPrize(t, conn, "p1", "Keychain", models.PrizeTierSmall, 1, 1)
	seedPrize(t, conn, "p2", "Tote Bag", models.PrizeTierSmall, 1, 1)

	// Stock keeps moving to whichever prize was not just picked.
	calls := interceptStockUpdates(t, conn, func(tx *gorm.DB, call int) error {
		drained, refilled := "p1", "p2"
		if call%2 == 0 {
			drained, refilled = "p2", "p1"
		}
		if errDrain := tx.Exec("UPDATE prizes SET remaining_quantity = 0 WHERE id = ?", drained).Error; errDrain != nil {
			return errDrain
		}
		return tx.Exec("UPDATE prizes SET remaining_quantity = 1 WHERE id = ?", refilled).Error
	})

	res, err := svc.Generate(context.Background(), GenerateRequest{Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if *calls != maxStockAttempts {
		t.Fatalf("expected %d decrement attempts, got %d", maxStockAttempts, *calls)
	}
	if res.Serials[0].PrizeID != nil {
		t.Fatalf("expected serial without prize, got %v", *res.Serials[0].PrizeID)
	}
	total := 0
	for _, id := range []string{"p1", "p2"} {
		remaining := loadPrize(t, conn, id).RemainingQuantity
		if remaining < 0 {
			t.Fatalf("%s remaining went negative: %d", id, remaining)
		}
		total += remaining
	}
	if total != 1 {
		t.Fatalf("expected one unit left across prizes, got %d", total)
	}
}
