package campaign

import (
	"fmt"
	"testing"
	"time"

	dbutil "github.com/router-for-me/PrizeCheck/internal/db"
	"github.com/router-for-me/PrizeCheck/internal/models"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:campaign_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := dbutil.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := dbutil.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	t.Cleanup(func() {
		if sqlDB, errDB := conn.DB(); errDB == nil {
			_ = sqlDB.Close()
		}
	})

	base := []Option{
		WithPicker(NewSeededPicker(1, 2)),
		WithClock(func() time.Time { return testNow }),
	}
	return NewService(conn, append(base, opts...)...), conn
}

func seedPrize(t *testing.T, conn *gorm.DB, id, name string, tier models.PrizeTier, quantity, remaining int) models.Prize {
	t.Helper()
	prize := models.Prize{
		ID:                id,
		Name:              name,
		Description:       name + " description",
		Tier:              tier,
		Quantity:          quantity,
		RemainingQuantity: remaining,
	}
	if errCreate := conn.Create(&prize).Error; errCreate != nil {
		t.Fatalf("seed prize %s: %v", id, errCreate)
	}
	return prize
}

func seedSerial(t *testing.T, conn *gorm.DB, serial models.SerialNumber) models.SerialNumber {
	t.Helper()
	if serial.GeneratedDate.IsZero() {
		serial.GeneratedDate = testNow
	}
	if errCreate := conn.Create(&serial).Error; errCreate != nil {
		t.Fatalf("seed serial %s: %v", serial.SerialNumber, errCreate)
	}
	return serial
}

func loadPrize(t *testing.T, conn *gorm.DB, id string) models.Prize {
	t.Helper()
	var prize models.Prize
	if errFind := conn.First(&prize, "id = ?", id).Error; errFind != nil {
		t.Fatalf("load prize %s: %v", id, errFind)
	}
	return prize
}

// scriptedPicker replays fixed draws, then keeps returning the last one.
type scriptedPicker struct {
	draws []int
	next  int
}

func (p *scriptedPicker) IntN(n int) int {
	if len(p.draws) == 0 {
		return 0
	}
	idx := p.next
	if idx >= len(p.draws) {
		idx = len(p.draws) - 1
	} else {
		p.next++
	}
	return p.draws[idx] % n
}

func repeatDraw(v, times int) []int {
	out := make([]int, times)
	for i := range out {
		out[i] = v
	}
	return out
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
