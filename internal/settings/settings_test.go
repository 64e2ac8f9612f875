package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	dbutil "github.com/router-for-me/PrizeCheck/internal/db"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := dbutil.Open(fmt.Sprintf("file:settings_%d?mode=memory&cache=shared", time.Now().UnixNano()))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := dbutil.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	t.Cleanup(func() {
		Store(time.Time{}, nil)
		if sqlDB, errDB := conn.DB(); errDB == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestDefaultsWithoutStoredValues(t *testing.T) {
	Store(time.Time{}, nil)
	if SiteName() != DefaultSiteName {
		t.Fatalf("site name = %q", SiteName())
	}
	if !RedemptionEnabled() {
		t.Fatalf("redemption should default to enabled")
	}
}

func TestSaveAndRefresh(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := Save(ctx, conn, map[string]json.RawMessage{
		SiteNameKey:          json.RawMessage(`"Summer Giveaway"`),
		RedemptionEnabledKey: json.RawMessage(`false`),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if SiteName() != "Summer Giveaway" || RedemptionEnabled() {
		t.Fatalf("snapshot not refreshed: %v", Effective())
	}

	if errSave := Save(ctx, conn, map[string]json.RawMessage{RedemptionEnabledKey: json.RawMessage(`true`)}); errSave != nil {
		t.Fatalf("second save: %v", errSave)
	}
	Store(time.Time{}, nil)
	if errRefresh := Refresh(ctx, conn); errRefresh != nil {
		t.Fatalf("refresh: %v", errRefresh)
	}
	if !RedemptionEnabled() || SiteName() != "Summer Giveaway" {
		t.Fatalf("unexpected values after refresh: %v", Effective())
	}
	if UpdatedAt().IsZero() {
		t.Fatalf("expected updated_at to be tracked")
	}
}

func TestSaveRejectsUnknownKeysAndWrongTypes(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	if err := Save(ctx, conn, map[string]json.RawMessage{"MAX_PRIZES": json.RawMessage(`3`)}); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if err := Save(ctx, conn, map[string]json.RawMessage{RedemptionEnabledKey: json.RawMessage(`"yes"`)}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestSaveRejectsNullValues(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	for _, key := range []string{SiteNameKey, RedemptionEnabledKey} {
		if err := Save(ctx, conn, map[string]json.RawMessage{key: json.RawMessage(`null`)}); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("%s: expected ErrInvalidValue for null, got %v", key, err)
		}
	}
	if !RedemptionEnabled() {
		t.Fatalf("rejected null must leave redemption enabled")
	}

	Store(time.Now(), map[string]json.RawMessage{RedemptionEnabledKey: json.RawMessage(`null`)})
	if !RedemptionEnabled() {
		t.Fatalf("stored null should fall back to the default")
	}
}

func TestValueReturnsCopy(t *testing.T) {
	Store(time.Now(), map[string]json.RawMessage{SiteNameKey: json.RawMessage(`"A"`)})
	t.Cleanup(func() { Store(time.Time{}, nil) })

	raw, ok := Value(SiteNameKey)
	if !ok {
		t.Fatalf("expected value")
	}
	raw[1] = 'B'
	if SiteName() != "A" {
		t.Fatalf("snapshot mutated through returned value")
	}
}
