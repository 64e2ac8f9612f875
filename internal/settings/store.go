package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/router-for-me/PrizeCheck/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownKey indicates a write to a setting the service does not define.
var ErrUnknownKey = errors.New("settings: unknown key")

// ErrInvalidValue indicates a value of the wrong JSON type for its key.
var ErrInvalidValue = errors.New("settings: invalid value")

// Refresh reloads every setting from the database into the in-memory snapshot.
// Call it at startup so readers see stored values before the first admin write.
func Refresh(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("settings: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.Setting
	if errFind := db.WithContext(ctx).
		Select("key", "value", "updated_at").
		Order("key ASC").
		Find(&rows).Error; errFind != nil {
		return fmt.Errorf("settings: load: %w", errFind)
	}

	values := make(map[string]json.RawMessage, len(rows))
	newest := time.Time{}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		values[key] = json.RawMessage(row.Value)
		if row.UpdatedAt.After(newest) {
			newest = row.UpdatedAt
		}
	}
	Store(newest, values)
	return nil
}

// Save validates and upserts the given values, then refreshes the snapshot.
func Save(ctx context.Context, db *gorm.DB, values map[string]json.RawMessage) error {
	keys := make([]string, 0, len(values))
	for key, raw := range values {
		check, ok := knownKeys[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if !check(raw) {
			return fmt.Errorf("%w: %s", ErrInvalidValue, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	errTx := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			row := models.Setting{Key: key, Value: datatypes.JSON(values[key]), UpdatedAt: now}
			if errUpsert := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; errUpsert != nil {
				return errUpsert
			}
		}
		return nil
	})
	if errTx != nil {
		return fmt.Errorf("settings: save: %w", errTx)
	}
	return Refresh(ctx, db)
}

// Effective returns every known setting with defaults filled in.
func Effective() map[string]any {
	return map[string]any{
		SiteNameKey:          SiteName(),
		RedemptionEnabledKey: RedemptionEnabled(),
	}
}
