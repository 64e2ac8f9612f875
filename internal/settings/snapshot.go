package settings

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// snapshot is an immutable copy of the settings table.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

var current atomic.Pointer[snapshot]

func init() {
	current.Store(&snapshot{values: map[string]json.RawMessage{}})
}

// Store replaces the in-memory snapshot.
func Store(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" || v == nil {
			continue
		}
		next[key] = append(json.RawMessage(nil), v...)
	}
	current.Store(&snapshot{updatedAt: updatedAt.UTC(), values: next})
}

// UpdatedAt returns the newest row timestamp seen by the last refresh.
func UpdatedAt() time.Time {
	return current.Load().updatedAt
}

// Value returns a copy of the raw JSON value for key.
func Value(key string) (json.RawMessage, bool) {
	raw, ok := current.Load().values[strings.TrimSpace(key)]
	if !ok {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// All returns a copy of every value.
func All() map[string]json.RawMessage {
	snap := current.Load()
	out := make(map[string]json.RawMessage, len(snap.values))
	for k, v := range snap.values {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// SiteName returns the configured public site name.
func SiteName() string {
	raw, ok := Value(SiteNameKey)
	if !ok {
		return DefaultSiteName
	}
	var name string
	if errUnmarshal := json.Unmarshal(raw, &name); errUnmarshal != nil || strings.TrimSpace(name) == "" {
		return DefaultSiteName
	}
	return strings.TrimSpace(name)
}

// RedemptionEnabled reports whether customers may redeem codes.
func RedemptionEnabled() bool {
	raw, ok := Value(RedemptionEnabledKey)
	if !ok {
		return DefaultRedemptionEnabled
	}
	var enabled *bool
	if errUnmarshal := json.Unmarshal(raw, &enabled); errUnmarshal != nil || enabled == nil {
		return DefaultRedemptionEnabled
	}
	return *enabled
}

// JSON null decodes into any type without error; both validators require a concrete value.
func isJSONString(raw []byte) bool {
	var v *string
	return json.Unmarshal(raw, &v) == nil && v != nil
}

func isJSONBool(raw []byte) bool {
	var v *bool
	return json.Unmarshal(raw, &v) == nil && v != nil
}
