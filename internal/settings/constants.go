package settings

// Runtime setting keys and their defaults.
const (
	// SiteNameKey is the setting key for the public site name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback public site name.
	DefaultSiteName = "PrizeCheck"
	// RedemptionEnabledKey toggles customer redemption.
	RedemptionEnabledKey = "REDEMPTION_ENABLED"
	// DefaultRedemptionEnabled keeps redemption open until an admin closes it.
	DefaultRedemptionEnabled = true
)

// knownKeys lists the settings the admin API may write.
var knownKeys = map[string]func(raw []byte) bool{
	SiteNameKey:          isJSONString,
	RedemptionEnabledKey: isJSONBool,
}
