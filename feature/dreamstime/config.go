package dreamstime

import "stock-submitter/core/page"

// Config holds the Dreamstime session and site settings.
type Config struct {
	// Page holds the site client settings (base URL, session cookie).
	Page page.Config `mapstructure:"page"`
	// SecurityCheck is the per-session token the site requires on every
	// ajax call. Supplied by the operator, never derived.
	SecurityCheck string `mapstructure:"security_check" default:""`
	// PageDelaySeconds is the pause between listing page fetches.
	PageDelaySeconds int `mapstructure:"page_delay_seconds" default:"2"`
}
