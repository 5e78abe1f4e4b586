package pond5

import "stock-submitter/core/page"

// Config holds the Pond5 session and site settings.
type Config struct {
	// Page holds the site client settings (base URL, session cookie).
	Page page.Config `mapstructure:"page"`
	// PageDelaySeconds is the pause between listing page fetches.
	PageDelaySeconds int `mapstructure:"page_delay_seconds" default:"5"`
}
