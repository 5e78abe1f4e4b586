package page

// Config holds configuration for a marketplace page client.
type Config struct {
	// BaseURL is the root of the marketplace site (e.g. "https://www.pond5.com").
	BaseURL string `mapstructure:"base_url" default:""`
	// Cookie is the raw session cookie header value. The session is supplied
	// by the operator; the client never performs a login.
	Cookie string `mapstructure:"cookie" default:""`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`

	// ChallengeMarkers are substrings whose presence in a response body
	// signals a bot challenge. Site-specific; set by the adapter.
	ChallengeMarkers []string `mapstructure:"-"`
}
