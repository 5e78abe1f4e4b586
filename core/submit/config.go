package submit

import "time"

// Config holds configuration for the submission engine.
type Config struct {
	// PollAttempts bounds how often a just-uploaded release is polled for
	// before giving up.
	PollAttempts int `mapstructure:"poll_attempts" default:"3"`
	// PollDelayMs is the pause between release visibility polls, in
	// milliseconds.
	PollDelayMs int `mapstructure:"poll_delay_ms" default:"100"`
}

// Options controls one engine run.
type Options struct {
	// Submit submits saved items for review instead of only saving them.
	Submit bool
	// PollAttempts bounds the release visibility polling loop.
	PollAttempts int
	// PollDelay is the pause between release visibility polls.
	PollDelay time.Duration
}

// OptionsFromConfig builds run options from configuration.
func OptionsFromConfig(cfg Config, submit bool) Options {
	attempts := cfg.PollAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := cfg.PollDelayMs
	if delay <= 0 {
		delay = 100
	}
	return Options{
		Submit:       submit,
		PollAttempts: attempts,
		PollDelay:    time.Duration(delay) * time.Millisecond,
	}
}
