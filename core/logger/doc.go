// Package logger configures the application-wide zap logger.
//
// New builds a logger from configuration: console encoding with colored
// levels for humans, json for machines, and the development preset when the
// level is debug. The start command installs it with zap.ReplaceGlobals.
//
// WithRayID attaches the per-request ray id from a Fiber context so HTTP
// log lines can be correlated; WithAsset does the same for pipeline log
// lines about a single asset.
package logger
