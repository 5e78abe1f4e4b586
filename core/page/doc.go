// Package page provides the HTTP client used to drive marketplace web
// surfaces.
//
// Marketplaces in this system do not expose an API; every operation is a
// page or ajax endpoint that returns HTML, CSV or JSON rendered for a
// browser. The client therefore works at the text level: it performs a
// request with the supplied session cookie, returns the raw body, and scans
// it for the configured bot-challenge markers (e.g. a captcha script
// include). A response that carries a challenge marker succeeded at the
// transport level but must be treated as an authentication failure by the
// caller.
//
// Parsed access to a body is provided through goquery so callers can locate
// fields and rows with structural selectors.
//
// Sessions are supplied, never derived: the client performs no login flow.
package page
