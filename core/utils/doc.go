// Package utils provides small helpers shared across packages.
//
// The conversion helpers normalize values scraped from marketplace markup,
// where numbers arrive as attribute strings of varying shape.
package utils
