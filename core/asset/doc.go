// Package asset defines the typed model for locally tracked media assets.
//
// An asset is created and owned by the host-side library; the submission
// pipeline never deletes one and only mutates it through outcome reporting
// and markers. The metadata here replaces the duck-typed property bag of
// earlier tooling with explicit optional fields and presence checks.
//
// A release document (model or property release) is itself modeled as an
// asset whose metadata carries a ReleaseInfo section.
package asset
