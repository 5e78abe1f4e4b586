package asset

import (
	"strings"
	"time"
)

// Type identifies the kind of media an asset holds.
type Type string

const (
	TypePhoto        Type = "photo"
	TypeIllustration Type = "illustration"
	TypeVideo        Type = "video"
	TypeVector       Type = "vector"
)

// ReleaseKind distinguishes the two legal release document flavors.
type ReleaseKind string

const (
	ReleaseModel    ReleaseKind = "model"
	ReleaseProperty ReleaseKind = "property"
)

// MarkerSubmit is the marker name recording a successful submission of an
// asset (or release) to a marketplace. Its data carries the remote id under
// MarkerDataRemoteID.
const (
	MarkerSubmit       = "submit"
	MarkerDataRemoteID = "mid"
)

// Link references another asset by id, typically a release document
// embedded in a media asset's metadata.
type Link struct {
	// AssetID is the referenced asset's identifier.
	AssetID string `json:"asset_id"`
	// Title is the display title used in log messages.
	Title string `json:"title"`
}

// File describes one file belonging to an asset.
type File struct {
	// Name is the filename, extension included.
	Name string `json:"name"`
	// Role designates the file's purpose; exactly one file carries RoleMain.
	Role string `json:"role"`
}

// RoleMain marks the file whose basename is used for remote matching and
// whose blob is uploaded for releases.
const RoleMain = "main"

// Marker is a durable annotation recording a prior cross-run outcome.
// The marker ledger is the only persistent record of release resolutions.
type Marker struct {
	// Name identifies the marker kind (e.g. "submit").
	Name string `json:"name"`
	// Subject scopes the marker, typically to a marketplace name.
	Subject string `json:"subject"`
	// Data carries opaque marker payload (e.g. the resolved remote id).
	Data map[string]string `json:"data"`
}

// LicenseToggles are the three per-license sale options whose combination
// maps to a marketplace license-mode code.
type LicenseToggles struct {
	// Web enables the web usage extended license.
	Web bool `json:"web"`
	// Print enables the print usage extended license.
	Print bool `json:"print"`
	// StockRoyalty enables the sell-the-rights extended license.
	StockRoyalty bool `json:"stock_royalty"`
}

// ReleaseInfo carries the fields required to upload a release document.
type ReleaseInfo struct {
	// Kind is model or property.
	Kind ReleaseKind `json:"kind"`
	// FirstName of the model (model releases).
	FirstName string `json:"first_name,omitempty"`
	// LastName of the model (model releases).
	LastName string `json:"last_name,omitempty"`
	// Gender of the model (model releases).
	Gender string `json:"gender,omitempty"`
	// Ethnicity bucket of the model (model releases).
	Ethnicity string `json:"ethnicity,omitempty"`
	// Birthdate of the model; combined with the shoot date it determines
	// the marketplace age bucket (model releases).
	Birthdate *time.Time `json:"birthdate,omitempty"`
	// PropertyName names the depicted property (property releases).
	PropertyName string `json:"property_name,omitempty"`
	// CountryCode is the marketplace country code; zero means unset.
	CountryCode int `json:"country_code,omitempty"`
}

// Metadata is the per-asset submission payload. All fields are optional;
// absence is expressed by the zero value and checked explicitly.
type Metadata struct {
	// Title of the asset, truncated by adapters to the site limit.
	Title string `json:"title,omitempty"`
	// Description of the asset.
	Description string `json:"description,omitempty"`
	// Keywords in priority order; adapters cap the count.
	Keywords []string `json:"keywords,omitempty"`
	// DateTaken is the shoot date.
	DateTaken *time.Time `json:"date_taken,omitempty"`
	// Categories holds up to three marketplace category codes.
	Categories []int `json:"categories,omitempty"`
	// Country is the dictionary key of the shoot location.
	Country string `json:"country,omitempty"`
	// Editorial flags editorial-use-only content.
	Editorial bool `json:"editorial,omitempty"`
	// Licenses are the per-license sale toggles.
	Licenses LicenseToggles `json:"licenses"`
	// Price is the base price; zero means site default.
	Price float64 `json:"price,omitempty"`
	// Releases links the release documents this asset requires.
	Releases []Link `json:"releases,omitempty"`
	// AIGenerated flags AI-generated content.
	AIGenerated bool `json:"ai_generated,omitempty"`
	// AsIllustration submits a photo as an illustration.
	AsIllustration bool `json:"as_illustration,omitempty"`
	// Render3D flags 3D-rendered content.
	Render3D bool `json:"render_3d,omitempty"`
	// Looped flags seamlessly looping video.
	Looped bool `json:"looped,omitempty"`
	// Release is present when this asset is itself a release document.
	Release *ReleaseInfo `json:"release,omitempty"`
}

// Asset is a locally tracked media item pending submission.
type Asset struct {
	// ID is the stable local identifier.
	ID string
	// UploadedBasename is the basename used for remote matching.
	UploadedBasename string
	// Type is the media kind.
	Type Type
	// Metadata is the submission payload.
	Metadata Metadata
	// Files are the asset's file descriptors.
	Files []File
	// Markers is the durable cross-run marker ledger.
	Markers []Marker
	// Processed indicates a terminal outcome was already recorded.
	Processed bool
}

// MainFile returns the file designated as main, or nil if absent.
func (a *Asset) MainFile() *File {
	for i := range a.Files {
		if a.Files[i].Role == RoleMain {
			return &a.Files[i]
		}
	}
	return nil
}

// MainBasename returns the main file's name without extension, trimmed.
// Empty when there is no main file.
func (a *Asset) MainBasename() string {
	main := a.MainFile()
	if main == nil {
		return ""
	}
	name := strings.TrimSpace(main.Name)
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// FindMarker returns the first marker with the given name and subject.
func (a *Asset) FindMarker(name, subject string) *Marker {
	for i := range a.Markers {
		if a.Markers[i].Name == name && a.Markers[i].Subject == subject {
			return &a.Markers[i]
		}
	}
	return nil
}

// Keywords returns at most max keywords; max <= 0 returns all.
func (a *Asset) Keywords(max int) []string {
	if max <= 0 || max >= len(a.Metadata.Keywords) {
		return a.Metadata.Keywords
	}
	return a.Metadata.Keywords[:max]
}

// IsIllustration reports whether the asset should be submitted as an
// illustration: either it is one, or it is a photo flagged as illustration,
// AI-generated or 3D-rendered.
func (a *Asset) IsIllustration() bool {
	if a.Type == TypeIllustration {
		return true
	}
	return a.Type == TypePhoto &&
		(a.Metadata.AsIllustration || a.Metadata.AIGenerated || a.Metadata.Render3D)
}
