package dreamstime

import (
	"testing"
	"time"

	"stock-submitter/core/asset"
	"stock-submitter/core/submit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeBucket(t *testing.T) {
	shot := date(2024, time.June, 15)

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"newborn", date(2024, time.March, 1), 1},
		{"exactly one year", date(2023, time.June, 15), 1},
		{"one year and a day", date(2023, time.June, 14), 2},
		{"toddler", date(2021, time.January, 10), 2},
		{"ten years", date(2014, time.June, 15), 3},
		{"teen", date(2010, time.October, 2), 4},
		{"thirty years", date(1994, time.June, 15), 6},
		{"forty five years", date(1979, time.June, 15), 7},
		{"forty five years and a day", date(1979, time.June, 14), 8},
		{"sixty five years", date(1959, time.June, 15), 8},
		{"senior", date(1950, time.June, 15), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ageBucket(tt.birth, shot))
		})
	}
}

func TestLicenseCode(t *testing.T) {
	tests := []struct {
		toggles asset.LicenseToggles
		want    int
	}{
		{asset.LicenseToggles{}, 16},
		{asset.LicenseToggles{Web: true}, 17},
		{asset.LicenseToggles{Print: true}, 18},
		{asset.LicenseToggles{Web: true, Print: true}, 19},
		{asset.LicenseToggles{StockRoyalty: true}, 20},
		{asset.LicenseToggles{Web: true, Print: true, StockRoyalty: true}, 23},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, licenseCode(tt.toggles))
	}
}

func modelRelease() *asset.Asset {
	birth := date(1990, time.April, 2)
	taken := date(2024, time.June, 15)
	return &asset.Asset{
		ID: "r1",
		Metadata: asset.Metadata{
			DateTaken: &taken,
			Release: &asset.ReleaseInfo{
				Kind:        asset.ReleaseModel,
				FirstName:   "Anna",
				LastName:    "Schmidt",
				Gender:      "female",
				Ethnicity:   "caucasian",
				Birthdate:   &birth,
				CountryCode: 81,
			},
		},
		Files: []asset.File{{Name: "model_anna.jpg", Role: asset.RoleMain}},
	}
}

func TestReleaseFields_Model(t *testing.T) {
	fields, err := releaseFields(modelRelease())
	require.NoError(t, err)

	assert.Equal(t, "model", fields["type"])
	assert.Equal(t, "Anna", fields["firstname"])
	assert.Equal(t, "Schmidt", fields["lastname"])
	assert.Equal(t, "female", fields["gender"])
	assert.Equal(t, "caucasian", fields["ethnicity"])
	assert.Equal(t, "81", fields["country"])
	// 34 years old at the shoot date.
	assert.Equal(t, "7", fields["age"])
}

func TestReleaseFields_ModelValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*asset.ReleaseInfo)
		field  string
	}{
		{"missing first name", func(r *asset.ReleaseInfo) { r.FirstName = "" }, "first_name"},
		{"missing last name", func(r *asset.ReleaseInfo) { r.LastName = "" }, "last_name"},
		{"missing gender", func(r *asset.ReleaseInfo) { r.Gender = "" }, "gender"},
		{"missing ethnicity", func(r *asset.ReleaseInfo) { r.Ethnicity = "" }, "ethnicity"},
		{"missing country", func(r *asset.ReleaseInfo) { r.CountryCode = 0 }, "country"},
		{"missing birthdate", func(r *asset.ReleaseInfo) { r.Birthdate = nil }, "birthdate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release := modelRelease()
			tt.mutate(release.Metadata.Release)

			_, err := releaseFields(release)
			var verr *submit.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestReleaseFields_Property(t *testing.T) {
	release := &asset.Asset{
		Metadata: asset.Metadata{
			Release: &asset.ReleaseInfo{
				Kind:         asset.ReleaseProperty,
				PropertyName: "Old Mill",
			},
		},
	}

	fields, err := releaseFields(release)
	require.NoError(t, err)
	assert.Equal(t, "property", fields["type"])
	assert.Equal(t, "Old Mill", fields["propertyname"])

	release.Metadata.Release.PropertyName = ""
	_, err = releaseFields(release)
	var verr *submit.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "property_name", verr.Field)
}

func TestReleaseFields_NotARelease(t *testing.T) {
	_, err := releaseFields(&asset.Asset{})
	var verr *submit.ValidationError
	assert.ErrorAs(t, err, &verr)
}
