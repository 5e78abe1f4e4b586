package dreamstime

import (
	"strconv"
	"time"

	"stock-submitter/core/asset"
	"stock-submitter/core/submit"
)

// releaseFields validates a release document and builds the upload form
// fields. Model releases require the full identity set plus an age bucket;
// property releases require only the property name.
func releaseFields(release *asset.Asset) (map[string]string, error) {
	info := release.Metadata.Release
	if info == nil {
		return nil, &submit.ValidationError{Field: "release", Message: "asset is not a release document"}
	}

	switch info.Kind {
	case asset.ReleaseModel:
		if info.FirstName == "" {
			return nil, &submit.ValidationError{Field: "first_name", Message: "model first name is required"}
		}
		if info.LastName == "" {
			return nil, &submit.ValidationError{Field: "last_name", Message: "model last name is required"}
		}
		if info.Gender == "" {
			return nil, &submit.ValidationError{Field: "gender", Message: "model gender is required"}
		}
		if info.Ethnicity == "" {
			return nil, &submit.ValidationError{Field: "ethnicity", Message: "model ethnicity is required"}
		}
		if info.CountryCode == 0 {
			return nil, &submit.ValidationError{Field: "country", Message: "model country is required"}
		}
		if info.Birthdate == nil {
			return nil, &submit.ValidationError{Field: "birthdate", Message: "model birthdate is required"}
		}

		shotAt := time.Now()
		if release.Metadata.DateTaken != nil {
			shotAt = *release.Metadata.DateTaken
		}

		return map[string]string{
			"type":      "model",
			"firstname": info.FirstName,
			"lastname":  info.LastName,
			"gender":    info.Gender,
			"ethnicity": info.Ethnicity,
			"age":       strconv.Itoa(ageBucket(*info.Birthdate, shotAt)),
			"country":   strconv.Itoa(info.CountryCode),
		}, nil

	case asset.ReleaseProperty:
		if info.PropertyName == "" {
			return nil, &submit.ValidationError{Field: "property_name", Message: "property name is required"}
		}
		return map[string]string{
			"type":         "property",
			"propertyname": info.PropertyName,
		}, nil

	default:
		return nil, &submit.ValidationError{Field: "kind", Message: "unknown release kind: " + string(info.Kind)}
	}
}

// ageBucketBounds are the upper age bounds of buckets 1..8; anything past
// the last bound falls into bucket 9. An age is within a bucket while the
// bound's birthday anniversary has not passed yet, anniversary day included.
var ageBucketBounds = []int{1, 4, 10, 15, 20, 30, 45, 65}

// ageBucket returns the site's age bucket (1..9) for a model born at birth,
// evaluated at the shoot date.
func ageBucket(birth, at time.Time) int {
	for i, bound := range ageBucketBounds {
		if !birth.AddDate(bound, 0, 0).Before(at) {
			return i + 1
		}
	}
	return 9
}

// licenseCodes maps the three sale toggles (web, print, stock royalty) to
// the site's license-mode code.
var licenseCodes = map[asset.LicenseToggles]int{
	{Web: false, Print: false, StockRoyalty: false}: 16,
	{Web: true, Print: false, StockRoyalty: false}:  17,
	{Web: false, Print: true, StockRoyalty: false}:  18,
	{Web: true, Print: true, StockRoyalty: false}:   19,
	{Web: false, Print: false, StockRoyalty: true}:  20,
	{Web: true, Print: false, StockRoyalty: true}:   21,
	{Web: false, Print: true, StockRoyalty: true}:   22,
	{Web: true, Print: true, StockRoyalty: true}:    23,
}

// licenseCode returns the license-mode code for a toggle combination.
func licenseCode(toggles asset.LicenseToggles) int {
	return licenseCodes[toggles]
}
