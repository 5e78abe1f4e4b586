package pond5

// countryCodes maps the library's country keys to the values of the edit
// form's location_country select. Only shoot locations seen in the library
// are listed; unknown keys leave the form value untouched.
var countryCodes = map[string]string{
	"at": "Austria",
	"au": "Australia",
	"ca": "Canada",
	"ch": "Switzerland",
	"cz": "Czech Republic",
	"de": "Germany",
	"es": "Spain",
	"fr": "France",
	"gb": "United Kingdom",
	"gr": "Greece",
	"it": "Italy",
	"jp": "Japan",
	"nl": "Netherlands",
	"pl": "Poland",
	"pt": "Portugal",
	"tr": "Turkey",
	"us": "United States",
}
