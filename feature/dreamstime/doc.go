// Package dreamstime implements the marketplace adapter for Dreamstime.
//
// Every ajax call carries the operator-supplied securitycheck token; a
// missing token fails the batch before any remote call is made. A body
// referencing the captcha script means the session hit a bot challenge and
// the whole batch is unauthorized.
//
// Discovery prefers the CSV upload history export, whose status column
// carries "Processed with image ID n" for finished items, and falls back to
// the paginated unfinished-uploads listing. Filenames in the listing are
// truncated by the site, so listing entries match by prefix.
//
// Model releases are validated before upload: name, gender, ethnicity,
// country and an age bucket computed from the model's birthdate at the
// shoot date. Saving metadata runs a small state machine: items without
// categories are first saved as a draft, the site's suggested categories
// are applied, then the final save (optionally submitting) follows.
package dreamstime
