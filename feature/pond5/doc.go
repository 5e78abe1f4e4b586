// Package pond5 implements the marketplace adapter for Pond5.
//
// Pond5 has no bulk status export, so discovery relies entirely on the
// paginated "my uploads" tech listing, posted as a search form. Rows carry
// the remote item id in an itemid attribute; failed and still-scheduled
// items appear in a separate details table. The site advertises the page
// count through pager links and caps the listing at 100 pages.
//
// Releases live in a catalog page that is searched by normalized file name
// before any upload. Metadata is written by fetching the item's edit form,
// overlaying the asset's fields onto the existing form values and posting
// the form back; an error banner in the response marks a field rejection.
package pond5
