package pond5

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"stock-submitter/core/asset"
	"stock-submitter/core/match"
	"stock-submitter/core/page"
	"stock-submitter/core/submit"
	"stock-submitter/core/utils"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Name is the marketplace name and the marker subject for Pond5.
const Name = "pond5"

const (
	defaultBaseURL = "https://www.pond5.com"

	maxKeywords       = 50
	maxTitleLen       = 80
	maxDescriptionLen = 1000

	// The site refuses to page the uploads listing past this point.
	listingPageCap = 100
)

var challengeMarkers = []string{"px-captcha", "cf-challenge"}

var pagerLinkPattern = regexp.MustCompile(`&at_page=(\d+)`)

// Adapter implements the Pond5 marketplace surface.
type Adapter struct {
	client *page.Client
	traits submit.Traits
	logger *zap.Logger
}

// NewAdapter creates the Pond5 adapter from configuration.
func NewAdapter(cfg Config, logger *zap.Logger) *Adapter {
	pageCfg := cfg.Page
	if pageCfg.BaseURL == "" {
		pageCfg.BaseURL = defaultBaseURL
	}
	pageCfg.ChallengeMarkers = challengeMarkers

	delay := cfg.PageDelaySeconds
	if delay <= 0 {
		delay = 5
	}

	return &Adapter{
		client: page.NewClient(pageCfg, logger),
		logger: logger,
		traits: submit.Traits{
			HistoryMatch: match.Exact,
			ListingMatch: match.Prefix,
			FirstPage:    0,
			PageCap:      listingPageCap,
			PageDelay:    time.Duration(delay) * time.Second,
		},
	}
}

// Name returns the marketplace name.
func (a *Adapter) Name() string {
	return Name
}

// Traits returns the Pond5 discovery behavior.
func (a *Adapter) Traits() submit.Traits {
	return a.traits
}

// ListUploadHistory is unavailable on Pond5; there is no bulk status export.
func (a *Adapter) ListUploadHistory(ctx context.Context) ([]submit.ListingEntry, error) {
	return nil, submit.ErrHistoryUnavailable
}

// ListUploads fetches one page of the uploads tech listing, filtered to
// processed items so every entry carries an item id.
func (a *Adapter) ListUploads(ctx context.Context, pageNum int) (*submit.ListingPage, error) {
	path := "/index.php?page=my_uploads&sub=tech"
	if pageNum != 0 {
		path += fmt.Sprintf("&at_page=%d", pageNum)
	}
	return a.fetchListing(ctx, path, true)
}

// ListUploadStatuses fetches the listing once without the processed-only
// filter. Only the unfiltered rendering shows the details rows for items
// that failed processing or are still scheduled.
func (a *Adapter) ListUploadStatuses(ctx context.Context) (*submit.ListingPage, error) {
	return a.fetchListing(ctx, "/index.php?page=my_uploads&sub=tech", false)
}

// fetchListing posts the uploads search form and parses the response.
// Processed items come from the tech table with their item id; on an
// unfiltered fetch, failed and scheduled items come from the details table
// with their status message.
func (a *Adapter) fetchListing(ctx context.Context, path string, processedOnly bool) (*submit.ListingPage, error) {
	form := url.Values{}
	form.Set("prefs_submit", "Search")
	form.Set("kux_filter_search", "")
	form.Set("in_public_bin", "-1")
	form.Set("max_per_page", "800")
	if processedOnly {
		form.Set("status", "21")
	}
	form.Set("ordby", "108")
	form.Set("media_type", "-1")

	resp, err := a.client.PostForm(ctx, path, nil, form)
	if err != nil {
		return nil, err
	}
	if resp.Challenge {
		return nil, &submit.AuthError{Reason: "bot challenge on uploads listing"}
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, err
	}

	listing := &submit.ListingPage{MaxPage: findMaxPage(doc)}

	doc.Find("#tech_table .UploadsTable-row").Each(func(_ int, row *goquery.Selection) {
		remoteID := strings.TrimSpace(row.AttrOr("itemid", ""))
		if remoteID == "" {
			return
		}
		row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			name := strings.TrimSpace(cell.Text())
			if !looksLikeFilename(name) {
				return true
			}
			listing.Entries = append(listing.Entries, submit.ListingEntry{
				Basename: name,
				RemoteID: remoteID,
			})
			return false
		})
	})

	if !processedOnly {
		appendStatusEntries(listing, doc, "#details_table .kux_processing_failed", true)
		appendStatusEntries(listing, doc, "#details_table .kux_processing_scheduled", false)
	}

	return listing, nil
}

// appendStatusEntries collects rows from the details table that carry a
// processing status instead of an item id.
func appendStatusEntries(listing *submit.ListingPage, doc *goquery.Document, selector string, failed bool) {
	doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
		message := strings.TrimSpace(el.Parent().Text())
		row := el.Closest("tr")
		if row.Length() == 0 {
			return
		}
		row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			name := strings.TrimSpace(cell.Text())
			if !looksLikeFilename(name) {
				return true
			}
			listing.Entries = append(listing.Entries, submit.ListingEntry{
				Basename: name,
				Status:   message,
				Failed:   failed,
			})
			return false
		})
	})
}

// findMaxPage extracts the highest page number advertised by the pager links.
func findMaxPage(doc *goquery.Document) int {
	maxPage := 0
	doc.Find("form a.Button").Each(func(_ int, link *goquery.Selection) {
		m := pagerLinkPattern.FindStringSubmatch(link.AttrOr("href", ""))
		if m == nil {
			return
		}
		if n := utils.ToInt(m[1]); n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}

// looksLikeFilename filters listing cells down to the one showing the
// uploaded file name.
func looksLikeFilename(text string) bool {
	if text == "" || strings.ContainsAny(text, " \n") {
		return false
	}
	dot := strings.LastIndexByte(text, '.')
	return dot > 0 && dot < len(text)-1
}

// FindRelease searches the release catalog page for an exact normalized
// name match.
func (a *Adapter) FindRelease(ctx context.Context, releaseName string) (*submit.FoundRelease, error) {
	resp, err := a.client.Get(ctx, "/index.php?page=releases", nil)
	if err != nil {
		return nil, err
	}
	if resp.Challenge {
		return nil, &submit.AuthError{Reason: "bot challenge on release catalog"}
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, err
	}

	var found *submit.FoundRelease
	doc.Find(".UserAccountTable .UserAccountTable-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return true
		}
		if !match.Matches(match.Exact, releaseName, cells.Eq(3).Text()) {
			return true
		}
		found = &submit.FoundRelease{
			RemoteID: strings.TrimSpace(cells.Eq(1).Text()),
			Rejected: strings.TrimSpace(cells.Eq(0).Text()) == "✗",
		}
		return false
	})
	if found == nil {
		return nil, submit.ErrReleaseNotFound
	}
	return found, nil
}

// UploadRelease uploads a release document file. Pond5 takes the release
// details from the document itself, so only the file is sent.
func (a *Adapter) UploadRelease(ctx context.Context, blob []byte, filename string, release *asset.Asset) error {
	if len(blob) == 0 {
		return &submit.ValidationError{Field: "file", Message: "release file is empty"}
	}

	resp, err := a.client.PostMultipart(ctx, "/index.php?page=releases&what=upload", "file", filename, blob, nil)
	if err != nil {
		return err
	}
	if resp.Challenge {
		return &submit.AuthError{Reason: "bot challenge on release upload"}
	}
	doc, err := resp.Document()
	if err != nil {
		return err
	}
	if msg := strings.TrimSpace(doc.Find(".p5_error_message").Text()); msg != "" {
		return &submit.ValidationError{Field: "file", Message: msg}
	}
	return nil
}

// AttachRelease links an uploaded release to an item: the item id is first
// exchanged for a temporary selection id, which the attach call consumes.
func (a *Adapter) AttachRelease(ctx context.Context, itemRemoteID, releaseRemoteID string) error {
	resp, err := a.client.Call(ctx, http.MethodPost,
		"/index.php?page=ajax_misc&what=sitem_tmp&where=myuploadsv2",
		nil,
		strings.NewReader("commasitems="+url.QueryEscape(itemRemoteID)),
		"application/x-www-form-urlencoded",
	)
	if err != nil {
		return err
	}
	if resp.Challenge {
		return &submit.AuthError{Reason: "bot challenge on release attach"}
	}

	var selection struct {
		ObjectID string `json:"psmt_objectid"`
	}
	if err := json.Unmarshal([]byte(resp.Text), &selection); err != nil {
		return fmt.Errorf("unexpected selection response: %w", err)
	}
	if selection.ObjectID == "" {
		return fmt.Errorf("selection id missing for item %s", itemRemoteID)
	}

	params := url.Values{}
	params.Set("page", "my_uploads_html")
	params.Set("what", "attrel")
	params.Set("pf_fullscreen", "1")
	params.Set("pef_objectid", releaseRemoteID)
	params.Set("psmt_objectid", selection.ObjectID)

	attach, err := a.client.Get(ctx, "/index.php", params)
	if err != nil {
		return err
	}
	if attach.Challenge {
		return &submit.AuthError{Reason: "bot challenge on release attach"}
	}
	return nil
}

// SaveOrSubmit writes the asset's metadata through the item's edit form and
// posts it back, optionally submitting the item for review.
func (a *Adapter) SaveOrSubmit(ctx context.Context, itemRemoteID string, item *asset.Asset, doSubmit bool) error {
	editPath := "/index.php?page=edit_item&itemid=" + itemRemoteID
	resp, err := a.client.Get(ctx, editPath, nil)
	if err != nil {
		return err
	}
	if resp.Challenge {
		return &submit.AuthError{Reason: "bot challenge on edit form"}
	}
	doc, err := resp.Document()
	if err != nil {
		return err
	}

	formEl := doc.Find("#editClip")
	if formEl.Length() == 0 {
		return fmt.Errorf("edit form not found for item %s", itemRemoteID)
	}
	form := formValues(formEl)

	if doSubmit {
		form.Set("submit_what", "Save and Submit for Review")
	} else {
		form.Set("submit_what", "Save")
	}

	keywords := item.Keywords(maxKeywords)
	form.Set("keywords", strings.Join(keywords, ","))
	form.Set("tagskeywords", strings.Join(keywords, ","))
	form.Set("name", truncate(item.Metadata.Title, maxTitleLen))
	form.Set("description", truncate(item.Metadata.Description, maxDescriptionLen))

	if taken := item.Metadata.DateTaken; taken != nil {
		form.Set("media_created_at_int_yyyy", fmt.Sprintf("%d", taken.Year()))
		form.Set("media_created_at_int_mm", fmt.Sprintf("%d", int(taken.Month())))
		form.Set("media_created_at_int_dd", fmt.Sprintf("%d", taken.Day()))
	}

	switch {
	case item.IsIllustration():
		form.Set("video_standard", "301")
	case item.Type == asset.TypePhoto:
		form.Set("video_standard", "300")
	case item.Type == asset.TypeVideo, item.Type == asset.TypeVector:
		// Site default applies.
	default:
		return fmt.Errorf("unexpected asset type: %s", item.Type)
	}

	if !item.IsIllustration() && item.Metadata.Editorial {
		form.Set("curator_note", "Please mark this photo as Editorial Use Only")
	}

	if item.Metadata.Country != "" {
		if code, ok := countryCodes[strings.ToLower(item.Metadata.Country)]; ok {
			form.Set("location_country", code)
		}
	}

	if item.Type == asset.TypeVideo && item.Metadata.Looped {
		form.Set("seamless_looping", "yes")
	}

	if item.Metadata.Price > 0 {
		form.Set("price", fmt.Sprintf("%v", item.Metadata.Price))
		setTierPrices(form, doc, item.Metadata.Price)
	}

	saved, err := a.client.PostForm(ctx, "/index.php?r=index.php&page=edit_item&itemid="+itemRemoteID, nil, form)
	if err != nil {
		return err
	}
	if saved.Challenge {
		return &submit.AuthError{Reason: "bot challenge on save"}
	}
	savedDoc, err := saved.Document()
	if err != nil {
		return err
	}
	if msg := strings.TrimSpace(savedDoc.Find(".p5_error_message").Text()); msg != "" {
		return &submit.ValidationError{Message: msg}
	}
	return nil
}

// setTierPrices fills the per-tier price inputs, each computed from the base
// price and the percentage the site attaches to the tier's label.
func setTierPrices(form url.Values, doc *goquery.Document, price float64) {
	doc.Find("#otherprices .opitem").Each(func(_ int, tier *goquery.Selection) {
		label := tier.Find("label").First()
		input := tier.Find("input").First()
		if label.Length() == 0 || input.Length() == 0 {
			return
		}
		pctAttr, ok := label.Attr("percentage")
		if !ok {
			return
		}
		percentage := utils.ToInt(pctAttr)
		if percentage == 0 {
			return
		}
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		form.Set(name, fmt.Sprintf("%.1f", price*float64(percentage)/100))
	})
}

// formValues reads the current values of a form the way a browser would
// serialize it: named inputs, checked checkboxes and radios, selected
// options and textarea contents.
func formValues(form *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		inputType := strings.ToLower(input.AttrOr("type", "text"))
		switch inputType {
		case "checkbox", "radio":
			if _, checked := input.Attr("checked"); checked {
				values.Add(name, input.AttrOr("value", "on"))
			}
		case "submit", "button", "image", "file":
			// Not part of the serialized form.
		default:
			values.Add(name, input.AttrOr("value", ""))
		}
	})
	form.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := sel.AttrOr("name", "")
		if name == "" {
			return
		}
		option := sel.Find("option[selected]").First()
		if option.Length() == 0 {
			option = sel.Find("option").First()
		}
		if option.Length() > 0 {
			values.Add(name, option.AttrOr("value", strings.TrimSpace(option.Text())))
		}
	})
	form.Find("textarea").Each(func(_ int, area *goquery.Selection) {
		name := area.AttrOr("name", "")
		if name == "" {
			return
		}
		values.Add(name, area.Text())
	})
	return values
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
