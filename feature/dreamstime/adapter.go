package dreamstime

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"stock-submitter/core/asset"
	"stock-submitter/core/csvx"
	"stock-submitter/core/match"
	"stock-submitter/core/page"
	"stock-submitter/core/submit"
	"stock-submitter/core/utils"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Name is the marketplace name and the marker subject for Dreamstime.
const Name = "dreamstime"

const (
	defaultBaseURL = "https://www.dreamstime.com"

	maxKeywords       = 50
	maxTitleLen       = 80
	maxDescriptionLen = 1000
	maxCategories     = 3
)

var challengeMarkers = []string{"/captcha.js", "px-captcha-container"}

var (
	processedPattern = regexp.MustCompile(`Processed with image ID (\d+)`)
	maxPagePattern   = regexp.MustCompile(`unfishedMaxPage = (\d+);`)
)

// errNoSecurityCheck fails every remote call when the session token is
// missing from the configuration.
var errNoSecurityCheck = errors.New("security check code not found")

// Adapter implements the Dreamstime marketplace surface.
type Adapter struct {
	client        *page.Client
	securityCheck string
	traits        submit.Traits
	logger        *zap.Logger
}

// NewAdapter creates the Dreamstime adapter from configuration.
func NewAdapter(cfg Config, logger *zap.Logger) *Adapter {
	pageCfg := cfg.Page
	if pageCfg.BaseURL == "" {
		pageCfg.BaseURL = defaultBaseURL
	}
	pageCfg.ChallengeMarkers = challengeMarkers

	delay := cfg.PageDelaySeconds
	if delay <= 0 {
		delay = 2
	}

	return &Adapter{
		client:        page.NewClient(pageCfg, logger),
		securityCheck: cfg.SecurityCheck,
		logger:        logger,
		traits: submit.Traits{
			HistoryMatch: match.Exact,
			ListingMatch: match.Prefix,
			FirstPage:    1,
			PageDelay:    time.Duration(delay) * time.Second,
		},
	}
}

// Name returns the marketplace name.
func (a *Adapter) Name() string {
	return Name
}

// Traits returns the Dreamstime discovery behavior.
func (a *Adapter) Traits() submit.Traits {
	return a.traits
}

// Ready reports whether the adapter can make remote calls at all.
func (a *Adapter) Ready() error {
	if a.securityCheck == "" {
		return errNoSecurityCheck
	}
	return nil
}

// ListUploadHistory fetches the CSV upload history export. The first row is
// the header; the status column either names the processed image id or
// carries a terminal failure message.
func (a *Adapter) ListUploadHistory(ctx context.Context) ([]submit.ListingEntry, error) {
	if err := a.Ready(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("history", "1")
	params.Set("securitycheck", a.securityCheck)

	resp, err := a.client.Get(ctx, "/ajax/upload/upload_ajax_page_history.php", params)
	if err != nil {
		return nil, err
	}
	if resp.Challenge {
		return nil, &submit.AuthError{Reason: "bot challenge on upload history"}
	}

	rows := csvx.Tokenize(resp.Text, ',')
	var entries []submit.ListingEntry
	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}
		filename := strings.TrimSpace(row[2])
		status := strings.TrimSpace(row[3])
		if filename == "" {
			continue
		}
		entry := submit.ListingEntry{Basename: filename}
		if m := processedPattern.FindStringSubmatch(status); m != nil {
			entry.RemoteID = m[1]
		} else {
			entry.Status = status
			entry.Failed = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListUploads fetches one page of the unfinished-uploads listing. The page
// count hint is embedded in the response as a script variable.
func (a *Adapter) ListUploads(ctx context.Context, pageNum int) (*submit.ListingPage, error) {
	if err := a.Ready(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("unfinished", "1")
	form.Set("pg", strconv.Itoa(pageNum))
	form.Set("sortingtype", "sort0")
	form.Set("reload", "0")
	form.Set("securitycheck", a.securityCheck)

	resp, err := a.client.PostForm(ctx, "/ajax/upload/upload_ajax_unfinished.php", nil, form)
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

	listing := &submit.ListingPage{}
	if m := maxPagePattern.FindStringSubmatch(resp.Text); m != nil {
		listing.MaxPage = utils.ToInt(m[1])
	}

	doc.Find(".upload-item").Each(func(_ int, item *goquery.Selection) {
		remoteID := strings.TrimSpace(item.AttrOr("id", ""))
		name := strings.TrimSpace(item.Find(".js-filenamefull").First().Text())
		if remoteID == "" || name == "" {
			return
		}
		listing.Entries = append(listing.Entries, submit.ListingEntry{
			Basename: name,
			RemoteID: remoteID,
		})
	})

	return listing, nil
}

// FindRelease searches the release catalog for an exact normalized name
// match.
func (a *Adapter) FindRelease(ctx context.Context, releaseName string) (*submit.FoundRelease, error) {
	if err := a.Ready(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("securitycheck", a.securityCheck)

	resp, err := a.client.Get(ctx, "/ajax/releases/releases_ajax_list.php", params)
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
	doc.Find(".release-item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		name := item.Find(".js-releasename").First().Text()
		if !match.Matches(match.Exact, releaseName, name) {
			return true
		}
		found = &submit.FoundRelease{
			RemoteID: strings.TrimSpace(item.AttrOr("id", "")),
			Rejected: item.AttrOr("data-status", "") == "rejected",
		}
		return false
	})
	if found == nil {
		return nil, submit.ErrReleaseNotFound
	}
	return found, nil
}

// UploadRelease validates the release document's required fields and uploads
// the file with them. Validation failures surface on the owning asset only.
func (a *Adapter) UploadRelease(ctx context.Context, blob []byte, filename string, release *asset.Asset) error {
	if err := a.Ready(); err != nil {
		return err
	}

	fields, err := releaseFields(release)
	if err != nil {
		return err
	}
	fields["securitycheck"] = a.securityCheck

	resp, err := a.client.PostMultipart(ctx, "/ajax/releases/releases_ajax_upload.php", "file", filename, blob, fields)
	if err != nil {
		return err
	}
	if resp.Challenge {
		return &submit.AuthError{Reason: "bot challenge on release upload"}
	}
	return nil
}

// AttachRelease attaches an uploaded release to an image.
func (a *Adapter) AttachRelease(ctx context.Context, itemRemoteID, releaseRemoteID string) error {
	if err := a.Ready(); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("imageid", itemRemoteID)
	form.Set("releaseid", releaseRemoteID)
	form.Set("securitycheck", a.securityCheck)

	resp, err := a.client.PostForm(ctx, "/ajax/releases/releases_ajax_attach.php", nil, form)
	if err != nil {
		return err
	}
	if resp.Challenge {
		return &submit.AuthError{Reason: "bot challenge on release attach"}
	}
	return nil
}

// SaveOrSubmit writes the image's metadata. An image without categories is
// first saved as a draft, the site's AI-suggested categories are applied,
// then the final save follows; otherwise a single save call suffices.
func (a *Adapter) SaveOrSubmit(ctx context.Context, itemRemoteID string, item *asset.Asset, doSubmit bool) error {
	if err := a.Ready(); err != nil {
		return err
	}

	categories := item.Metadata.Categories
	if len(categories) > maxCategories {
		categories = categories[:maxCategories]
	}

	if len(categories) == 0 {
		if err := a.save(ctx, itemRemoteID, item, nil, false, true); err != nil {
			return err
		}
		suggested, err := a.suggestCategories(ctx, itemRemoteID)
		if err != nil {
			return err
		}
		if len(suggested) > maxCategories {
			suggested = suggested[:maxCategories]
		}
		categories = suggested
	}

	return a.save(ctx, itemRemoteID, item, categories, doSubmit, false)
}

// save posts one metadata save call.
func (a *Adapter) save(ctx context.Context, itemRemoteID string, item *asset.Asset, categories []int, doSubmit, draft bool) error {
	keywords := item.Keywords(maxKeywords)

	form := url.Values{}
	form.Set("imageid", itemRemoteID)
	form.Set("securitycheck", a.securityCheck)
	form.Set("title", truncate(item.Metadata.Title, maxTitleLen))
	form.Set("description", truncate(item.Metadata.Description, maxDescriptionLen))
	form.Set("keywords", strings.Join(keywords, ","))
	form.Set("license", strconv.Itoa(licenseCode(item.Metadata.Licenses)))

	for i, cat := range categories {
		form.Set(fmt.Sprintf("cat%d", i+1), strconv.Itoa(cat))
	}
	if item.Metadata.Country != "" {
		form.Set("country", item.Metadata.Country)
	}
	if item.Metadata.Editorial {
		form.Set("editorial", "1")
	}
	if item.Metadata.AIGenerated {
		form.Set("aigenerated", "1")
	}
	if item.Metadata.Price > 0 {
		form.Set("price", fmt.Sprintf("%v", item.Metadata.Price))
		for tier, percentage := range subPriceTiers {
			form.Set(tier, fmt.Sprintf("%.1f", item.Metadata.Price*float64(percentage)/100))
		}
	}
	if draft {
		form.Set("draft", "1")
	}
	if doSubmit {
		form.Set("submitforreview", "1")
	}

	resp, err := a.client.PostForm(ctx, "/ajax/upload/upload_ajax_save.php", nil, form)
	if err != nil {
		return err
	}
	if resp.Challenge {
		return &submit.AuthError{Reason: "bot challenge on save"}
	}

	if msg := saveError(resp.Text); msg != "" {
		return &submit.ValidationError{Message: msg}
	}
	return nil
}

// subPriceTiers maps the fixed sub-price fields to their percentage of the
// base price.
var subPriceTiers = map[string]int{
	"price_s":  25,
	"price_m":  50,
	"price_l":  75,
	"price_xl": 100,
}

// suggestCategories asks the site for AI-generated categories for an image.
func (a *Adapter) suggestCategories(ctx context.Context, itemRemoteID string) ([]int, error) {
	params := url.Values{}
	params.Set("imageid", itemRemoteID)
	params.Set("securitycheck", a.securityCheck)

	resp, err := a.client.Get(ctx, "/ajax/upload/upload_ajax_suggest_categories.php", params)
	if err != nil {
		return nil, err
	}
	if resp.Challenge {
		return nil, &submit.AuthError{Reason: "bot challenge on category suggestion"}
	}

	var categories []int
	for _, field := range strings.Split(strings.TrimSpace(resp.Text), ",") {
		if n := utils.ToInt(field); n > 0 {
			categories = append(categories, n)
		}
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories suggested for image %s", itemRemoteID)
	}
	return categories, nil
}

// saveError extracts the error message from a save response, which answers
// "OK" on success and "ERROR:<message>" otherwise.
func saveError(body string) string {
	text := strings.TrimSpace(body)
	if rest, ok := strings.CutPrefix(text, "ERROR:"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
