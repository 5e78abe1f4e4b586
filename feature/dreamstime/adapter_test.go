package dreamstime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-submitter/core/asset"
	"stock-submitter/core/page"
	"stock-submitter/core/submit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const historyFixture = `Date,Size,Filename,Status
2024-06-01,2.1MB,IMG_1.jpg,Processed with image ID 12345
2024-06-01,1.8MB,IMG_2.jpg,"Rejected, low resolution"
2024-06-02,3.0MB,IMG_3.jpg,Processed with image ID 67890
`

const unfinishedFixture = `
<html><body>
<div class="upload-item" id="555"><span class="js-filenamefull">IMG_4.j</span></div>
<div class="upload-item" id="556"><span class="js-filenamefull">clip_9.mp4</span></div>
<div class="upload-item"><span class="js-filenamefull">orphan.jpg</span></div>
<script>var unfishedMaxPage = 4;</script>
</body></html>`

const releasesFixture = `
<html><body>
<div class="release-item" id="7001" data-status="approved"><span class="js-releasename">model_anna.jpg</span></div>
<div class="release-item" id="7002" data-status="rejected"><span class="js-releasename">model_bob.jpg</span></div>
</body></html>`

func newTestAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAdapter(Config{
		Page:          page.Config{BaseURL: server.URL, Cookie: "session=test"},
		SecurityCheck: "tok123",
	}, zap.NewNop())
}

func TestTraits(t *testing.T) {
	adapter := NewAdapter(Config{SecurityCheck: "tok123"}, zap.NewNop())
	traits := adapter.Traits()
	assert.Equal(t, 1, traits.FirstPage)
	assert.Zero(t, traits.PageCap)
	assert.Equal(t, 2*time.Second, traits.PageDelay)
}

func TestMissingSecurityCheck(t *testing.T) {
	adapter := NewAdapter(Config{}, zap.NewNop())

	require.Error(t, adapter.Ready())

	_, err := adapter.ListUploadHistory(context.Background())
	assert.ErrorIs(t, err, errNoSecurityCheck)
	_, err = adapter.ListUploads(context.Background(), 1)
	assert.ErrorIs(t, err, errNoSecurityCheck)
	err = adapter.SaveOrSubmit(context.Background(), "1", &asset.Asset{}, false)
	assert.ErrorIs(t, err, errNoSecurityCheck)
}

func TestListUploadHistory_ParsesCSV(t *testing.T) {
	var gotQuery string
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(historyFixture))
	}))

	entries, err := adapter.ListUploadHistory(context.Background())
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "history=1")
	assert.Contains(t, gotQuery, "securitycheck=tok123")

	require.Len(t, entries, 3)
	assert.Equal(t, submit.ListingEntry{Basename: "IMG_1.jpg", RemoteID: "12345"}, entries[0])
	assert.Equal(t, "IMG_2.jpg", entries[1].Basename)
	assert.True(t, entries[1].Failed)
	assert.Equal(t, "Rejected, low resolution", entries[1].Status)
	assert.Equal(t, "67890", entries[2].RemoteID)
}

func TestListUploadHistory_Captcha(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><script src="/captcha.js"></script></head></html>`))
	}))

	_, err := adapter.ListUploadHistory(context.Background())
	assert.True(t, submit.IsAuth(err))
}

func TestListUploads_ParsesListing(t *testing.T) {
	var gotPage string
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPage = r.PostFormValue("pg")
		assert.Equal(t, "1", r.PostFormValue("unfinished"))
		assert.Equal(t, "tok123", r.PostFormValue("securitycheck"))
		w.Write([]byte(unfinishedFixture))
	}))

	listing, err := adapter.ListUploads(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "2", gotPage)
	assert.Equal(t, 4, listing.MaxPage)
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, submit.ListingEntry{Basename: "IMG_4.j", RemoteID: "555"}, listing.Entries[0])
	assert.Equal(t, submit.ListingEntry{Basename: "clip_9.mp4", RemoteID: "556"}, listing.Entries[1])
}

func TestFindRelease(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(releasesFixture))
	}))

	found, err := adapter.FindRelease(context.Background(), "model_anna")
	require.NoError(t, err)
	assert.Equal(t, "7001", found.RemoteID)
	assert.False(t, found.Rejected)

	rejected, err := adapter.FindRelease(context.Background(), "model_bob")
	require.NoError(t, err)
	assert.True(t, rejected.Rejected)

	_, err = adapter.FindRelease(context.Background(), "nobody")
	assert.ErrorIs(t, err, submit.ErrReleaseNotFound)
}

func TestUploadRelease_SendsValidatedFields(t *testing.T) {
	var gotFields map[string]string
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		gotFields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			gotFields[name] = values[0]
		}
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "model_anna.jpg", header.Filename)
		w.Write([]byte("OK"))
	}))

	err := adapter.UploadRelease(context.Background(), []byte("jpeg"), "model_anna.jpg", modelRelease())
	require.NoError(t, err)

	assert.Equal(t, "model", gotFields["type"])
	assert.Equal(t, "tok123", gotFields["securitycheck"])
	assert.Equal(t, "7", gotFields["age"])
}

func TestUploadRelease_ValidationFailureSkipsCall(t *testing.T) {
	called := false
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	release := modelRelease()
	release.Metadata.Release.Gender = ""

	err := adapter.UploadRelease(context.Background(), []byte("jpeg"), "model_anna.jpg", release)
	var verr *submit.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, called)
}

func TestAttachRelease(t *testing.T) {
	var gotForm map[string]string
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"imageid":   r.PostFormValue("imageid"),
			"releaseid": r.PostFormValue("releaseid"),
		}
		w.Write([]byte("OK"))
	}))

	require.NoError(t, adapter.AttachRelease(context.Background(), "12345", "7001"))
	assert.Equal(t, "12345", gotForm["imageid"])
	assert.Equal(t, "7001", gotForm["releaseid"])
}

func saveTestAsset() *asset.Asset {
	return &asset.Asset{
		ID:               "a1",
		UploadedBasename: "IMG_1",
		Type:             asset.TypePhoto,
		Metadata: asset.Metadata{
			Title:       "Sunset over the bay",
			Description: "A calm evening.",
			Keywords:    []string{"sunset", "bay"},
			Licenses:    asset.LicenseToggles{Web: true, Print: true, StockRoyalty: true},
		},
	}
}

func TestSaveOrSubmit_WithCategories_SingleSave(t *testing.T) {
	var saves []map[string][]string
	suggests := 0
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ajax/upload/upload_ajax_save.php":
			require.NoError(t, r.ParseForm())
			saves = append(saves, r.PostForm)
			w.Write([]byte("OK"))
		case "/ajax/upload/upload_ajax_suggest_categories.php":
			suggests++
			w.Write([]byte("111,222"))
		}
	}))

	a := saveTestAsset()
	a.Metadata.Categories = []int{10, 20, 30, 40}

	require.NoError(t, adapter.SaveOrSubmit(context.Background(), "12345", a, true))

	require.Len(t, saves, 1)
	assert.Zero(t, suggests)

	form := saves[0]
	assert.Equal(t, []string{"10"}, form["cat1"])
	assert.Equal(t, []string{"20"}, form["cat2"])
	assert.Equal(t, []string{"30"}, form["cat3"])
	assert.NotContains(t, form, "cat4")
	assert.Equal(t, []string{"23"}, form["license"])
	assert.Equal(t, []string{"1"}, form["submitforreview"])
	assert.NotContains(t, form, "draft")
}

func TestSaveOrSubmit_WithoutCategories_DraftSuggestFinal(t *testing.T) {
	var saves []map[string][]string
	suggests := 0
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ajax/upload/upload_ajax_save.php":
			require.NoError(t, r.ParseForm())
			saves = append(saves, r.PostForm)
			w.Write([]byte("OK"))
		case "/ajax/upload/upload_ajax_suggest_categories.php":
			suggests++
			w.Write([]byte("111,222,333,444"))
		}
	}))

	require.NoError(t, adapter.SaveOrSubmit(context.Background(), "12345", saveTestAsset(), true))

	require.Len(t, saves, 2)
	assert.Equal(t, 1, suggests)

	draft := saves[0]
	assert.Equal(t, []string{"1"}, draft["draft"])
	assert.NotContains(t, draft, "submitforreview")
	assert.NotContains(t, draft, "cat1")

	final := saves[1]
	assert.NotContains(t, final, "draft")
	assert.Equal(t, []string{"111"}, final["cat1"])
	assert.Equal(t, []string{"222"}, final["cat2"])
	assert.Equal(t, []string{"333"}, final["cat3"])
	assert.NotContains(t, final, "cat4")
	assert.Equal(t, []string{"1"}, final["submitforreview"])
}

func TestSaveOrSubmit_SaveError(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ERROR: title too generic"))
	}))

	a := saveTestAsset()
	a.Metadata.Categories = []int{10}

	err := adapter.SaveOrSubmit(context.Background(), "12345", a, false)
	var verr *submit.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title too generic", verr.Message)
}

func TestSaveOrSubmit_CaptchaDuringSave(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<script src="/captcha.js"></script>`))
	}))

	a := saveTestAsset()
	a.Metadata.Categories = []int{10}

	err := adapter.SaveOrSubmit(context.Background(), "12345", a, false)
	assert.True(t, submit.IsAuth(err))
}
