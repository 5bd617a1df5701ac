package httpapp

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hnserve/internal/config"
	"hnserve/internal/feed"
	"hnserve/internal/hn"
	"hnserve/internal/model"
	"hnserve/internal/rate"
	"hnserve/internal/resolve"
	"hnserve/internal/scrape"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUpstream mimics the Firebase API surface the client talks to.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	items := map[string]string{
		"1": `{"id":1,"type":"story","by":"alice","title":"A story","url":"https://example.com/a","kids":[2,3],"score":10}`,
		"2": `{"id":2,"type":"comment","by":"bob","text":"&lt;i&gt;nice&lt;/i&gt;","parent":1}`,
		"3": `{"id":3,"type":"comment","by":"carol","text":"agreed","parent":1}`,
		"4": `{"id":4,"type":"story","by":"alice","title":"Another story","score":5}`,
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/item/"):
			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/item/"), ".json")
			if body, ok := items[id]; ok {
				fmt.Fprint(w, body)
				return
			}
			fmt.Fprint(w, "null")
		case r.URL.Path == "/user/alice.json":
			fmt.Fprint(w, `{"id":"alice","created":1160418092,"karma":42,"about":"Hello &amp; welcome","submitted":[4,1]}`)
		case strings.HasPrefix(r.URL.Path, "/user/"):
			fmt.Fprint(w, "null")
		case r.URL.Path == "/topstories.json":
			fmt.Fprint(w, `[1,4]`)
		case r.URL.Path == "/newstories.json":
			fmt.Fprint(w, `[4,1]`)
		default:
			fmt.Fprint(w, "null")
		}
	}))
}

const rankedPage = `<html><body><table>
<tr class="athing" id="4">
  <td><span class="titleline"><a href="https://example.com/b">Another story</a></span></td>
</tr>
<tr><td class="subtext">
  <span class="score">5 points</span>
  <a class="hnuser" href="user?id=alice">alice</a>
  <span class="age" title="2026-08-29T10:00:00 1787349600"><a href="item?id=4">1 hour ago</a></span>
  <a href="item?id=4">discuss</a>
</td></tr>
</table></body></html>`

func fakeWebsite(t *testing.T, fail bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, rankedPage)
	}))
}

func newTestServer(t *testing.T, upstream, website *httptest.Server, rlPerMinute int) *httptest.Server {
	t.Helper()
	logger := discardLogger()
	fetcher := hn.New(hn.Config{BaseURL: upstream.URL, Timeout: 5 * time.Second}, logger)
	resolver := resolve.New(fetcher, resolve.Config{}, logger)
	scraper := scrape.New(scrape.Config{BaseURL: website.URL, Timeout: 5 * time.Second}, logger)
	orchestrator := feed.New(scraper, resolver, 1, logger)
	limiter := rate.NewMemory(rlPerMinute, time.Minute)
	srv := NewServer(resolver, orchestrator, limiter, config.Config{}, logger)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, dest any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if dest != nil && len(body) > 0 {
		if err := json.Unmarshal(body, dest); err != nil {
			t.Fatalf("decode %s: %v\n%s", url, err, body)
		}
	}
	return resp
}

func TestItemShallow(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var item model.Item
	resp := getJSON(t, ts.URL+"/item/1", &item)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if item.ID != 1 || item.Title != "A story" {
		t.Errorf("item = %+v", item)
	}
	if len(item.Kids) != 2 {
		t.Errorf("shallow item must keep kid ids, got %v", item.Kids)
	}
	if item.Comments != nil {
		t.Errorf("shallow item must not carry comments")
	}
}

func TestItemDeep(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var item model.Item
	getJSON(t, ts.URL+"/item/1?comments=1", &item)
	if item.Kids != nil {
		t.Errorf("deep item must clear kid ids, got %v", item.Kids)
	}
	if len(item.Comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(item.Comments))
	}
	if item.Comments[0].ID != 2 || item.Comments[1].ID != 3 {
		t.Errorf("comment order = %+v", item.Comments)
	}
	if strings.Contains(item.Comments[0].Text, "<i>") {
		t.Errorf("comment text not normalized: %q", item.Comments[0].Text)
	}
}

func TestItemMissing(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	resp, err := http.Get(ts.URL + "/item/999999")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("missing item must answer 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("missing item must answer an empty body, got %q", body)
	}
}

func TestItemBadID(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	for _, path := range []string{"/item/abc", "/item/0", "/item/-5"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestFeedAndAliases(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	for _, path := range []string{"/topstories", "/top"} {
		var items []model.Item
		resp := getJSON(t, ts.URL+path, &items)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, resp.StatusCode)
		}
		if len(items) != 2 || items[0].ID != 1 || items[1].ID != 4 {
			t.Errorf("GET %s items = %+v", path, items)
		}
	}
}

func TestFeedRankedScrape(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var summaries []model.ListingSummary
	getJSON(t, ts.URL+"/top?ranked=1", &summaries)
	if len(summaries) != 1 || summaries[0].ID != 4 {
		t.Errorf("summaries = %+v", summaries)
	}
	if summaries[0].Score == nil || *summaries[0].Score != 5 {
		t.Errorf("score = %v", summaries[0].Score)
	}
}

func TestFeedRankedFallback(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, true)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var items []model.Item
	resp := getJSON(t, ts.URL+"/top?ranked=1", &items)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fallback status = %d", resp.StatusCode)
	}
	if len(items) != 2 || items[0].ID != 1 {
		t.Errorf("fallback items = %+v", items)
	}
}

func TestFeedRankedDirectOnly(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var items []model.Item
	getJSON(t, ts.URL+"/new?ranked=1", &items)
	if len(items) != 2 || items[0].ID != 4 {
		t.Errorf("new feed must take the direct path, got %+v", items)
	}
}

func TestUser(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var user model.User
	getJSON(t, ts.URL+"/user/alice", &user)
	if user.ID != "alice" || user.Karma != 42 {
		t.Errorf("user = %+v", user)
	}
	if user.About != "Hello & welcome" {
		t.Errorf("about not normalized: %q", user.About)
	}
	if len(user.Submitted) != 2 {
		t.Errorf("shallow user must keep submitted ids, got %v", user.Submitted)
	}
}

func TestUserDetailed(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var detail struct {
		ID        string       `json:"id"`
		Submitted []model.Item `json:"submitted"`
	}
	getJSON(t, ts.URL+"/user/alice?submitted=1", &detail)
	if detail.ID != "alice" {
		t.Errorf("detail = %+v", detail)
	}
	if len(detail.Submitted) != 2 || detail.Submitted[0].ID != 4 || detail.Submitted[1].ID != 1 {
		t.Errorf("submitted items = %+v", detail.Submitted)
	}
}

func TestUserMissing(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	resp, err := http.Get(ts.URL + "/user/nobody")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("missing user must answer 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("missing user must answer an empty body, got %q", body)
	}
}

func TestWelcome(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var welcome map[string]any
	resp := getJSON(t, ts.URL+"/", &welcome)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if welcome["name"] != "hnserve" {
		t.Errorf("welcome = %v", welcome)
	}
}

func TestNotFound(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	resp, err := http.Get(ts.URL + "/no/such/route")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	resp, err := http.Post(ts.URL+"/item/1", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 2)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(ts.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d", i, resp.StatusCode)
		}
	}
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("429 must carry Retry-After")
	}
}

func TestOpenAPIJSON(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	website := fakeWebsite(t, false)
	defer website.Close()
	ts := newTestServer(t, upstream, website, 1000)

	var doc map[string]any
	resp := getJSON(t, ts.URL+"/openapi.json", &doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if doc["swagger"] == nil && doc["openapi"] == nil {
		t.Errorf("doc has no version marker: %v", doc)
	}
}

func TestSplitPath(t *testing.T) {
	if got := splitPath("/"); got != nil {
		t.Errorf("splitPath(/) = %v", got)
	}
	got := splitPath("/item/42/")
	if len(got) != 2 || got[0] != "item" || got[1] != "42" {
		t.Errorf("splitPath = %v", got)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	if got := clientIP(r); got != "10.0.0.1" {
		t.Errorf("clientIP = %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Errorf("forwarded clientIP = %q", got)
	}
}
