package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "hostel_picker/internal/adapters/http_server"
	"hostel_picker/internal/domain"
	"hostel_picker/internal/matching"
)

type fakeService struct {
	records []domain.Record
	short   matching.Shortlist
	advice  domain.Advice
	err     error
	advErr  error

	gotProfile domain.UserProfile
	gotK       int
	gotMsgs    []domain.ChatMessage
}

func (f *fakeService) Records(ctx context.Context) ([]domain.Record, error) {
	return f.records, f.err
}
func (f *fakeService) Shortlist(ctx context.Context, p domain.UserProfile, k int) (matching.Shortlist, error) {
	f.gotProfile, f.gotK = p, k
	return f.short, f.err
}
func (f *fakeService) Recommend(ctx context.Context, p domain.UserProfile, msgs []domain.ChatMessage) (domain.Advice, error) {
	f.gotProfile, f.gotMsgs = p, msgs
	return f.advice, f.advErr
}

func newTestServer(svc httpserver.Service) *httptest.Server {
	s := httpserver.New(0)
	s.MountHandlers(httpserver.NewHandlers(svc))
	return httptest.NewServer(s.Mux())
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func alpha() domain.Record {
	return domain.Record{"hostel_name": domain.Text("Alpha"), "city": domain.Text("Lima")}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&fakeService{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestShortlist_OK(t *testing.T) {
	svc := &fakeService{short: matching.Shortlist{
		Candidates: []domain.RankedCandidate{{Record: alpha(), Scores: domain.ScoreSet{Price: 100}, Aggregate: 80}},
		Pool:       1,
	}}
	srv := newTestServer(svc)
	defer srv.Close()

	resp, out := post(t, srv.URL+"/v1/shortlist", `{"profile":{"destination":"Lima","maxPrice":"20","age":"n/a"},"k":5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	assert.Equal(t, 5, svc.gotK)
	assert.Equal(t, "Lima", svc.gotProfile.Destination)
	assert.Equal(t, domain.Float(20), svc.gotProfile.MaxPrice)
	assert.False(t, svc.gotProfile.Age.Set)

	assert.Equal(t, false, out["fallback"])
	assert.Equal(t, 1.0, out["pool"])
	cands := out["candidates"].([]any)
	require.Len(t, cands, 1)
	c := cands[0].(map[string]any)
	assert.Equal(t, "Alpha", c["record"].(map[string]any)["hostel_name"])
	assert.Equal(t, 100.0, c["scores"].(map[string]any)["price"])
	assert.Equal(t, 80.0, c["aggregate"])
}

func TestShortlist_BadRequests(t *testing.T) {
	srv := newTestServer(&fakeService{})
	defer srv.Close()

	for _, body := range []string{`{"k":51}`, `{"k":-1}`, `not json`} {
		resp, out := post(t, srv.URL+"/v1/shortlist", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
		assert.Equal(t, 400.0, out["status"])
	}
}

func TestShortlist_UpstreamFailure(t *testing.T) {
	srv := newTestServer(&fakeService{err: errors.New("boom")})
	defer srv.Close()

	resp, out := post(t, srv.URL+"/v1/shortlist", `{"profile":{}}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Upstream Unavailable", out["title"])
}

func TestRecommendations_OK(t *testing.T) {
	svc := &fakeService{advice: domain.Advice{
		Message:         "Pick Alpha.",
		Recommendations: []domain.Recommendation{{Name: "Alpha", MatchPercentage: 91, HostelImg: "https://img.test/a.jpg"}},
	}}
	srv := newTestServer(svc)
	defer srv.Close()

	resp, out := post(t, srv.URL+"/v1/recommendations",
		`{"messages":[{"role":"user","content":"best spots?"}],"context":{"destination":"Lima"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pick Alpha.", out["message"])
	recs := out["recommendations"].([]any)
	require.Len(t, recs, 1)
	assert.Equal(t, "https://img.test/a.jpg", recs[0].(map[string]any)["hostel_img"])

	assert.Equal(t, "Lima", svc.gotProfile.Destination)
	require.Len(t, svc.gotMsgs, 1)
	assert.Equal(t, "best spots?", svc.gotMsgs[0].Content)
}

func TestRecommendations_InvalidRole(t *testing.T) {
	srv := newTestServer(&fakeService{})
	defer srv.Close()

	resp, _ := post(t, srv.URL+"/v1/recommendations", `{"messages":[{"role":"robot","content":"hi"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommendations_Disabled(t *testing.T) {
	srv := newTestServer(&fakeService{advErr: domain.ErrAdvisorDisabled})
	defer srv.Close()

	resp, out := post(t, srv.URL+"/v1/recommendations", `{"messages":[]}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Advisor Disabled", out["title"])
}

func TestRecommendations_SystemError(t *testing.T) {
	srv := newTestServer(&fakeService{advErr: errors.New("advise: model down")})
	defer srv.Close()

	resp, out := post(t, srv.URL+"/v1/recommendations", `{"messages":[]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "System Error: advise: model down", out["message"])
	v, ok := out["recommendations"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestListHostels_FilterAndETag(t *testing.T) {
	svc := &fakeService{records: []domain.Record{
		alpha(),
		{"hostel_name": domain.Text("Bravo"), "city": domain.Text("Cusco")},
	}}
	srv := newTestServer(svc)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/hostels?destination=lima")
	require.NoError(t, err)
	var out struct {
		Count   int              `json:"count"`
		Hostels []map[string]any `json:"hostels"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "Alpha", out.Hostels[0]["hostel_name"])

	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/hostels?destination=lima", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&fakeService{})
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/v1/shortlist", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
