package chi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const testCookie = "sentimentd_session"

func postForm(t *testing.T, h http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getPage(t *testing.T, h http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestWeb_IndexSetsCookie(t *testing.T) {
	h, deps := newTestRouter(t)

	rec := getPage(t, h, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	c := sessionCookie(t, rec)
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	body := rec.Body.String()
	for _, want := range []string{PageTitle, "Analyze Sentiment", "Submit Feedback"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if deps.sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", deps.sessions.Len())
	}
}

func TestWeb_ExamplesToggle(t *testing.T) {
	h, _ := newTestRouter(t)

	closed := getPage(t, h, "/", nil).Body.String()
	if strings.Contains(closed, ExampleTweets[0]) {
		t.Error("examples must be hidden by default")
	}

	open := getPage(t, h, "/?examples=1", nil).Body.String()
	for _, ex := range ExampleTweets {
		if !strings.Contains(open, ex) {
			t.Errorf("examples toggle missing %q", ex)
		}
	}
}

func TestWeb_AnalyzeShowsResult(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := postForm(t, h, "/analyze", url.Values{"tweet": {"I love this new phone!"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>Positive</strong>") {
		t.Error("expected Positive result")
	}
	if !strings.Contains(body, "87.66%") {
		t.Error("expected confidence 87.66%")
	}
}

func TestWeb_AnalyzeBlankWarns(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := postForm(t, h, "/analyze", url.Values{"tweet": {"  "}}, nil)
	body := rec.Body.String()
	if !strings.Contains(body, EmptyTweetMsg) {
		t.Error("expected blank tweet warning")
	}
	if strings.Contains(body, `id="result"`) {
		t.Error("blank tweet must not produce a result")
	}
}

func TestWeb_AnalyzeVectorizerFailure(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := postForm(t, h, "/analyze", url.Values{"tweet": {"outage again"}}, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), AnalyzeFailed) {
		t.Error("expected failure message")
	}
}

func TestWeb_HistoryToggle(t *testing.T) {
	h, _ := newTestRouter(t)

	first := getPage(t, h, "/?history=1", nil)
	if !strings.Contains(first.Body.String(), EmptyHistoryMsg) {
		t.Error("expected empty history message")
	}
	cookie := sessionCookie(t, first)

	postForm(t, h, "/analyze", url.Values{"tweet": {"first one"}}, cookie)
	postForm(t, h, "/analyze", url.Values{"tweet": {"I love the second"}}, cookie)

	body := getPage(t, h, "/?history=1", cookie).Body.String()
	if strings.Contains(body, EmptyHistoryMsg) {
		t.Error("history should not be empty")
	}
	second := strings.Index(body, "I love the second")
	firstIdx := strings.Index(body, "first one")
	if second < 0 || firstIdx < 0 || second > firstIdx {
		t.Error("history must list newest first")
	}
	if !strings.Contains(body, "[2025-03-14 09:26:53]") {
		t.Error("expected formatted timestamp")
	}
	if !strings.Contains(body, "Negative (80.0%)") {
		t.Error("expected negative entry with confidence")
	}
}

func TestWeb_HistoryIsPerBrowser(t *testing.T) {
	h, _ := newTestRouter(t)

	a := sessionCookie(t, getPage(t, h, "/", nil))
	b := sessionCookie(t, getPage(t, h, "/", nil))

	postForm(t, h, "/analyze", url.Values{"tweet": {"private words"}}, a)

	if strings.Contains(getPage(t, h, "/?history=1", b).Body.String(), "private words") {
		t.Error("history leaked between sessions")
	}
}

func TestWeb_EscapesTweet(t *testing.T) {
	h, _ := newTestRouter(t)
	cookie := sessionCookie(t, getPage(t, h, "/", nil))

	postForm(t, h, "/analyze", url.Values{"tweet": {"<script>alert(1)</script>"}}, cookie)
	body := getPage(t, h, "/?history=1", cookie).Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("tweet text must be HTML escaped")
	}
}

func TestWeb_Feedback(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := postForm(t, h, "/feedback", url.Values{"feedback": {"Nice work"}}, nil)
	if !strings.Contains(rec.Body.String(), FeedbackThanks) {
		t.Error("expected thanks message")
	}

	rec = postForm(t, h, "/feedback", url.Values{"feedback": {""}}, nil)
	if !strings.Contains(rec.Body.String(), EmptyFeedback) {
		t.Error("expected empty feedback warning")
	}
}

func TestWeb_EndSession(t *testing.T) {
	h, deps := newTestRouter(t)
	cookie := sessionCookie(t, getPage(t, h, "/", nil))

	rec := postForm(t, h, "/session/end", url.Values{}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if deps.sessions.Len() != 0 {
		t.Errorf("expected session to be discarded, %d left", deps.sessions.Len())
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := map[float64]string{
		87.66: "87.66",
		50:    "50.0",
		100:   "100.0",
		0:     "0.0",
		73.4:  "73.4",
	}
	for in, want := range tests {
		if got := FormatConfidence(in); got != want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", in, got, want)
		}
	}
}
