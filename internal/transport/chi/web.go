package chi

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	feedbackuc "github.com/kailas-cloud/sentimentd/internal/usecase/feedback"
	sentimentuc "github.com/kailas-cloud/sentimentd/internal/usecase/sentiment"
	sessionuc "github.com/kailas-cloud/sentimentd/internal/usecase/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// User-facing messages shared by the web UI and the API.
const (
	PageTitle       = "Twitter Sentiment Analyzer"
	EmptyTweetMsg   = "Please enter a tweet."
	EmptyHistoryMsg = "No history yet. Analyze a tweet to see it here!"
	FeedbackThanks  = "Thanks for your feedback!"
	EmptyFeedback   = "Please write some feedback before submitting."
	AnalyzeFailed   = "Analysis failed, please try again."
)

// ExampleTweets are suggested inputs shown behind the examples toggle.
var ExampleTweets = []string{
	"I love this new phone!",
	"This service is terrible.",
	"What a beautiful day!",
}

type resultView struct {
	Label      string
	Confidence string
	Positive   bool
}

type historyView struct {
	Time       string
	Text       string
	Label      string
	Confidence string
}

type pageData struct {
	Title           string
	Tweet           string
	Result          *resultView
	Warning         string
	ShowExamples    bool
	ShowHistory     bool
	Examples        []string
	History         []historyView
	EmptyHistoryMsg string
	Feedback        string
	FeedbackThanks  string
	FeedbackWarning string
}

// WebHandler serves the HTML interface. Sessions are tracked with a cookie.
type WebHandler struct {
	sentiment  *sentimentuc.Service
	sessions   *sessionuc.Store
	feedback   *feedbackuc.Service
	cookieName string
	templates  *template.Template
	logger     *zap.Logger
}

// NewWebHandler parses the embedded templates once.
func NewWebHandler(
	sentiment *sentimentuc.Service,
	sessions *sessionuc.Store,
	feedback *feedbackuc.Service,
	cookieName string,
	logger *zap.Logger,
) (*WebHandler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("index.html").
		Funcs(template.FuncMap{"pct": FormatConfidence}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err //nolint:wrapcheck // embedded templates, fails only on a broken build
	}
	return &WebHandler{
		sentiment:  sentiment,
		sessions:   sessions,
		feedback:   feedback,
		cookieName: cookieName,
		templates:  tmpl,
		logger:     logger,
	}, nil
}

// HandleIndex renders the page. ?examples=1 and ?history=1 open the toggles.
func (h *WebHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	data := h.basePage(r, sess)
	h.render(w, http.StatusOK, data)
}

// HandleAnalyze classifies the submitted tweet and renders the result.
func (h *WebHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	sess := h.session(w, r)
	tweet := r.PostFormValue("tweet")
	status := http.StatusOK

	var view *resultView
	var warning string

	res, err := h.sentiment.Analyze(withSessionLogger(r, h.logger, sess.ID()), sess.History(), tweet)
	switch {
	case err == nil:
		view = &resultView{
			Label:      string(res.Label()),
			Confidence: FormatConfidence(res.Confidence()),
			Positive:   res.Label() == domain.Positive,
		}
	case errors.Is(err, domain.ErrEmptyInput):
		warning = EmptyTweetMsg
	case errors.Is(err, domain.ErrVectorizer):
		h.logger.Warn("Analysis failed", zap.Error(err))
		warning = AnalyzeFailed
		status = http.StatusBadGateway
	default:
		h.logger.Error("Analysis failed", zap.Error(err))
		warning = AnalyzeFailed
		status = http.StatusInternalServerError
	}

	data := h.basePage(r, sess)
	data.Tweet = tweet
	data.Result = view
	data.Warning = warning
	h.render(w, status, data)
}

// HandleFeedback accepts a feedback comment.
func (h *WebHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	sess := h.session(w, r)
	data := h.basePage(r, sess)

	text := r.PostFormValue("feedback")
	if err := h.feedback.Submit(withSessionLogger(r, h.logger, sess.ID()), text); err != nil {
		data.Feedback = text
		data.FeedbackWarning = EmptyFeedback
	} else {
		data.FeedbackThanks = FeedbackThanks
	}
	h.render(w, http.StatusOK, data)
}

// HandleEndSession discards the browser session and its history.
func (h *WebHandler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.cookieName); err == nil && c.Value != "" {
		_ = h.sessions.End(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// session returns the cookie session, starting a new one when the cookie is missing or stale.
func (h *WebHandler) session(w http.ResponseWriter, r *http.Request) *sessionuc.Session {
	var id string
	if c, err := r.Cookie(h.cookieName); err == nil {
		id = c.Value
	}

	sess, created := h.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookieName,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(SessionHeader, sess.ID())
	return sess
}

func (h *WebHandler) basePage(r *http.Request, sess *sessionuc.Session) pageData {
	data := pageData{
		Title:           PageTitle,
		ShowExamples:    toggle(r, "examples"),
		ShowHistory:     toggle(r, "history"),
		Examples:        ExampleTweets,
		EmptyHistoryMsg: EmptyHistoryMsg,
	}
	if data.ShowHistory {
		for _, e := range sess.History().Entries() {
			data.History = append(data.History, historyView{
				Time:       e.Timestamp(),
				Text:       e.Text(),
				Label:      string(e.Label()),
				Confidence: FormatConfidence(e.Confidence()),
			})
		}
	}
	return data
}

func (h *WebHandler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.logger.Error("Failed to render template", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// toggle reads a checkbox-style flag from the query string or the posted form.
func toggle(r *http.Request, name string) bool {
	v := r.FormValue(name)
	if v == "" {
		v = r.URL.Query().Get(name)
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b || v == "on"
}

// FormatConfidence renders a percentage the way it is shown to users: 87.66, 50.0.
func FormatConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
