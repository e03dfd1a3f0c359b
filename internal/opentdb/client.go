// Package opentdb is a trivia.Source backed by the Open Trivia DB HTTP API.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/trivia/internal/trivia"
)

const (
	// DefaultBaseURL is the public Open Trivia DB endpoint.
	DefaultBaseURL = "https://opentdb.com"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to api_category.php and api.php.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ trivia.Source = (*Client)(nil)

// New creates a Client. Zero config fields fall back to defaults.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, http: hc}
}

// Name returns "opentdb".
func (c *Client) Name() string { return "opentdb" }

type categoriesPayload struct {
	TriviaCategories []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"trivia_categories"`
}

type questionsPayload struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Type             string   `json:"type"`
		Difficulty       string   `json:"difficulty"`
		Category         string   `json:"category"`
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	raw, err := c.get(ctx, "categories", "/api_category.php", nil)
	if err != nil {
		return nil, err
	}
	if err := validatePayload("categories", raw); err != nil {
		return nil, unavailable("categories", err)
	}

	var p categoriesPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, unavailable("categories", err)
	}

	cats := make([]trivia.Category, 0, len(p.TriviaCategories))
	for _, tc := range p.TriviaCategories {
		cats = append(cats, trivia.Category{ID: tc.ID, Name: tc.Name})
	}
	return cats, nil
}

// FetchQuestions fetches one batch for the given settings.
func (c *Client) FetchQuestions(ctx context.Context, s trivia.Settings) ([]trivia.Question, error) {
	raw, err := c.get(ctx, "questions", "/api.php", QueryFor(s))
	if err != nil {
		return nil, err
	}
	if err := validatePayload("questions", raw); err != nil {
		return nil, unavailable("questions", err)
	}

	var p questionsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, unavailable("questions", err)
	}
	if p.ResponseCode != CodeSuccess {
		return nil, &ResponseCodeError{Code: p.ResponseCode}
	}

	qs := make([]trivia.Question, 0, len(p.Results))
	for _, r := range p.Results {
		q := trivia.Question{
			Prompt:           r.Question,
			Category:         r.Category,
			Difficulty:       trivia.Difficulty(r.Difficulty),
			Type:             trivia.AnswerType(r.Type),
			CorrectAnswer:    r.CorrectAnswer,
			IncorrectAnswers: r.IncorrectAnswers,
		}
		qs = append(qs, q.Decoded())
	}
	return qs, nil
}

// QueryFor builds the api.php query for the given settings. Empty fields
// are omitted so the API applies its own defaults.
func QueryFor(s trivia.Settings) url.Values {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(s.Amount))
	if s.Category != "" {
		q.Set("category", s.Category)
	}
	if s.Difficulty != "" {
		q.Set("difficulty", string(s.Difficulty))
	}
	if s.Type != "" {
		q.Set("type", string(s.Type))
	}
	return q
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("opentdb %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: op}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, unavailable(op, err)
	}
	return raw, nil
}
