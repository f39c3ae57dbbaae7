// Package ai explains a selected post with an OpenAI-compatible chat model.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	altai "github.com/sashabaranov/go-openai"

	"huntdash/internal/model"
	"huntdash/internal/util"
	"huntdash/internal/util/logx"
)

var ErrDisabled = errors.New("openai disabled")

type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	cache   *Cache
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{apiKey: apiKey, baseURL: baseURL, model: model, timeout: timeout}
}

// WithCache makes Explain consult and fill c.
func (c *OpenAIClient) WithCache(cache *Cache) *OpenAIClient {
	c.cache = cache
	return c
}

func (c *OpenAIClient) Enabled() bool { return c != nil && c.apiKey != "" }

// Subject is the part of a post the model sees.
type Subject struct {
	Mode       model.Mode
	Title      string
	Text       string
	URL        string
	Category   string
	Confidence float64
	Budget     string
}

func SubjectFromPost(p model.Post) Subject {
	return Subject{Mode: model.ModeDemand, Title: p.Title, Text: p.Text, URL: p.URL, Category: string(p.Category), Confidence: p.Confidence}
}

func SubjectFromTask(t model.TaskPost) Subject {
	s := Subject{Mode: model.ModeTask, Title: t.Title, Text: t.Text, URL: t.URL, Category: string(t.TaskCategory), Confidence: t.Confidence}
	if t.Budget != nil {
		s.Budget = fmt.Sprintf("%g", *t.Budget)
	}
	return s
}

// Key identifies the subject in the cache.
func (s Subject) Key() string {
	if s.URL != "" {
		return string(s.Mode) + "|" + s.URL
	}
	return string(s.Mode) + "|" + s.Title + "|" + s.Text
}

type Explanation struct {
	Summary     string   `json:"summary"`
	Opportunity string   `json:"opportunity"`
	Risks       []string `json:"risks"`
	NextStep    string   `json:"nextStep"`
	Cached      bool     `json:"-"`
}

func (c *OpenAIClient) Explain(ctx context.Context, s Subject) (Explanation, error) {
	if c.cache != nil {
		if e, ok := c.cache.Load(s.Key()); ok {
			e.Cached = true
			return e, nil
		}
	}
	if !c.Enabled() {
		return Explanation{}, ErrDisabled
	}
	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.callAlt(ctx2, buildPrompt(s))
	if err != nil {
		return Explanation{}, fmt.Errorf("explain: %w", err)
	}
	var out Explanation
	if err := json.Unmarshal([]byte(stripFences(resp)), &out); err != nil {
		return Explanation{}, fmt.Errorf("explain: model returned invalid JSON: %w", err)
	}
	if c.cache != nil {
		if err := c.cache.Save(s.Key(), out); err != nil {
			logx.Warnf("ai: cache save failed: %v", err)
		}
	}
	return out, nil
}

func (c *OpenAIClient) callAlt(ctx context.Context, prompt string) (string, error) {
	cfg := altai.DefaultConfig(c.apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cli := altai.NewClientWithConfig(cfg)
	resp, err := cli.CreateChatCompletion(ctx, altai.ChatCompletionRequest{
		Model: c.model,
		Messages: []altai.ChatCompletionMessage{
			{Role: altai.ChatMessageRoleSystem, Content: "You assess Reddit posts for an indie developer looking for product ideas and paid tasks. Return ONLY strict JSON following the specified contract. No prose, no code fences."},
			{Role: altai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:    0.2,
		ResponseFormat: &altai.ChatCompletionResponseFormat{Type: altai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

const maxPromptText = 2000

func buildPrompt(s Subject) string {
	text := util.RedactPII(s.Text)
	if r := []rune(text); len(r) > maxPromptText {
		text = string(r[:maxPromptText])
	}
	var b strings.Builder
	b.WriteString("Return ONLY strict JSON matching this contract: {summary, opportunity, risks:[string], nextStep}.\n")
	if s.Mode == model.ModeTask {
		b.WriteString("The post is a request for paid work. Judge whether it is worth taking and what could go wrong.\n")
	} else {
		b.WriteString("The post may describe an unmet product need. Judge whether it hints at something worth building.\n")
	}
	fmt.Fprintf(&b, "Classifier category: %s (confidence %.2f)\n", s.Category, s.Confidence)
	if s.Budget != "" {
		fmt.Fprintf(&b, "Budget: $%s\n", s.Budget)
	}
	fmt.Fprintf(&b, "Title: %s\nBody:\n%s\n", util.RedactPII(s.Title), text)
	return b.String()
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
