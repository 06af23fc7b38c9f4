package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/briteco/brief/internal/logger"
	"github.com/briteco/brief/internal/styleguide"
)

// Collaborator supplies researched source material per newsletter section.
// It may return an empty slice; citation-requiring sections then fail
// downstream with an insufficient-source error.
type Collaborator interface {
	Topics(ctx context.Context) ([]Topic, error)
	Articles(ctx context.Context, topic string) ([]Item, error)
	ClaimsStories(ctx context.Context) ([]Item, error)
	Roundup(ctx context.Context) ([]Item, error)
	AgentTips(ctx context.Context, topicHint string) ([]Item, error)
}

// Client searches insurance news through a Perplexity-compatible
// chat completions endpoint.
type Client struct {
	api     *openai.Client
	model   string
	sources []string
}

// NewClient builds a research client. baseURL normally points at
// api.perplexity.ai; any OpenAI-compatible endpoint works.
func NewClient(apiKey, baseURL, model string, sources []string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("research api key missing")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "sonar-pro"
	}
	if len(sources) == 0 {
		sources = styleguide.NewsSources
	}
	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		sources: sources,
	}, nil
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("research request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("research request returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Topics scans the configured news sources for trending P&C angles.
func (c *Client) Topics(ctx context.Context) ([]Topic, error) {
	prompt := fmt.Sprintf(`Search the following insurance news sources for the most relevant and trending stories from the past 2 weeks:
%s

Focus ONLY on:
- %s

EXCLUDE completely:
- %s

Return 6-8 distinct topic ideas as a JSON array with this format:
[
  {
    "topic": "Brief topic title (5-10 words)",
    "description": "2-3 sentence summary of the news angle",
    "relevance": "Why this matters for insurance agents",
    "sources_hint": ["Source1", "Source2"]
  }
]

Return ONLY the JSON array, no other text.`,
		strings.Join(c.sources, ", "),
		strings.Join(styleguide.IncludeTopics, "\n- "),
		strings.Join(styleguide.ExcludeTopics, "\n- "))

	content, err := c.complete(ctx, prompt, 0.3)
	if err != nil {
		return nil, err
	}

	var topics []Topic
	if err := unmarshalFenced(content, &topics); err != nil {
		return nil, err
	}
	logger.Info("[RESEARCH] found %d topics", len(topics))
	return topics, nil
}

// Articles dives into a selected topic across the configured sources.
func (c *Client) Articles(ctx context.Context, topic string) ([]Item, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	prompt := fmt.Sprintf(`Research this insurance topic in depth: %q

Search these sources: %s

Find 4-6 recent articles (within past 30 days) that cover different angles of this topic.

For each article, provide the exact title, the source website name, a real working URL,
a 2-3 sentence summary, and key statistics or quotes if available.

Return as JSON array:
[
  {
    "title": "Exact article headline",
    "source": "Source name (e.g., Insurance Journal)",
    "url": "https://full-url-to-article",
    "summary": "2-3 sentence summary",
    "key_points": ["Point 1", "Point 2"],
    "date": "Publication date if available"
  }
]

IMPORTANT: Only include real articles with working URLs. Return ONLY the JSON array.`,
		topic, strings.Join(c.sources, ", "))

	content, err := c.complete(ctx, prompt, 0.2)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Title     string   `json:"title"`
		Source    string   `json:"source"`
		URL       string   `json:"url"`
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
		Date      string   `json:"date"`
	}
	if err := unmarshalFenced(content, &raw); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	for _, a := range raw {
		items = append(items, Item{
			Headline:      a.Title,
			SourceName:    a.Source,
			SourceURL:     a.URL,
			Summary:       a.Summary,
			KeyPoints:     a.KeyPoints,
			PublishedDate: a.Date,
		})
	}
	logger.Info("[RESEARCH] found %d articles for %q", len(items), topic)
	return items, nil
}

// ClaimsStories finds unusual or notable claims stories for Curious Claims.
func (c *Client) ClaimsStories(ctx context.Context) ([]Item, error) {
	prompt := `Search for unusual, interesting, or outrageous insurance claims stories from recent news.

Look for quirky or unexpected claims, large or notable settlements, unusual circumstances,
and interesting legal outcomes that would engage insurance professionals.

Focus on P&C claims (property, auto, liability) - NOT health or life insurance.
US stories preferred.

Return 5-6 story options as JSON:
[
  {
    "headline": "Catchy headline for the story",
    "summary": "2-3 sentence summary of what happened",
    "source": "News source name",
    "url": "URL to the original story",
    "claim_type": "Type of claim (auto, property, liability, etc.)",
    "interest_factor": "What makes this story interesting"
  }
]

Return ONLY the JSON array.`

	content, err := c.complete(ctx, prompt, 0.4)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Headline       string `json:"headline"`
		Summary        string `json:"summary"`
		Source         string `json:"source"`
		URL            string `json:"url"`
		ClaimType      string `json:"claim_type"`
		InterestFactor string `json:"interest_factor"`
	}
	if err := unmarshalFenced(content, &raw); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	for _, s := range raw {
		item := Item{
			Headline:   s.Headline,
			SourceName: s.Source,
			SourceURL:  s.URL,
			Summary:    s.Summary,
			Category:   s.ClaimType,
		}
		if s.InterestFactor != "" {
			item.KeyPoints = []string{s.InterestFactor}
		}
		items = append(items, item)
	}
	logger.Info("[RESEARCH] found %d claims stories", len(items))
	return items, nil
}

// Roundup gathers 5 headline-style items for the news roundup.
func (c *Client) Roundup(ctx context.Context) ([]Item, error) {
	prompt := fmt.Sprintf(`Find 5 recent insurance news headlines that would interest P&C insurance agents.

Search: %s

Requirements:
- Each should be a single, catchy headline-style sentence
- Include a link to the source
- Mix of topics: market trends, regulations, technology, claims, agent business
- US-focused, P&C only (no health, life, international, political)

Return as JSON:
[
  {
    "headline": "Catchy one-sentence news item with key detail or statistic",
    "source": "Source name",
    "url": "Full URL to article",
    "category": "market|regulation|technology|claims|business"
  }
]

Return ONLY 5 items as JSON array.`, strings.Join(c.sources, ", "))

	content, err := c.complete(ctx, prompt, 0.3)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Headline string `json:"headline"`
		Source   string `json:"source"`
		URL      string `json:"url"`
		Category string `json:"category"`
	}
	if err := unmarshalFenced(content, &raw); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, Item{
			Headline:   r.Headline,
			SourceName: r.Source,
			SourceURL:  r.URL,
			Summary:    r.Headline,
			Category:   r.Category,
		})
	}
	logger.Info("[RESEARCH] found %d roundup items", len(items))
	return items, nil
}

// AgentTips researches actionable advice for the Agent Advantage section.
func (c *Client) AgentTips(ctx context.Context, topicHint string) ([]Item, error) {
	topicContext := ""
	if topicHint != "" {
		topicContext = fmt.Sprintf(" related to %q", topicHint)
	}

	prompt := fmt.Sprintf(`Find actionable tips and advice for independent insurance agents%s.

Search for recent articles, guides, or expert advice that help agents grow their
business, improve client relationships, navigate market challenges, use technology
effectively, handle claims better, and increase sales and retention.

Return 5-6 topic options for an "Agent Advantage" newsletter section:
[
  {
    "title": "Tip topic title (5-10 words)",
    "angle": "The specific advice angle",
    "key_points": ["Point 1", "Point 2", "Point 3", "Point 4", "Point 5"],
    "source_articles": ["Article title 1", "Article title 2"],
    "relevance": "Why this matters now for agents"
  }
]

Return ONLY the JSON array.`, topicContext)

	content, err := c.complete(ctx, prompt, 0.4)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Title          string   `json:"title"`
		Angle          string   `json:"angle"`
		KeyPoints      []string `json:"key_points"`
		SourceArticles []string `json:"source_articles"`
		Relevance      string   `json:"relevance"`
	}
	if err := unmarshalFenced(content, &raw); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	for _, t := range raw {
		source := ""
		if len(t.SourceArticles) > 0 {
			source = t.SourceArticles[0]
		}
		items = append(items, Item{
			Headline:   t.Title,
			SourceName: source,
			Summary:    t.Angle + " " + t.Relevance,
			KeyPoints:  t.KeyPoints,
		})
	}
	logger.Info("[RESEARCH] found %d tip topics", len(items))
	return items, nil
}

// unmarshalFenced strips a markdown code fence if the model wrapped its
// JSON in one, then unmarshals.
func unmarshalFenced(content string, v any) error {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("failed to parse research response: %w", err)
	}
	return nil
}
