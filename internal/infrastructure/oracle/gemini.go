package oracle

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"job-matcher/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ProviderGemini     = "gemini"
	defaultGeminiModel = "gemini-2.0-flash"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	models    contentGenerator
	model     string
	maxRunes  int
	maxLogLen int
	timeout   time.Duration
	logger    *zap.Logger
}

type GeminiOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	MaxTextRunes int
	MaxLogLength int
	Timeout      time.Duration
	Logger       *zap.Logger
}

func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions.BaseURL = base
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return newGemini(client.Models, opts), nil
}

func newGemini(models contentGenerator, opts GeminiOptions) *Gemini {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Gemini{
		models:    models,
		model:     model,
		maxRunes:  opts.MaxTextRunes,
		maxLogLen: opts.MaxLogLength,
		timeout:   opts.Timeout,
		logger:    l,
	}
}

func (g *Gemini) Name() string {
	return ProviderGemini + ":" + g.model
}

func (g *Gemini) MaxTextRunes() int {
	return g.maxRunes
}

func (g *Gemini) Score(ctx context.Context, resumeText, jobText string) (float64, error) {
	prompt := BuildPrompt(Truncate(resumeText, g.maxRunes), Truncate(jobText, g.maxRunes))

	g.logger.Debug("gemini generate content request",
		zap.String("model", g.model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return 0, classifyGeminiError(err)
	}

	raw, err := geminiText(resp)
	if err != nil {
		return 0, err
	}

	g.logger.Debug("gemini generate content response",
		zap.String("model", g.model),
		zap.String("response_preview", logger.Truncate(raw, g.maxLogLen)),
	)

	return ParseScore(ProviderGemini, raw)
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Failure{Kind: KindStatus, Provider: ProviderGemini, StatusCode: apiErr.Code, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &Failure{Kind: KindStatus, Provider: ProviderGemini, StatusCode: apiErrPtr.Code, Err: err}
	}
	if isDecodeError(err) {
		return &Failure{Kind: KindMalformedBody, Provider: ProviderGemini, Err: err}
	}
	return &Failure{Kind: KindTransport, Provider: ProviderGemini, Err: err}
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &Failure{Kind: KindMalformedBody, Provider: ProviderGemini, Err: errors.New("no candidates")}
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", &Failure{Kind: KindMalformedBody, Provider: ProviderGemini, Err: errors.New("no text part")}
}
