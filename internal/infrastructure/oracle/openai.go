package oracle

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"job-matcher/internal/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const (
	ProviderOpenAI     = "openai"
	defaultOpenAIModel = "gpt-4o-mini"
)

type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI scores through any OpenAI-compatible chat completion endpoint.
type OpenAI struct {
	completions chatCompleter
	model       string
	maxRunes    int
	maxLogLen   int
	timeout     time.Duration
	logger      *zap.Logger
}

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	MaxTextRunes int
	MaxLogLength int
	Timeout      time.Duration
	Logger       *zap.Logger
}

func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	client := openai.NewClient(reqOpts...)

	return newOpenAI(client.Chat.Completions, opts), nil
}

func newOpenAI(completions chatCompleter, opts OpenAIOptions) *OpenAI {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &OpenAI{
		completions: completions,
		model:       model,
		maxRunes:    opts.MaxTextRunes,
		maxLogLen:   opts.MaxLogLength,
		timeout:     opts.Timeout,
		logger:      l,
	}
}

func (o *OpenAI) Name() string {
	return ProviderOpenAI + ":" + o.model
}

func (o *OpenAI) MaxTextRunes() int {
	return o.maxRunes
}

func (o *OpenAI) Score(ctx context.Context, resumeText, jobText string) (float64, error) {
	prompt := BuildPrompt(Truncate(resumeText, o.maxRunes), Truncate(jobText, o.maxRunes))

	o.logger.Debug("openai chat completion request",
		zap.String("model", o.model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model:       openai.F(o.model),
		Temperature: openai.F(0.0),
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var httpResp *http.Response
	resp, err := o.completions.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		return 0, classifyOpenAIError(err, httpResp)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return 0, &Failure{Kind: KindMalformedBody, Provider: ProviderOpenAI, Err: errors.New("no choices")}
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if raw == "" {
		return 0, &Failure{Kind: KindMalformedBody, Provider: ProviderOpenAI, Err: errors.New("empty message content")}
	}

	o.logger.Debug("openai chat completion response",
		zap.String("model", o.model),
		zap.String("response_preview", logger.Truncate(raw, o.maxLogLen)),
	)

	return ParseScore(ProviderOpenAI, raw)
}

// classifyOpenAIError maps SDK errors onto failure kinds. resp is the raw
// response when one arrived; a 2xx with an error means the body was unusable.
func classifyOpenAIError(err error, resp *http.Response) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return &Failure{Kind: KindStatus, Provider: ProviderOpenAI, StatusCode: apiErr.StatusCode, Err: err}
	}
	if isDecodeError(err) {
		return &Failure{Kind: KindMalformedBody, Provider: ProviderOpenAI, Err: err}
	}
	if resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 &&
		!errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return &Failure{Kind: KindMalformedBody, Provider: ProviderOpenAI, Err: err}
	}
	return &Failure{Kind: KindTransport, Provider: ProviderOpenAI, Err: err}
}
