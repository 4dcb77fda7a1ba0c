package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
	model  string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGemini_Score(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("0.82\n")}
	g := newGemini(gen, GeminiOptions{MaxTextRunes: 10, MaxLogLength: 50})

	score, err := g.Score(context.Background(), "Experienced Go developer", "Backend role")
	require.NoError(t, err)
	assert.Equal(t, 0.82, score)
	assert.Equal(t, defaultGeminiModel, gen.model)
	assert.Contains(t, gen.prompt, "Resume:\nExperience\n")
	assert.Equal(t, "gemini:"+defaultGeminiModel, g.Name())
}

func TestGemini_TruncatesToRuneLimit(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("0.5")}
	g := newGemini(gen, GeminiOptions{MaxTextRunes: 1500})

	long := make([]rune, 0, 3000)
	for i := 0; i < 3000; i++ {
		long = append(long, 'ж')
	}
	_, err := g.Score(context.Background(), string(long), "job")
	require.NoError(t, err)

	overhead := utf8.RuneCountInString(BuildPrompt("", "job"))
	assert.Equal(t, overhead+1500, utf8.RuneCountInString(gen.prompt))
}

func TestGemini_Failures(t *testing.T) {
	tests := []struct {
		name   string
		gen    *fakeGenerator
		kind   Kind
		status int
	}{
		{name: "api error", gen: &fakeGenerator{err: genai.APIError{Code: 503, Message: "overloaded"}}, kind: KindStatus, status: 503},
		{name: "transport", gen: &fakeGenerator{err: errors.New("dial tcp: i/o timeout")}, kind: KindTransport},
		{name: "no candidates", gen: &fakeGenerator{resp: &genai.GenerateContentResponse{}}, kind: KindMalformedBody},
		{name: "nil response", gen: &fakeGenerator{}, kind: KindMalformedBody},
		{name: "empty text", gen: &fakeGenerator{resp: textResponse("   ")}, kind: KindMalformedBody},
		{name: "not a number", gen: &fakeGenerator{resp: textResponse("high similarity")}, kind: KindMalformedScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(tt.gen, GeminiOptions{})
			_, err := g.Score(context.Background(), "r", "j")

			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.status, f.StatusCode)
		})
	}
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiOptions{APIKey: "  "})
	assert.Error(t, err)
}

func TestGemini_UndecodableBodyIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("<html>definitely not json"))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Score(context.Background(), "resume", "job")
	assert.Equal(t, KindMalformedBody, KindOf(err))
	assert.False(t, IsTransient(err))
}
