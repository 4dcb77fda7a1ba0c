package oracle

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{raw: "0.85", want: 0.85},
		{raw: " 0.3\n", want: 0.3},
		{raw: "Score: 0.72", want: 0.72},
		{raw: "1", want: 1},
		{raw: ".5", want: 0.5},
		{raw: "-0.2", want: -0.2},
		{raw: "85", want: 85},
		{raw: "7e-1 is my answer", want: 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseScore("test", tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseScore_NoNumber(t *testing.T) {
	_, err := ParseScore("test", "I cannot rate this.")
	assert.ErrorIs(t, err, ErrMalformedScore)
	assert.Equal(t, KindMalformedScore, KindOf(err))
	assert.False(t, IsTransient(err))
}

func TestParseScore_NoNumberKeepsRunesWhole(t *testing.T) {
	_, err := ParseScore("test", strings.Repeat("日本語", 40))
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "...")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 2000)
	got := Truncate(long, 1500)
	assert.Equal(t, 1500, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "short", Truncate("short", 1500))
	assert.Equal(t, 1500, utf8.RuneCountInString(Truncate(strings.Repeat("a", 1600), 0)))
	assert.True(t, utf8.ValidString(Truncate("ab\xffcd", 10)))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("my resume", "the job")
	assert.Contains(t, p, "from 0.0 to 1.0")
	assert.Contains(t, p, "Resume:\nmy resume")
	assert.Contains(t, p, "Job:\nthe job")
	assert.True(t, strings.HasSuffix(p, "Score:"))
}

func TestFailureClassification(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	tests := []struct {
		kind      Kind
		sentinel  error
		transient bool
	}{
		{KindTransport, ErrTransport, true},
		{KindStatus, ErrStatus, true},
		{KindMalformedBody, ErrMalformedBody, false},
		{KindMalformedScore, ErrMalformedScore, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			var err error = &Failure{Kind: tt.kind, Provider: "gemini", StatusCode: 503, Err: cause}
			wrapped := errors.Join(errors.New("context"), err)

			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.ErrorIs(t, wrapped, cause)
			assert.Equal(t, tt.transient, IsTransient(wrapped))
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}

	assert.False(t, IsTransient(cause))
	assert.Equal(t, Kind(0), KindOf(cause))
	assert.Contains(t, (&Failure{Kind: KindStatus, Provider: "openai", StatusCode: 429}).Error(), "status 429")
}
