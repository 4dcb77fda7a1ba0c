// Package oracle talks to the external text-similarity service. A Client makes
// exactly one outbound call per Score and classifies every failure; retrying is
// the caller's business.
package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const DefaultMaxTextRunes = 1500

type Kind int

const (
	KindTransport Kind = iota + 1
	KindStatus
	KindMalformedBody
	KindMalformedScore
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformedBody:
		return "malformed_body"
	case KindMalformedScore:
		return "malformed_score"
	default:
		return "unknown"
	}
}

var (
	ErrTransport      = errors.New("oracle transport failure")
	ErrStatus         = errors.New("oracle returned non-success status")
	ErrMalformedBody  = errors.New("oracle response body is malformed")
	ErrMalformedScore = errors.New("oracle score is not a number")
)

// Failure is the error every Client returns.
type Failure struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString(f.Provider)
	b.WriteString(": ")
	b.WriteString(f.Kind.String())
	if f.StatusCode > 0 {
		fmt.Fprintf(&b, " (status %d)", f.StatusCode)
	}
	if f.Err != nil {
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) Is(target error) bool {
	switch target {
	case ErrTransport:
		return f.Kind == KindTransport
	case ErrStatus:
		return f.Kind == KindStatus
	case ErrMalformedBody:
		return f.Kind == KindMalformedBody
	case ErrMalformedScore:
		return f.Kind == KindMalformedScore
	}
	return false
}

// IsTransient reports whether err is worth another attempt: transport and status failures are.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrStatus)
}

// KindOf returns the failure kind carried by err, or 0 when err is not a Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

// isDecodeError reports whether err came from decoding a response body the
// provider answered with, as opposed to failing to get one.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// Truncate cuts s to at most n runes. Invalid UTF-8 is replaced first so the
// prefix never ends inside a broken sequence.
func Truncate(s string, n int) string {
	if n <= 0 {
		n = DefaultMaxTextRunes
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

const promptTemplate = "Rate the similarity between the following resume and job description from 0.0 to 1.0. " +
	"Only respond with a number.\n\nResume:\n%s\n\nJob:\n%s\n\nScore:"

// BuildPrompt expects already truncated texts.
func BuildPrompt(resumeText, jobText string) string {
	return fmt.Sprintf(promptTemplate, resumeText, jobText)
}

var numberRe = regexp.MustCompile(`[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`)

// ParseScore extracts the first numeric token of an oracle answer.
func ParseScore(provider, raw string) (float64, error) {
	token := numberRe.FindString(strings.TrimSpace(raw))
	if token == "" {
		return 0, &Failure{Kind: KindMalformedScore, Provider: provider, Err: fmt.Errorf("no number in %q", clip(raw))}
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, &Failure{Kind: KindMalformedScore, Provider: provider, Err: err}
	}
	return v, nil
}

func clip(s string) string {
	const max = 64
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return Truncate(s, max) + "..."
}
