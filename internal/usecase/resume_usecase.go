package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"job-matcher/internal/repository"

	"go.uber.org/zap"
)

type ResumeUsecase interface {
	Upload(ctx context.Context, ownerID *int64, raw []byte) (int64, error)
}

type Resumes struct {
	repo   repository.ResumeRepository
	logger *zap.Logger
}

func NewResumeUsecase(repo repository.ResumeRepository, logger *zap.Logger) *Resumes {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resumes{repo: repo, logger: logger}
}

// Upload stores raw as the resume text. Bytes that are not valid UTF-8 are dropped.
func (u *Resumes) Upload(ctx context.Context, ownerID *int64, raw []byte) (int64, error) {
	content := DecodeResumeText(raw)
	if content == "" {
		return 0, ErrEmptyResume
	}

	id, err := u.repo.Create(ctx, ownerID, content)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownOwner) {
			return 0, ErrUnknownOwner
		}
		return 0, fmt.Errorf("create resume: %w", err)
	}
	u.logger.Info("resume stored", zap.Int64("resume_id", id), zap.Int("runes", utf8.RuneCountInString(content)))
	return id, nil
}

func DecodeResumeText(raw []byte) string {
	s := string(raw)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
