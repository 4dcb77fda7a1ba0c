package usecase

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrResumeNotFound = errors.New("resume not found")
	ErrJobNotFound    = errors.New("job not found")
	ErrEmptyResume    = errors.New("resume has no readable text")
	ErrUnknownOwner   = errors.New("resume owner does not exist")
)
