package handler

import (
	"io"

	"job-matcher/internal/delivery/http/dto"
	"job-matcher/internal/delivery/http/middleware"
	"job-matcher/internal/pkg/response"
	"job-matcher/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const maxResumeBytes = 1 << 20

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/resumes", h.HandleUpload)
}

// HandleUpload stores the multipart "file" field as a resume.
func (h *ResumeHandler) HandleUpload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}
	if fh.Size > maxResumeBytes {
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "Resume too large", nil, nil)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxResumeBytes))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}

	var owner *int64
	if uid, ok := middleware.UserID(c); ok {
		owner = &uid
	}

	id, err := h.uc.Upload(c.Context(), owner, raw)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Write(c, fiber.StatusCreated, response.MessageCreated, dto.ResumeUploadResponse{ResumeID: id})
}
