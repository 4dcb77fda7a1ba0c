package handler

import (
	"time"

	"job-matcher/internal/delivery/http/dto"
	"job-matcher/internal/delivery/http/middleware"
	"job-matcher/internal/pkg/response"
	"job-matcher/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match_jobs", h.HandleMatchJobs)
	r.Get("/resumes/:resume_id/matches", h.HandleListMatches)
}

func (h *MatchHandler) HandleMatchJobs(c fiber.Ctx) error {
	var req dto.MatchJobsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.ResumeID <= 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "resume_id is required", nil, nil)
	}

	ranked, err := h.uc.Match(c.Context(), req.ResumeID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.MatchJobsResponse{Matches: make([]dto.MatchResponse, 0, len(ranked))}
	for _, m := range ranked {
		out.Matches = append(out.Matches, dto.MatchResponse{JobID: m.JobID, Title: m.Title, Score: m.Score})
	}
	return response.OK(c, out)
}

func (h *MatchHandler) HandleListMatches(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c, "resume_id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListMatches(c.Context(), resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.StoredMatchesResponse{ResumeID: resumeID, Matches: make([]dto.StoredMatchResponse, 0, len(items))}
	for _, m := range items {
		out.Matches = append(out.Matches, dto.StoredMatchResponse{
			JobID:     m.JobID,
			Score:     m.Score,
			MatchedAt: m.MatchedAt.UTC().Format(time.RFC3339),
		})
	}
	return response.OK(c, out)
}
