package capserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_captions/internal/engine"
	"github.com/anatolykoptev/go_captions/internal/engine/captions"
	"github.com/anatolykoptev/go_captions/internal/engine/jobs"
)

// JobStartInput is the input for repurpose_job_start.
type JobStartInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL or bare 11-character video ID"`
	Language string `json:"language,omitempty" jsonschema:"Preferred caption language code. Empty = best available"`
}

// JobStartOutput is the output for repurpose_job_start.
type JobStartOutput struct {
	JobID   int64  `json:"job_id"`
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JobGetInput is the input for repurpose_job_get.
type JobGetInput struct {
	JobID int64 `json:"job_id" jsonschema:"Job id returned by repurpose_job_start"`
}

// JobListInput is the input for repurpose_job_list.
type JobListInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: queued, completed, failed"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max jobs to return (default 50, cap 100)"`
}

// JobListOutput is the output for repurpose_job_list.
type JobListOutput struct {
	Jobs  []jobs.Job `json:"jobs"`
	Total int        `json:"total"`
}

func registerJobStart(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "repurpose_job_start",
		Description: "Record a transcript acquisition job for a YouTube video, run the acquisition, and store the outcome (source, segment and character counts, or error code). Returns the job id for repurpose_job_get.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobStartInput) (*mcp.CallToolResult, JobStartOutput, error) {
		if input.URL == "" {
			return nil, JobStartOutput{}, errors.New("url is required")
		}
		videoID := captions.ExtractVideoID(input.URL)
		if videoID == "" {
			return nil, JobStartOutput{}, errors.New("invalid YouTube URL")
		}
		lang := input.Language
		if lang == "" {
			lang = engine.Cfg.PreferredLanguage
		}
		lang = engine.NormLang(lang)

		jobID, err := jobs.Create(ctx, videoID, input.URL, lang)
		if err != nil {
			return nil, JobStartOutput{}, err
		}

		result, err := captions.FetchTranscriptByID(ctx, videoID, lang)
		if err != nil {
			code := string(captions.CodeOf(err))
			if ferr := jobs.Fail(ctx, jobID, code); ferr != nil {
				slog.Warn("repurpose_job_start: fail update", slog.Any("error", ferr))
			}
			return nil, JobStartOutput{
				JobID:   jobID,
				VideoID: videoID,
				Status:  string(jobs.StatusFailed),
				Message: fmt.Sprintf("acquisition failed: %s", code),
			}, nil
		}

		charCount := len(result.FullText())
		if err := jobs.Complete(ctx, jobID, result.Source, len(result.Captions), charCount); err != nil {
			slog.Warn("repurpose_job_start: complete update", slog.Any("error", err))
		}
		return nil, JobStartOutput{
			JobID:   jobID,
			VideoID: videoID,
			Status:  string(jobs.StatusCompleted),
			Message: fmt.Sprintf("transcript acquired via %s: %d segments, %d chars", result.Source, len(result.Captions), charCount),
		}, nil
	})
}

func registerJobGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "repurpose_job_get",
		Description: "Get one transcript acquisition job by id, including its status, acquisition source, and segment/character counts.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobGetInput) (*mcp.CallToolResult, *jobs.Job, error) {
		if input.JobID <= 0 {
			return nil, nil, errors.New("job_id is required")
		}
		job, err := jobs.Get(ctx, input.JobID)
		if err != nil {
			return nil, nil, err
		}
		return nil, job, nil
	})
}

func registerJobList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "repurpose_job_list",
		Description: "List transcript acquisition jobs, most recently updated first. Optionally filter by status: queued, completed, failed.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobListInput) (*mcp.CallToolResult, JobListOutput, error) {
		list, total, err := jobs.List(ctx, input.Status, input.Limit)
		if err != nil {
			return nil, JobListOutput{}, err
		}
		return nil, JobListOutput{Jobs: list, Total: total}, nil
	})
}
