package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// JobStatus is the lifecycle state of a repurpose job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is one transcript acquisition recorded for later repurposing.
type Job struct {
	ID           int64     `json:"id"`
	VideoID      string    `json:"video_id"`
	YoutubeURL   string    `json:"youtube_url"`
	Language     string    `json:"language"`
	Status       JobStatus `json:"status"`
	Source       string    `json:"source,omitempty"`
	SegmentCount int       `json:"segment_count,omitempty"`
	CharCount    int       `json:"char_count,omitempty"`
	ErrorCode    string    `json:"error_code,omitempty"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

var (
	jobsDB   *sql.DB
	jobsOnce sync.Once
	jobsErr  error
)

// openJobsDB opens (or creates) the SQLite job database.
func openJobsDB() (*sql.DB, error) {
	jobsOnce.Do(func() {
		dbPath := engine.Cfg.JobsDBPath
		if dbPath == "" {
			dir := filepath.Join(os.Getenv("HOME"), ".go_captions")
			if err := os.MkdirAll(dir, 0750); err != nil {
				jobsErr = fmt.Errorf("jobs: mkdir %s: %w", dir, err)
				return
			}
			dbPath = filepath.Join(dir, "jobs.db")
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			jobsErr = fmt.Errorf("jobs: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initJobsSchema(db); err != nil {
			jobsErr = fmt.Errorf("jobs: init schema: %w", err)
			return
		}
		jobsDB = db
	})
	return jobsDB, jobsErr
}

func initJobsSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id      TEXT NOT NULL,
		youtube_url   TEXT NOT NULL,
		language      TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'queued',
		source        TEXT,
		segment_count INTEGER,
		char_count    INTEGER,
		error_code    TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`)
	return err
}

func validStatus(s string) bool {
	switch JobStatus(s) {
	case StatusQueued, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Create records a queued job and returns its id.
func Create(_ context.Context, videoID, youtubeURL, language string) (int64, error) {
	if videoID == "" {
		return 0, errors.New("jobs: video id is required")
	}
	db, err := openJobsDB()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(
		`INSERT INTO jobs (video_id, youtube_url, language, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		videoID, youtubeURL, language, StatusQueued, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("jobs: insert: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// Complete marks a job done and records what the acquisition produced.
func Complete(_ context.Context, id int64, source string, segmentCount, charCount int) error {
	db, err := openJobsDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(
		`UPDATE jobs SET status=?, source=?, segment_count=?, char_count=?, updated_at=? WHERE id=?`,
		StatusCompleted, source, segmentCount, charCount, now, id,
	)
	if err != nil {
		return fmt.Errorf("jobs: complete: %w", err)
	}
	return nil
}

// Fail marks a job failed with the outward error code.
func Fail(_ context.Context, id int64, errorCode string) error {
	db, err := openJobsDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(
		`UPDATE jobs SET status=?, error_code=?, updated_at=? WHERE id=?`,
		StatusFailed, errorCode, now, id,
	)
	if err != nil {
		return fmt.Errorf("jobs: fail: %w", err)
	}
	return nil
}

// Get returns one job by id.
func Get(_ context.Context, id int64) (*Job, error) {
	db, err := openJobsDB()
	if err != nil {
		return nil, err
	}
	row := db.QueryRow(
		`SELECT id, video_id, youtube_url, language, status, source, segment_count, char_count, error_code, created_at, updated_at
		 FROM jobs WHERE id = ?`, id,
	)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("jobs: job %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("jobs: get: %w", err)
	}
	return j, nil
}

// List returns recent jobs, optionally filtered by status.
func List(_ context.Context, status string, limit int) ([]Job, int, error) {
	db, err := openJobsDB()
	if err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var rows *sql.Rows
	if status != "" {
		status = strings.ToLower(status)
		if !validStatus(status) {
			return nil, 0, fmt.Errorf("jobs: invalid status %q (valid: queued, completed, failed)", status)
		}
		rows, err = db.Query(
			`SELECT id, video_id, youtube_url, language, status, source, segment_count, char_count, error_code, created_at, updated_at
			 FROM jobs WHERE status = ? ORDER BY updated_at DESC LIMIT ?`,
			status, limit,
		)
	} else {
		rows, err = db.Query(
			`SELECT id, video_id, youtube_url, language, status, source, segment_count, char_count, error_code, created_at, updated_at
			 FROM jobs ORDER BY updated_at DESC LIMIT ?`,
			limit,
		)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("jobs: query: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			continue
		}
		jobs = append(jobs, *j)
	}

	var total int
	if status != "" {
		db.QueryRow(`SELECT COUNT(*) FROM jobs WHERE status = ?`, status).Scan(&total) //nolint:errcheck
	} else {
		db.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&total) //nolint:errcheck
	}
	return jobs, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var source, errorCode sql.NullString
	var segments, chars sql.NullInt64
	if err := row.Scan(&j.ID, &j.VideoID, &j.YoutubeURL, &j.Language, &j.Status,
		&source, &segments, &chars, &errorCode, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	j.Source = source.String
	j.SegmentCount = int(segments.Int64)
	j.CharCount = int(chars.Int64)
	j.ErrorCode = errorCode.String
	return &j, nil
}
