// Package video generates the optional looping video for a run through the
// OpenAI video API: create a job, poll it, download the MP4.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/atra-labs/atra/internal/mood"
)

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultModel        = "sora-2"
	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 60
)

// Config configures a video engine.
type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	OutputDir    string
	PollInterval time.Duration
	MaxPolls     int
	HTTPClient   *http.Client
}

// Engine runs the create-poll-download flow for one video job.
type Engine struct {
	apiKey       string
	model        string
	baseURL      string
	outputDir    string
	pollInterval time.Duration
	maxPolls     int
	httpClient   *http.Client
}

// NewEngine creates a video engine, filling config defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = defaultMaxPolls
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Engine{
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		baseURL:      cfg.BaseURL,
		outputDir:    cfg.OutputDir,
		pollInterval: cfg.PollInterval,
		maxPolls:     cfg.MaxPolls,
		httpClient:   cfg.HTTPClient,
	}
}

type job struct {
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Error  *jobError `json:"error"`
}

type jobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Seconds string `json:"seconds"`
}

// Generate runs one video job for the prompt and mood and returns the local
// MP4 path. Any failure is an error; the caller decides whether to degrade.
func (e *Engine) Generate(ctx context.Context, prompt string, m mood.Mood) (string, error) {
	if e.apiKey == "" {
		return "", errors.New("API key required: set OPENAI_API_KEY")
	}

	soraPrompt := buildSoraPrompt(prompt, m, time.Now().Weekday())

	created, err := e.createJob(ctx, soraPrompt)
	if err != nil {
		return "", err
	}

	completed, err := e.awaitJob(ctx, created.ID)
	if err != nil {
		return "", err
	}

	return e.download(ctx, completed.ID)
}

func (e *Engine) createJob(ctx context.Context, prompt string) (*job, error) {
	body := createRequest{
		Model:   e.model,
		Prompt:  prompt,
		Size:    "1080x1920",
		Seconds: "6",
	}

	var created job
	if err := e.doJSON(ctx, http.MethodPost, e.baseURL+"/videos", body, &created); err != nil {
		return nil, fmt.Errorf("failed to create video job: %w", err)
	}
	if created.ID == "" {
		return nil, errors.New("video job response missing id")
	}
	return &created, nil
}

func (e *Engine) awaitJob(ctx context.Context, id string) (*job, error) {
	for poll := 0; poll < e.maxPolls; poll++ {
		var current job
		if err := e.doJSON(ctx, http.MethodGet, e.baseURL+"/videos/"+id, nil, &current); err != nil {
			return nil, fmt.Errorf("failed to poll video job: %w", err)
		}

		switch current.Status {
		case "completed":
			return &current, nil
		case "failed":
			reason := "unknown"
			if current.Error != nil {
				reason = current.Error.Message
			}
			return nil, fmt.Errorf("video generation failed: %s", reason)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.pollInterval):
		}
	}
	return nil, fmt.Errorf("video job %s still processing after %d polls", id, e.maxPolls)
}

func (e *Engine) download(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/videos/"+id+"/content?variant=video", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download video content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("video download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create video output directory: %w", err)
	}

	path := filepath.Join(e.outputDir, fmt.Sprintf("atra_video_%s.mp4", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create video file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write video file: %w", err)
	}
	return path, nil
}

func (e *Engine) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
