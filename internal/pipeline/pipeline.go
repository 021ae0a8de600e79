// Package pipeline sequences one end-to-end content production run: mood
// selection, prompt and media generation, upload, run logging, captions, and
// dispatch to the posting webhook.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atra-labs/atra/internal/dispatch"
	"github.com/atra-labs/atra/internal/mood"
)

// MediaType declares what kind of asset a run publishes.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Collaborator interfaces. Concrete clients are constructed by the caller and
// injected, so tests can substitute fakes without process-wide state.
type (
	// MoodPicker selects and persists the personality mode for a run.
	MoodPicker interface {
		Pick(now time.Time) (mood.Mood, error)
	}

	// PromptWriter generates the journaling prompt for a mood.
	PromptWriter interface {
		GeneratePrompt(ctx context.Context, m mood.Mood) (string, error)
	}

	// Captioner generates the per-platform captions.
	Captioner interface {
		InstagramCaption(ctx context.Context, prompt string, m mood.Mood) (string, error)
		FacebookCaption(ctx context.Context, prompt string, m mood.Mood) (string, error)
	}

	// ImageGenerator renders the run's image and returns a local path.
	ImageGenerator interface {
		Generate(ctx context.Context, prompt string, m mood.Mood) (string, error)
	}

	// VideoGenerator renders the optional looping video and returns a local
	// path.
	VideoGenerator interface {
		Generate(ctx context.Context, prompt string, m mood.Mood) (string, error)
	}

	// Uploader pushes local assets to the CDN.
	Uploader interface {
		UploadImage(ctx context.Context, path string) (string, error)
		UploadVideo(ctx context.Context, path string) (string, error)
	}

	// RunLogger records prompt + published URL externally.
	RunLogger interface {
		Append(ctx context.Context, prompt, mediaURL string) error
	}

	// Dispatcher delivers the finished payload to the posting webhook.
	Dispatcher interface {
		Send(ctx context.Context, post dispatch.Post) error
	}
)

// Run is the ephemeral record threaded through one execution.
type Run struct {
	ID               string
	StartedAt        time.Time
	Mood             mood.Mood
	Prompt           string
	MediaPath        string
	MediaType        MediaType
	MediaURL         string
	InstagramCaption string
	FacebookCaption  string
}

// failurePolicy declares how the orchestrator treats a step failure.
type failurePolicy string

const (
	// policyFatal aborts the run.
	policyFatal failurePolicy = "fatal"
	// policyDegrade logs and continues on the previously published media.
	policyDegrade failurePolicy = "degrade"
	// policyBestEffort logs and continues; the step's outcome never affects
	// the run result.
	policyBestEffort failurePolicy = "best-effort"
)

type step struct {
	name   string
	policy failurePolicy
	fn     func(ctx context.Context, run *Run) error
}

// Pipeline owns the collaborators for one run at a time.
type Pipeline struct {
	Moods    MoodPicker
	Writer   PromptWriter
	Captions Captioner
	Images   ImageGenerator
	Videos   VideoGenerator // nil disables video augmentation
	Uploads  Uploader
	RunLog   RunLogger // nil disables sheet logging
	Dispatch Dispatcher

	Logger    *slog.Logger
	SkipVideo bool

	// Now is the clock; tests pin it.
	Now func() time.Time
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) clock() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Execute performs one full pass. The returned Run carries whatever the run
// produced, even when err is non-nil.
func (p *Pipeline) Execute(ctx context.Context) (*Run, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: p.clock(),
	}
	log := p.logger().With("run_id", run.ID)
	log.Info("starting content run")

	for _, st := range p.steps() {
		err := st.fn(ctx, run)
		if err == nil {
			continue
		}

		switch st.policy {
		case policyFatal:
			log.Error("run aborted", "step", st.name, "error", err)
			return run, fmt.Errorf("%s: %w", st.name, err)
		case policyDegrade:
			log.Warn("step failed, continuing with current media", "step", st.name, "error", err)
		case policyBestEffort:
			log.Warn("best-effort step failed", "step", st.name, "error", err)
		}
	}

	log.Info("run complete",
		"mood", run.Mood,
		"media_type", run.MediaType,
		"media_url", run.MediaURL,
	)
	return run, nil
}

// steps is the run's control flow: each step's failure policy is declared
// here rather than buried in scattered error handling.
func (p *Pipeline) steps() []step {
	return []step{
		{name: "select mood", policy: policyFatal, fn: p.selectMood},
		{name: "generate prompt", policy: policyFatal, fn: p.generatePrompt},
		{name: "generate image", policy: policyFatal, fn: p.generateImage},
		{name: "upload image", policy: policyFatal, fn: p.uploadImage},
		{name: "video augmentation", policy: policyDegrade, fn: p.augmentWithVideo},
		{name: "log run to sheet", policy: policyBestEffort, fn: p.logRun},
		{name: "generate captions", policy: policyFatal, fn: p.generateCaptions},
		{name: "dispatch post", policy: policyFatal, fn: p.dispatchPost},
	}
}

func (p *Pipeline) selectMood(_ context.Context, run *Run) error {
	m, err := p.Moods.Pick(run.StartedAt)
	if err != nil {
		return err
	}
	run.Mood = m
	p.logger().Info("mood selected", "mood", m, "glyph", m.Glyph())
	return nil
}

func (p *Pipeline) generatePrompt(ctx context.Context, run *Run) error {
	prompt, err := p.Writer.GeneratePrompt(ctx, run.Mood)
	if err != nil {
		return err
	}
	// An empty prompt makes every downstream step meaningless; treat it the
	// same as a generation failure.
	if strings.TrimSpace(prompt) == "" {
		return errors.New("text model returned an empty prompt")
	}
	run.Prompt = prompt
	p.logger().Info("prompt generated", "prompt", prompt)
	return nil
}

func (p *Pipeline) generateImage(ctx context.Context, run *Run) error {
	path, err := p.Images.Generate(ctx, run.Prompt, run.Mood)
	if err != nil {
		return err
	}
	run.MediaPath = path
	p.logger().Info("image generated", "path", path)
	return nil
}

func (p *Pipeline) uploadImage(ctx context.Context, run *Run) error {
	url, err := p.Uploads.UploadImage(ctx, run.MediaPath)
	if err != nil {
		return err
	}
	run.MediaURL = url
	run.MediaType = MediaImage
	p.logger().Info("image uploaded", "url", url)
	return nil
}

// augmentWithVideo tries the slower, flakier video path. Success swaps the
// published media; any failure keeps the already-uploaded image.
func (p *Pipeline) augmentWithVideo(ctx context.Context, run *Run) error {
	if p.SkipVideo || p.Videos == nil {
		p.logger().Info("video augmentation skipped")
		return nil
	}

	path, err := p.Videos.Generate(ctx, run.Prompt, run.Mood)
	if err != nil {
		return fmt.Errorf("generate video: %w", err)
	}

	url, err := p.Uploads.UploadVideo(ctx, path)
	if err != nil {
		return fmt.Errorf("upload video: %w", err)
	}

	run.MediaPath = path
	run.MediaURL = url
	run.MediaType = MediaVideo
	p.logger().Info("video generated and uploaded", "url", url)
	return nil
}

func (p *Pipeline) logRun(ctx context.Context, run *Run) error {
	if p.RunLog == nil {
		p.logger().Info("sheet logging not configured, skipping")
		return nil
	}
	if err := p.RunLog.Append(ctx, run.Prompt, run.MediaURL); err != nil {
		return err
	}
	p.logger().Info("run logged to sheet")
	return nil
}

func (p *Pipeline) generateCaptions(ctx context.Context, run *Run) error {
	ig, err := p.Captions.InstagramCaption(ctx, run.Prompt, run.Mood)
	if err != nil {
		return fmt.Errorf("instagram caption: %w", err)
	}
	fb, err := p.Captions.FacebookCaption(ctx, run.Prompt, run.Mood)
	if err != nil {
		return fmt.Errorf("facebook caption: %w", err)
	}
	run.InstagramCaption = ig
	run.FacebookCaption = fb
	p.logger().Info("captions generated")
	return nil
}

func (p *Pipeline) dispatchPost(ctx context.Context, run *Run) error {
	post := dispatch.Post{
		InstagramCaption: run.InstagramCaption,
		FacebookCaption:  run.FacebookCaption,
		MediaURL:         run.MediaURL,
		MediaType:        string(run.MediaType),
		Timestamp:        run.StartedAt.UTC().Format(time.RFC3339),
	}
	return p.Dispatch.Send(ctx, post)
}

func (p *Pipeline) validate() error {
	switch {
	case p.Moods == nil:
		return errors.New("pipeline requires a mood picker")
	case p.Writer == nil:
		return errors.New("pipeline requires a prompt writer")
	case p.Captions == nil:
		return errors.New("pipeline requires a captioner")
	case p.Images == nil:
		return errors.New("pipeline requires an image generator")
	case p.Uploads == nil:
		return errors.New("pipeline requires an uploader")
	case p.Dispatch == nil:
		return errors.New("pipeline requires a dispatcher")
	}
	return nil
}
