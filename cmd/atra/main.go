// Command atra runs the social content automation pipeline: pick a mood,
// generate a journaling prompt and media, upload, log, caption, and hand the
// finished post to the automation webhook.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"github.com/atra-labs/atra/internal/config"
	"github.com/atra-labs/atra/internal/content"
	"github.com/atra-labs/atra/internal/dispatch"
	"github.com/atra-labs/atra/internal/imagegen"
	"github.com/atra-labs/atra/internal/logger"
	"github.com/atra-labs/atra/internal/mood"
	"github.com/atra-labs/atra/internal/pipeline"
	"github.com/atra-labs/atra/internal/sheet"
	"github.com/atra-labs/atra/internal/upload"
	"github.com/atra-labs/atra/internal/video"
)

// CLI defines the atra command structure.
type CLI struct {
	Run   RunCmd   `cmd:"" default:"withargs" help:"Execute one content production run"`
	Moods MoodsCmd `cmd:"" help:"Show mood history and next-draw weights"`
	Check CheckCmd `cmd:"" help:"Validate environment configuration"`
}

// RunCmd executes one full pipeline pass.
type RunCmd struct {
	SkipVideo bool `flag:"" help:"Skip the video augmentation step and post the image"`
}

// Run executes the run command.
func (c *RunCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.Setup(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	// Sheet logging is best-effort: without credentials the run proceeds and
	// the orchestrator skips the step.
	var runLog pipeline.RunLogger
	if sheetLog, err := sheet.NewLogger(ctx, cfg.SheetsCredentialsPath, cfg.SheetID); err != nil {
		log.Warn("sheet logging disabled", "reason", err)
	} else {
		runLog = sheetLog
	}

	writer := content.NewWriter(cfg.AnthropicAPIKey)
	p := &pipeline.Pipeline{
		Moods:  mood.NewSelector(mood.NewStore(cfg.MoodHistoryPath), nil),
		Writer: writer,
		Images: imagegen.NewGenerator(cfg.OpenAIAPIKey, cfg.OutputDir, nil),
		Videos: video.NewEngine(video.Config{
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.VideoModel,
			OutputDir: cfg.VideoOutputDir,
		}),
		Uploads:  upload.NewClient(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret),
		RunLog:   runLog,
		Captions: writer,
		Dispatch: dispatch.NewClient(cfg.MakeWebhookURL, cfg.MakeAPIKey, cfg.DispatchPreDelay(), log),
		Logger:   log,

		SkipVideo: c.SkipVideo,
	}

	run, err := p.Execute(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Printf("%s run %s complete: %s (%s)\n", run.Mood.Glyph(), run.ID, run.MediaURL, run.MediaType)
	return nil
}

// MoodsCmd prints the persisted history and what the next draw would weigh.
type MoodsCmd struct{}

// Run executes the moods command.
func (c *MoodsCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store := mood.NewStore(cfg.MoodHistoryPath)
	history := store.Load()

	if len(history) == 0 {
		fmt.Println("history: (empty)")
	} else {
		fmt.Print("history:")
		for _, m := range history {
			fmt.Printf(" %s %s", m.Glyph(), m)
		}
		fmt.Println()
	}

	weights := mood.Weights(history, time.Now())
	fmt.Println("next-draw weights:")
	for _, m := range mood.All() {
		fmt.Printf("  %s %-24s %.3f\n", m.Glyph(), m, weights[m])
	}
	return nil
}

// CheckCmd reports missing configuration without running anything.
type CheckCmd struct{}

// Run executes the check command.
func (c *CheckCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	missing := cfg.MissingRequired()
	for _, name := range missing {
		fmt.Printf("missing (required): %s\n", name)
	}
	for _, name := range cfg.MissingOptional() {
		fmt.Printf("missing (optional): %s\n", name)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d required environment variable(s) missing", len(missing))
	}
	fmt.Println("all required environment variables loaded")
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("atra"),
		kong.Description("ATRA social content automation pipeline"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
