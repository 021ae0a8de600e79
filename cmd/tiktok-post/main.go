// Command tiktok-post uploads a single MP4 to TikTok through the Direct
// Post flow: init an upload session, PUT the bytes, then check (and
// optionally poll) the publish status.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/atra-labs/atra/internal/tiktok"
)

const (
	pollAttempts = 10
	pollInterval = 3 * time.Second
)

// CLI defines the tiktok-post flags.
type CLI struct {
	Video       string `flag:"" required:"" type:"existingfile" help:"Path to the MP4 file to upload"`
	Caption     string `flag:"" required:"" help:"Caption/title for the TikTok post"`
	Privacy     string `flag:"" default:"SELF_ONLY" help:"TikTok privacy level (SELF_ONLY, PUBLIC_TO_EVERYONE, MUTUAL_FOLLOW_FRIENDS, FOLLOWER_OF_CREATOR)"`
	Poll        bool   `flag:"" help:"Poll status up to 10 times with 3s intervals until completion or failure"`
	AccessToken string `flag:"" env:"TIKTOK_ACCESS_TOKEN" help:"TikTok API access token"`
}

// Run executes the upload.
func (c *CLI) Run() error {
	// Reject a bad privacy level before touching the network.
	privacy, err := tiktok.NormalizePrivacy(c.Privacy)
	if err != nil {
		return err
	}

	video, err := os.ReadFile(c.Video)
	if err != nil {
		return fmt.Errorf("read video file: %w", err)
	}
	size := int64(len(video))

	fmt.Printf("Preparing TikTok upload for %s (%d bytes)\n", c.Video, size)

	client, err := tiktok.NewClient(c.AccessToken)
	if err != nil {
		return err
	}

	ctx := context.Background()

	fmt.Println("Initializing Direct Post upload session...")
	publishID, uploadURL, err := client.Init(ctx, size, c.Caption, privacy)
	if err != nil {
		return err
	}
	fmt.Printf("Publish ID: %s\n", publishID)

	fmt.Println("Uploading video...")
	if err := client.Upload(ctx, uploadURL, video); err != nil {
		return err
	}
	fmt.Println("Upload request completed.")

	fmt.Println("Fetching status...")
	status, err := client.FetchStatus(ctx, publishID)
	if err != nil {
		return err
	}
	printStatus("Status", status)

	if c.Poll {
		for attempt := 1; attempt <= pollAttempts; attempt++ {
			if status.Terminal() {
				break
			}
			time.Sleep(pollInterval)

			status, err = client.FetchStatus(ctx, publishID)
			if err != nil {
				return err
			}
			printStatus(fmt.Sprintf("Poll %d", attempt), status)
		}
	}

	fmt.Println("Done.")
	return nil
}

func printStatus(step string, status tiktok.Status) {
	line := fmt.Sprintf("%s: %s", step, status.Status)
	if status.FailReason != "" {
		line += fmt.Sprintf(" (fail_reason=%s)", status.FailReason)
	}
	if status.PublicPostID != "" {
		line += fmt.Sprintf(" (public_post_id=%s)", status.PublicPostID)
	}
	fmt.Println(line)
}

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tiktok-post"),
		kong.Description("Post a single MP4 to TikTok via Direct Post"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
