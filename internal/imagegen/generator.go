// Package imagegen renders the brand image for a run via the OpenAI image
// API and saves it as an Instagram-safe JPEG.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/atra-labs/atra/internal/mood"
)

const jpegQuality = 92

// Generator handles OpenAI image generation requests.
type Generator struct {
	apiKey    string
	model     openai.ImageModel
	outputDir string
	rng       *rand.Rand
}

// NewGenerator creates a new image generator writing into outputDir. A nil
// rng gets a time-seeded source.
func NewGenerator(apiKey, outputDir string, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		apiKey:    apiKey,
		model:     openai.ImageModelGPTImage1,
		outputDir: outputDir,
		rng:       rng,
	}
}

// Generate renders a 1024x1024 image for the prompt and mood, converts it to
// JPEG, and returns the local file path.
func (g *Generator) Generate(ctx context.Context, prompt string, m mood.Mood) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("API key required: set OPENAI_API_KEY")
	}

	client := openai.NewClient(option.WithAPIKey(g.apiKey))

	visual := buildVisualPrompt(prompt, m, g.pickVisualMode())

	res, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  g.model,
		Prompt: visual,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate image via OpenAI API: %w", err)
	}

	if len(res.Data) == 0 || res.Data[0].B64JSON == "" {
		return "", errors.New("OpenAI image response missing image data")
	}

	raw, err := base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode generated image: %w", err)
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(g.outputDir, "generated_image.jpg")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, decoded, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return path, nil
}

// pickVisualMode chooses between the two brand palettes.
func (g *Generator) pickVisualMode() string {
	if g.rng.Intn(2) == 0 {
		return "core"
	}
	return "campaign"
}
