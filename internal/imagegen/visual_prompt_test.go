package imagegen

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atra-labs/atra/internal/mood"
)

func TestBuildVisualPrompt_PaletteByMode(t *testing.T) {
	core := buildVisualPrompt("a prompt", mood.ADHDSpiral, "core")
	assert.Contains(t, core, "harsh black & white")
	assert.NotContains(t, core, "mustard yellow")

	campaign := buildVisualPrompt("a prompt", mood.ADHDSpiral, "campaign")
	assert.Contains(t, campaign, "mustard yellow")
}

func TestBuildVisualPrompt_EmbedsPromptAndMood(t *testing.T) {
	visual := buildVisualPrompt("write about your worst meeting", mood.CorporateBurnout, "core")
	assert.Contains(t, visual, "write about your worst meeting")
	assert.Contains(t, visual, "corporate_burnout")
}

func TestPickVisualMode_DeterministicForSeed(t *testing.T) {
	a := NewGenerator("key", t.TempDir(), rand.New(rand.NewSource(5)))
	b := NewGenerator("key", t.TempDir(), rand.New(rand.NewSource(5)))
	assert.Equal(t, a.pickVisualMode(), b.pickVisualMode())
}

func TestGenerate_RequiresAPIKey(t *testing.T) {
	g := NewGenerator("", t.TempDir(), nil)

	_, err := g.Generate(context.Background(), "prompt", mood.ADHDSpiral)
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
