package imagegen

import (
	"fmt"

	"github.com/atra-labs/atra/internal/mood"
)

const corePalette = "Color mood: harsh black & white with high contrast flash."

const campaignPalette = "Color mood: muted beige, mustard yellow accents, strong flash aesthetic."

// buildVisualPrompt renders the Joanie flash-photo prompt around the
// journaling prompt and current mode.
func buildVisualPrompt(prompt string, m mood.Mood, visualMode string) string {
	palette := corePalette
	if visualMode == "campaign" {
		palette = campaignPalette
	}

	return fmt.Sprintf(`Create a chaotic, flash-photography Gen Z/Millennial image inspired by "Joanie" -
a functional-chaotic corporate girlie who survives on iced coffee, overthinking,
ADHD brain dumps, romantic delusion, and funny self-awareness.

AESTHETIC (strict):
- Hard flash photography in low-light (phone-flash energy).
- Realistic, candid, messy, unpolished.
- High contrast, strong shadows, sharp flash reflections.
- Must feel like a "life spill": Joanie dumped her tote bag and this is the scene.

PROPS (allowed, choose any):
- Iced coffee cup, messy receipts, AirPods/headphones tangled,
  lip gloss, subway card, a pen, corporate keycard, sticky notes,
  hydro flask, mascara, tote bag, half-finished martini,
  scribbled notebook doodles.

JOURNAL INTEGRATION (strict):
Include ONE visible journal page inspired by this journaling prompt:
%q
Do NOT show more than one page. Keep it candid, not graphic-designed.

TONE:
- Organized chaos meets feminine unhinged energy.
- Emotional mode for this scene: %s.
- Should feel humorous, self-aware, and accidentally aesthetic.
- Real-world, physical objects - no illustrations, no poster layouts.

WHAT TO AVOID:
- Poster-style graphics.
- Perfectly neat or centered compositions.
- Inspirational typography.
- Cartoon characters, emoji faces, mascots.
- Clean corporate minimalism.
- Anything too polished.

%s
Output: a single finished 1024x1024 flash-photographic image.`, prompt, m, palette)
}
