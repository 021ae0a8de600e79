package video

import (
	"fmt"
	"time"

	"github.com/atra-labs/atra/internal/mood"
)

// movementGuidance maps each mode to the motion language of its vignette.
var movementGuidance = map[mood.Mood]string{
	mood.CorporateBurnout:       "lamp flicker, papers lifting slightly, slow drift",
	mood.ADHDSpiral:             "pens rolling gently, receipts fluttering",
	mood.DelusionalRomantic:     "soft glow shimmer, floating petal",
	mood.ExistentiallyExhausted: "slow push-in, candle flicker, drifting dust",
	mood.SundayScaries:          "iced coffee sweating, remote vibrating lightly",
}

// dayClutter adds weekday-specific desk debris to the scene.
var dayClutter = map[time.Weekday]string{
	time.Monday:    "a fresh to-do list already crossed out twice, a triple-shot coffee cup",
	time.Tuesday:   "a tangle of charging cables, a half-eaten granola bar",
	time.Wednesday: "two competing planners open to different weeks, cold tea",
	time.Thursday:  "expense receipts fanned out, a lanyard flung across the keyboard",
	time.Friday:    "one celebratory sticky note, sunglasses, an abandoned salad",
	time.Saturday:  "a brunch receipt, nail polish, yesterday's tote bag contents",
	time.Sunday:    "a glowing laptop lid, a remote control, melting iced coffee",
}

// buildSoraPrompt renders the micro-story vignette prompt for the video
// model, keeping tone realistic, funny, light, and object-driven.
func buildSoraPrompt(prompt string, m mood.Mood, day time.Weekday) string {
	return fmt.Sprintf(`Create a 6 second vertical TikTok-style looping video (1080x1920) showing
a realistic top-down desk vignette that humorously expresses the emotional mode.

STYLE:
- Realistic everyday desk setup, cinematic lighting, textured shadows
- Light, funny, self-aware Joanie-style tone
- No humans visible; express emotion through objects + lighting
- Subtle looping motion (soft camera drift, object micro-motion)
- Aesthetic messy chaos, but believable
- No surreal effects, no magical animation, no text overlays

JOURNAL:
A blank matte-black paperback notebook sits naturally in the scene.
(Final branded cover will be applied in post-processing.)

JOURNALING PROMPT DRIVING THE SCENE:
%q

MOVEMENT GUIDANCE:
%s

Day clutter: %s
Mode: %s`, prompt, movementGuidance[m], dayClutter[day], m)
}
