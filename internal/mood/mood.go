// Package mood implements the Joanie personality-mode engine: the fixed set
// of moods, a file-backed history store, and the weighted selector that picks
// the mode for each pipeline run.
package mood

// Mood is one of the fixed personality modes that set the tone of a run.
type Mood string

const (
	CorporateBurnout       Mood = "corporate_burnout"
	ADHDSpiral             Mood = "adhd_spiral"
	DelusionalRomantic     Mood = "delusional_romantic"
	ExistentiallyExhausted Mood = "existentially_exhausted"
	SundayScaries          Mood = "sunday_scaries"
)

var glyphs = map[Mood]string{
	CorporateBurnout:       "💼",
	ADHDSpiral:             "🌀",
	DelusionalRomantic:     "💘",
	ExistentiallyExhausted: "🕳️",
	SundayScaries:          "😰",
}

// All returns the complete mood set in a stable order.
func All() []Mood {
	return []Mood{
		CorporateBurnout,
		ADHDSpiral,
		DelusionalRomantic,
		ExistentiallyExhausted,
		SundayScaries,
	}
}

// Valid reports whether m belongs to the mood set.
func (m Mood) Valid() bool {
	_, ok := glyphs[m]
	return ok
}

// Glyph returns the display glyph for the mood.
func (m Mood) Glyph() string {
	return glyphs[m]
}

func (m Mood) String() string {
	return string(m)
}
