package mood

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/atra-labs/atra/pkg/mathx"
)

const (
	baseWeight  = 1.0
	rarityBoost = 1.6

	// Recency decay multiplier for the entry i positions back:
	// decayBase - decayStep*i, clamped at zero.
	decayBase = 0.7
	decayStep = 0.1
)

// overrideMood is reserved for its designated weekday: the first run on a
// Sunday always gets sunday_scaries.
const (
	overrideMood Mood         = SundayScaries
	overrideDay  time.Weekday = time.Sunday
)

// Selector picks the next mood from the persisted history, balancing
// no-repeat, recency, and rarity.
type Selector struct {
	store *Store
	rng   *rand.Rand
}

// NewSelector creates a selector over the given store. A nil rng gets a
// time-seeded source.
func NewSelector(store *Store, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{store: store, rng: rng}
}

// Pick selects the mood for a run starting at now, appends it to the history,
// and persists it. A history save failure is fatal: losing the history would
// break the fairness guarantees on every later run.
func (s *Selector) Pick(now time.Time) (Mood, error) {
	history := s.store.Load()

	// Day override: fires only when the override mood is not already the most
	// recent entry, so a second run on the same day falls through to the
	// weighted draw.
	if now.Weekday() == overrideDay {
		if len(history) == 0 || history[len(history)-1] != overrideMood {
			return s.commit(history, overrideMood)
		}
	}

	weights := Weights(history, now)

	pool := make([]Mood, 0, len(weights))
	poolWeights := make([]float64, 0, len(weights))
	for _, m := range All() {
		if weights[m] > 0 {
			pool = append(pool, m)
			poolWeights = append(poolWeights, weights[m])
		}
	}

	var chosen Mood
	if len(pool) == 0 {
		// Cannot happen with two or more moods, but a uniform draw beats an
		// error if it ever does.
		all := All()
		chosen = all[s.rng.Intn(len(all))]
	} else {
		chosen = weightedChoice(pool, poolWeights, s.rng)
	}
	return s.commit(history, chosen)
}

func (s *Selector) commit(history []Mood, m Mood) (Mood, error) {
	if err := s.store.Save(append(history, m)); err != nil {
		return "", fmt.Errorf("persist mood choice: %w", err)
	}
	return m, nil
}

// Weights computes the draw weight of every mood for a run at now, given the
// history most-recent-last.
func Weights(history []Mood, now time.Time) map[Mood]float64 {
	weights := make(map[Mood]float64, len(glyphs))
	for _, m := range All() {
		weights[m] = baseWeight
	}

	// No immediate repeat. The override mood keeps its weight on its
	// designated day.
	if len(history) > 0 {
		last := history[len(history)-1]
		if last != overrideMood || now.Weekday() != overrideDay {
			weights[last] = 0
		}
	}

	// Recency decay, most-recent-first, compounding for repeat entries.
	for i := 0; i < len(history); i++ {
		m := history[len(history)-1-i]
		if weights[m] <= 0 {
			continue
		}
		mult := mathx.Clamp(decayBase-decayStep*float64(i), 0, decayBase)
		weights[m] *= mult
	}

	// Rarity boost for moods missing from the history entirely.
	seen := make(map[Mood]bool, len(history))
	for _, m := range history {
		seen[m] = true
	}
	for _, m := range All() {
		if !seen[m] {
			weights[m] *= rarityBoost
		}
	}

	return weights
}

// weightedChoice draws one mood with probability proportional to its weight.
// Deterministic given the rng state.
func weightedChoice(moods []Mood, weights []float64, rng *rand.Rand) Mood {
	total := mathx.Sum(weights)
	if total <= 0 {
		return moods[rng.Intn(len(moods))]
	}

	r := rng.Float64() * total
	for i, m := range moods {
		r -= weights[i]
		if r < 0 {
			return m
		}
	}
	return moods[len(moods)-1]
}
