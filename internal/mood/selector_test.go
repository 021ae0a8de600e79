package mood

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday = time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
)

func newTestSelector(t *testing.T, history []Mood, seed int64) (*Selector, *Store) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "history.json"))
	if len(history) > 0 {
		require.NoError(t, store.Save(history))
	}
	rng := rand.New(rand.NewSource(seed))
	return NewSelector(store, rng), store
}

func TestPick_NeverRepeatsMostRecent(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		selector, _ := newTestSelector(t, []Mood{ADHDSpiral}, seed)

		chosen, err := selector.Pick(monday)
		require.NoError(t, err)
		assert.NotEqual(t, ADHDSpiral, chosen, "seed %d repeated the most recent mood", seed)
	}
}

func TestPick_HistoryStaysBounded(t *testing.T) {
	selector, store := newTestSelector(t, nil, 7)

	for i := 0; i < 20; i++ {
		_, err := selector.Pick(monday)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(store.Load()), 5)
	}
}

func TestPick_SundayOverrideFires(t *testing.T) {
	selector, store := newTestSelector(t, []Mood{CorporateBurnout, ADHDSpiral}, 1)

	chosen, err := selector.Pick(sunday)
	require.NoError(t, err)
	assert.Equal(t, SundayScaries, chosen)

	history := store.Load()
	assert.Equal(t, SundayScaries, history[len(history)-1])
}

func TestPick_SundayOverrideDoesNotFireTwice(t *testing.T) {
	// With the override mood already most recent, a Sunday pick must use the
	// weighted draw. Across many seeds the result cannot always be the
	// override mood, which it would be if the override kept firing.
	results := make(map[Mood]int)
	for seed := int64(0); seed < 60; seed++ {
		selector, _ := newTestSelector(t, []Mood{CorporateBurnout, SundayScaries}, seed)

		chosen, err := selector.Pick(sunday)
		require.NoError(t, err)
		results[chosen]++
	}
	assert.Greater(t, len(results), 1, "forced override would yield a single mood")
}

func TestWeights_OverrideMoodKeepsWeightOnItsDay(t *testing.T) {
	history := []Mood{SundayScaries}

	onSunday := Weights(history, sunday)
	assert.Greater(t, onSunday[SundayScaries], 0.0)

	onMonday := Weights(history, monday)
	assert.Zero(t, onMonday[SundayScaries])
}

func TestWeights_RecencyDecayCompounds(t *testing.T) {
	// corporate_burnout sits at positions i=1 and i=3 (most-recent-first), so
	// its weight is 1.0 * 0.6 * 0.4.
	history := []Mood{CorporateBurnout, DelusionalRomantic, CorporateBurnout, ADHDSpiral}

	weights := Weights(history, monday)
	assert.InDelta(t, 0.24, weights[CorporateBurnout], 1e-9)
}

func TestWeights_RarityBoostForAbsentMood(t *testing.T) {
	history := []Mood{CorporateBurnout, ADHDSpiral, DelusionalRomantic, ExistentiallyExhausted}

	weights := Weights(history, monday)
	assert.InDelta(t, rarityBoost, weights[SundayScaries], 1e-9)
}

func TestPick_RarityBiasOverManyTrials(t *testing.T) {
	// Four distinct moods in history, sunday_scaries absent: it should win
	// clearly more draws than any mood carrying recency decay.
	history := []Mood{CorporateBurnout, ADHDSpiral, DelusionalRomantic, ExistentiallyExhausted}
	weights := Weights(history, monday)

	pool := make([]Mood, 0, len(weights))
	poolWeights := make([]float64, 0, len(weights))
	for _, m := range All() {
		if weights[m] > 0 {
			pool = append(pool, m)
			poolWeights = append(poolWeights, weights[m])
		}
	}

	rng := rand.New(rand.NewSource(42))
	counts := make(map[Mood]int)
	for i := 0; i < 2000; i++ {
		counts[weightedChoice(pool, poolWeights, rng)]++
	}

	for _, m := range history {
		assert.Greater(t, counts[SundayScaries], counts[m],
			"absent mood should out-draw decayed mood %s", m)
	}
}

func TestWeightedChoice_DeterministicForSeed(t *testing.T) {
	moods := []Mood{CorporateBurnout, ADHDSpiral, SundayScaries}
	weights := []float64{0.2, 0.5, 1.6}

	first := weightedChoice(moods, weights, rand.New(rand.NewSource(99)))
	second := weightedChoice(moods, weights, rand.New(rand.NewSource(99)))
	assert.Equal(t, first, second)
}

func TestWeightedChoice_ZeroTotalFallsBackToUniform(t *testing.T) {
	moods := []Mood{CorporateBurnout, ADHDSpiral}
	weights := []float64{0, 0}

	chosen := weightedChoice(moods, weights, rand.New(rand.NewSource(3)))
	assert.Contains(t, moods, chosen)
}
