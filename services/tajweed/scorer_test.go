package tajweedsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	scorer := NewScorer()
	sub := Submission{
		AyahReference:   "2:255",
		RecordingID:     "b7a9e6a0-9f6a-4a1e-bb49-4f74e2b2a2ce",
		DurationSeconds: 42,
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, scorer.Score(sub), scorer.Score(sub))
	})

	t.Run("bounded", func(t *testing.T) {
		score := scorer.Score(sub)
		for name, v := range map[string]int{
			"overall":  score.Overall,
			"makharij": score.Makharij,
			"ghunnah":  score.Ghunnah,
			"madd":     score.Madd,
		} {
			assert.GreaterOrEqual(t, v, 60, name)
			assert.LessOrEqual(t, v, 100, name)
		}
		assert.NotEmpty(t, score.Remarks)
	})

	t.Run("varies by recording", func(t *testing.T) {
		other := sub
		other.RecordingID = "0b24f8a3-67e3-4f0e-90ea-8d4a35df35b0"
		assert.NotEqual(t, scorer.Score(sub), scorer.Score(other))
	})
}
