package tajweedsvc

import (
	"hash/fnv"
)

type (
	// Submission describes a recitation recording to score.
	Submission struct {
		AyahReference   string `json:"ayah_reference" validate:"required"`
		RecordingID     string `json:"recording_id" validate:"required,uuid4"`
		DurationSeconds int    `json:"duration_seconds" validate:"gt=0"`
	}

	// Score is a per-rule breakdown of recitation quality, 0-100.
	Score struct {
		Overall  int      `json:"overall"`
		Makharij int      `json:"makharij"` // articulation points
		Ghunnah  int      `json:"ghunnah"`  // nasalisation
		Madd     int      `json:"madd"`     // elongation
		Remarks  []string `json:"remarks"`
	}

	// Scorer is a mock: it derives a stable pseudo-score from the submission
	// instead of analysing audio, so the API surface can be exercised before
	// the real scoring pipeline exists.
	Scorer struct{}
)

var remarkPool = []string{
	"maintain consistent ghunnah on noon mushaddadah",
	"watch the natural madd length on alif",
	"good articulation of heavy letters",
	"review qalqalah on closing letters",
}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score is deterministic for a given submission: re-submitting the same
// recording yields the same result.
func (s *Scorer) Score(sub Submission) Score {
	makharij := pseudoScore(sub.RecordingID + ":makharij")
	ghunnah := pseudoScore(sub.RecordingID + ":ghunnah")
	madd := pseudoScore(sub.AyahReference + ":" + sub.RecordingID + ":madd")

	score := Score{
		Overall:  (makharij + ghunnah + madd) / 3,
		Makharij: makharij,
		Ghunnah:  ghunnah,
		Madd:     madd,
	}
	score.Remarks = append(score.Remarks, remarkPool[makharij%len(remarkPool)])
	if score.Overall < 75 {
		score.Remarks = append(score.Remarks, remarkPool[ghunnah%len(remarkPool)])
	}
	return score
}

// pseudoScore hashes the seed into the 60-100 range.
func pseudoScore(seed string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return 60 + int(h.Sum32()%41)
}
