package interview

// Mastery is a coarse classification of a single answer.
type Mastery string

const (
	MasteryNovice       Mastery = "novice"
	MasteryBeginner     Mastery = "beginner"
	MasteryIntermediate Mastery = "intermediate"
	MasteryAdvanced     Mastery = "advanced"
)

// MasteryFor maps an overall score to its tier.
func MasteryFor(score float64) Mastery {
	switch {
	case score >= 7.5:
		return MasteryAdvanced
	case score >= 6:
		return MasteryIntermediate
	case score >= 4.5:
		return MasteryBeginner
	default:
		return MasteryNovice
	}
}

// Evaluation is the multi-dimensional score of one candidate utterance.
// All scores are within [0, 10].
type Evaluation struct {
	Completeness   float64  `json:"completeness"`
	TechnicalDepth float64  `json:"technical_depth"`
	Structure      float64  `json:"structure"`
	Relevance      float64  `json:"relevance"`
	OverallScore   float64  `json:"overall_score"`
	IsNegative     bool     `json:"is_negative"`
	NeedsReview    bool     `json:"needs_review"`
	HasCode        bool     `json:"has_code"`
	TechnicalTerms int      `json:"technical_terms"`
	Mastery        Mastery  `json:"mastery"`
	Strengths      []string `json:"strengths,omitempty"`
	Improvements   []string `json:"improvements,omitempty"`
}

func (e Evaluation) clone() Evaluation {
	e.Strengths = append([]string(nil), e.Strengths...)
	e.Improvements = append([]string(nil), e.Improvements...)
	return e
}
