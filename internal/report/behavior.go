package report

import (
	"math"

	"github.com/spigell/hh-interviewer/internal/interview"
	"github.com/spigell/hh-interviewer/internal/utils"
)

const neutralScore = 5.0

func (g *Generator) behavior(s *interview.SessionState) interview.BehavioralScores {
	turns := s.CandidateTurns()
	scores := s.Scores()

	return interview.BehavioralScores{
		Communication:   interview.Round(communication(turns), 1),
		ProblemSolving:  interview.Round(problemSolving(turns), 1),
		LearningAbility: interview.Round(learningAbility(scores), 1),
		Adaptability:    interview.Round(g.adaptability(scores), 1),
	}
}

// communication combines the average answer length with connective density.
func communication(turns []interview.Turn) float64 {
	if len(turns) == 0 {
		return 0
	}

	var runes, links int
	for _, t := range turns {
		text := utils.Normalize(t.Text)
		runes += utils.RuneLen(text)
		links += utils.CountOccurrences(text, connectives)
	}

	n := float64(len(turns))
	length := math.Min(10, float64(runes)/n/30)
	density := math.Min(10, float64(links)/n*4)
	return 0.6*length + 0.4*density
}

func problemSolving(turns []interview.Turn) float64 {
	if len(turns) == 0 {
		return 0
	}

	hits := 0
	for _, t := range turns {
		hits += utils.CountOccurrences(utils.Normalize(t.Text), solutionWords)
	}
	return math.Min(10, 2+1.5*float64(hits))
}

// learningAbility compares the second half of the session with the first.
func learningAbility(scores []float64) float64 {
	if len(scores) < 2 {
		return neutralScore
	}
	half := len(scores) / 2
	delta := interview.Mean(scores[half:]) - interview.Mean(scores[:half])
	return clamp(neutralScore + 2*delta)
}

// adaptability rewards stable and improving scores.
func (g *Generator) adaptability(scores []float64) float64 {
	if len(scores) < 2 {
		return neutralScore
	}

	score := neutralScore
	switch v := variance(scores); {
	case v <= g.cfg.LowVariance:
		score += 2
	case v >= g.cfg.HighVariance:
		score -= 2
	}
	switch k := slope(scores); {
	case k >= g.cfg.TrendSlope:
		score += 2
	case k <= -g.cfg.TrendSlope:
		score -= 2
	}
	return clamp(score)
}

func variance(values []float64) float64 {
	mean := interview.Mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}

// slope is the least-squares slope of values against their index.
func slope(values []float64) float64 {
	n := float64(len(values))
	var sx, sy, sxy, sxx float64
	for i, v := range values {
		x := float64(i)
		sx += x
		sy += v
		sxy += x * v
		sxx += x * x
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}
