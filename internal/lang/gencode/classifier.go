package gencode

// DefaultThreshold is the score at which a file counts as generated. Every
// built-in pattern scores at least this much on its own.
const DefaultThreshold = 10

// Classification is the result of scoring evidence for a file.
type Classification struct {
	Generated       bool
	Score           int
	Threshold       int
	Strongest       Hint
	ObservedSignals int
}

// Classifier scores evidence against a threshold.
type Classifier struct {
	Threshold int
}

func (c Classifier) Classify(e *Evidence) Classification {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	out := Classification{Threshold: threshold}
	for _, h := range e.Hints() {
		out.ObservedSignals++
		if h.Score <= 0 {
			continue
		}
		out.Score += h.Score
		if h.Score > out.Strongest.Score {
			out.Strongest = h
		}
	}
	out.Generated = out.Score >= threshold
	return out
}
