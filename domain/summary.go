package domain

// Provenance records how a summary was obtained.
type Provenance int

const (
	// ProvenanceSuccess means the text-generation service produced the summary.
	ProvenanceSuccess Provenance = iota
	// ProvenanceFallback means the deterministic extractive fallback produced it.
	ProvenanceFallback
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceSuccess:
		return "success"
	case ProvenanceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// SummaryResult is the structured summary of one story. Bullets always
// holds exactly three non-empty entries. Immutable once produced.
type SummaryResult struct {
	Abstract        string
	Bullets         []string
	TranslatedTitle string
	Provenance      Provenance
}
