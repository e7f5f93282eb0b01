package domain

import "time"

// Section names of a briefing draft, in presentation order.
const (
	SectionSynthesis   = "synthesis"
	SectionAnalysis    = "analysis"
	SectionKeyPoints   = "key-points"
	SectionWatchPoints = "watch-points"
	SectionCuriosities = "curiosities"
	SectionPositives   = "positives"
)

// SectionOrder lists the six named sections in their fixed order.
var SectionOrder = []string{
	SectionSynthesis,
	SectionAnalysis,
	SectionKeyPoints,
	SectionWatchPoints,
	SectionCuriosities,
	SectionPositives,
}

// TimelineEntry is one dated line of the briefing timeline.
type TimelineEntry struct {
	When  time.Time
	Label string
	Text  string
}

// SectionContent pairs a section name with its body text.
type SectionContent struct {
	Name string
	Body string
}

// BriefingDraft is one candidate long-form document. A draft may be
// regenerated several times before one is accepted.
type BriefingDraft struct {
	Synthesis   string
	Analysis    string
	KeyPoints   string
	WatchPoints string
	Curiosities string
	Positives   string

	Timeline       []TimelineEntry
	WordCount      int
	ReadingMinutes int
}

// Sections returns the six named sections in fixed order.
func (d *BriefingDraft) Sections() []SectionContent {
	return []SectionContent{
		{SectionSynthesis, d.Synthesis},
		{SectionAnalysis, d.Analysis},
		{SectionKeyPoints, d.KeyPoints},
		{SectionWatchPoints, d.WatchPoints},
		{SectionCuriosities, d.Curiosities},
		{SectionPositives, d.Positives},
	}
}

// SetSection assigns a section body by name. Unknown names are ignored.
func (d *BriefingDraft) SetSection(name, body string) {
	switch name {
	case SectionSynthesis:
		d.Synthesis = body
	case SectionAnalysis:
		d.Analysis = body
	case SectionKeyPoints:
		d.KeyPoints = body
	case SectionWatchPoints:
		d.WatchPoints = body
	case SectionCuriosities:
		d.Curiosities = body
	case SectionPositives:
		d.Positives = body
	}
}

// QAReport is the result of validating a draft. Non-empty Errors blocks
// acceptance; Warnings never do.
type QAReport struct {
	Warnings []string
	Errors   []string
}

// OK reports whether the draft passed the gate.
func (r QAReport) OK() bool {
	return len(r.Errors) == 0
}

// Frontmatter is the metadata block of a finished edition.
type Frontmatter struct {
	Date           string   `yaml:"date"`
	RunID          string   `yaml:"run_id"`
	Sources        []string `yaml:"sources"`
	ItemCount      int      `yaml:"item_count"`
	WordCount      int      `yaml:"word_count"`
	ReadingMinutes int      `yaml:"reading_minutes"`
	GeneratedAt    string   `yaml:"generated_at"`
}

// Edition is the terminal artifact of a run, handed opaquely to the
// renderer. Exactly one edition exists per date; regenerating replaces it.
type Edition struct {
	Date        time.Time
	Frontmatter Frontmatter
	Draft       BriefingDraft
	Items       []NarrativeItem
	Warnings    []string
}
