// ABOUTME: Markdown persistence for finished editions
// ABOUTME: Writes are atomic; a partially rendered edition never reaches the output directory
package edition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edition-builder/domain"

	"gopkg.in/yaml.v3"
)

// sectionHeadings maps section names to their rendered headings.
var sectionHeadings = map[string]string{
	domain.SectionSynthesis:   "Synthesis",
	domain.SectionAnalysis:    "Analysis",
	domain.SectionKeyPoints:   "Key Points",
	domain.SectionWatchPoints: "Watch Points",
	domain.SectionCuriosities: "Curiosities",
	domain.SectionPositives:   "Positives",
}

// Store writes and locates edition files under one output directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the edition file path for a date: <dir>/YYYY-MM-DD.md.
func (s *Store) Path(date time.Time) string {
	return filepath.Join(s.dir, date.Format("2006-01-02")+".md")
}

// Exists reports whether an edition file already exists for the date.
func (s *Store) Exists(date time.Time) bool {
	_, err := os.Stat(s.Path(date))
	return err == nil
}

// Write renders the edition to markdown and persists it atomically via
// a temp file in the same directory followed by a rename.
func (s *Store) Write(ed *domain.Edition) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	rendered, err := render(ed)
	if err != nil {
		return fmt.Errorf("rendering edition: %w", err)
	}

	target := s.Path(ed.Date)
	tmp, err := os.CreateTemp(s.dir, ".edition-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(rendered); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing edition: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing edition: %w", err)
	}

	return nil
}

func render(ed *domain.Edition) (string, error) {
	front, err := yaml.Marshal(ed.Frontmatter)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n")

	for _, section := range ed.Draft.Sections() {
		if section.Body == "" {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", sectionHeadings[section.Name], section.Body)
	}

	if len(ed.Draft.Timeline) > 0 {
		b.WriteString("\n## Timeline\n\n")
		for _, entry := range ed.Draft.Timeline {
			if entry.Label != "" {
				fmt.Fprintf(&b, "- %s (%s): %s\n", entry.When.Format("2006-01-02"), entry.Label, entry.Text)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", entry.When.Format("2006-01-02"), entry.Text)
			}
		}
	}

	if len(ed.Items) > 0 {
		b.WriteString("\n## Sources\n\n")
		for i, item := range ed.Items {
			fmt.Fprintf(&b, "%d. [%s](%s) (%s)\n", i+1, item.Title, item.URL, item.Feed)
		}
	}

	if len(ed.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, warning := range ed.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	return b.String(), nil
}
