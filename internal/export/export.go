// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/prepplan/internal/plan"
	"github.com/jeranaias/prepplan/internal/util"
	"github.com/jeranaias/prepplan/internal/wizard"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Document is what gets exported: the plan and the context it was made in.
type Document struct {
	Plan        *plan.Plan
	Answers     wizard.Answers
	Model       string
	GeneratedAt time.Time
}

// ErrNoPlan is returned for a document without a plan.
var ErrNoPlan = errors.New("document has no plan")

func (d *Document) check() error {
	if d == nil || d.Plan == nil {
		return ErrNoPlan
	}
	return nil
}

// Exporter defines the interface for plan exporters.
type Exporter interface {
	// Export renders the document in the target format.
	Export(doc *Document) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// IncludeMetadata adds the frontmatter and footer to Markdown output.
	IncludeMetadata bool

	// SkipHeader leaves the title, summary and info table out of Markdown
	// output for callers that draw them separately.
	SkipHeader bool

	// Now stamps the file name. Default: time.Now
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Now:             time.Now,
	}
}

// ForFormat returns the exporter for a config format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile writes doc with exporter into opts.OutputDir and returns the path.
// The name is built from the plan title and a timestamp; the write is atomic.
func ToFile(doc *Document, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := doc.check(); err != nil {
		return "", err
	}

	content, err := exporter.Export(doc)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}

	filename := fmt.Sprintf("%s_%s%s",
		Slug(doc.Plan.Title),
		now().Format("20060102_150405"),
		exporter.FileExtension(),
	)
	outputPath := filepath.Join(dir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

const (
	maxSlugRunes = 60
	fallbackSlug = "study-plan"
)

// stripMarks folds accented letters to their base form. Chains hold state,
// so each call gets its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Slug turns a title into a lowercase, dash-separated file name stem.
func Slug(s string) string {
	if folded, _, err := transform.String(stripMarks(), s); err == nil {
		s = folded
	}

	var b strings.Builder
	n := 0
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingDash = n > 0
			continue
		}
		if n >= maxSlugRunes {
			break
		}
		if pendingDash {
			if n+1 >= maxSlugRunes {
				break
			}
			b.WriteByte('-')
			n++
			pendingDash = false
		}
		b.WriteRune(r)
		n++
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// formatDate formats a timestamp for display.
func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
