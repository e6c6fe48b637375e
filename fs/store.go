// Package fs provides file-based storage for extracted sections and debug
// artifacts.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure FileStore implements tenk.SectionStore at compile time.
var _ tenk.SectionStore = (*FileStore)(nil)

// FileStore saves sections under baseDir/TICKER/YEAR. Every file is written
// to a temporary file first and renamed into place, so readers never see a
// partial section.
type FileStore struct {
	baseDir string

	// Converter, when set, adds a Markdown rendition of each section.
	Converter tenk.Converter

	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewFileStore creates a new FileStore rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir, Now: time.Now}
}

// Metadata is the sidecar written next to each section.
type Metadata struct {
	Ticker              string `json:"ticker"`
	CompanyName         string `json:"company_name"`
	FilingYear          int    `json:"filing_year"`
	SectionName         string `json:"section_name"`
	SectionTitle        string `json:"section_title"`
	Strategy            string `json:"strategy"`
	ContentLength       int    `json:"content_length"`
	ContentHash         string `json:"content_hash"`
	ExtractionTimestamp string `json:"extraction_timestamp"`
}

// SaveSection writes the section content, its metadata and, when a converter
// is configured, a Markdown rendition.
func (s *FileStore) SaveSection(ctx context.Context, section *tenk.ExtractedSection) (*tenk.SavedSection, error) {
	if section.Ticker == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "section ticker required")
	}
	if section.FilingYear <= 0 {
		return nil, tenk.Errorf(tenk.EINVALID, "section filing year required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := SectionDir(s.baseDir, section.Ticker, section.FilingYear)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	stem := filepath.Join(dir, FileStem(section.Ticker, section.FilingYear, section.SectionName))

	saved := &tenk.SavedSection{
		ContentPath:  stem + ".html",
		MetadataPath: stem + "_meta.json",
	}
	if err := writeFile(saved.ContentPath, []byte(section.Content)); err != nil {
		return nil, fmt.Errorf("write section: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	meta, err := json.MarshalIndent(Metadata{
		Ticker:              strings.ToUpper(section.Ticker),
		CompanyName:         section.CompanyName,
		FilingYear:          section.FilingYear,
		SectionName:         section.SectionName,
		SectionTitle:        section.SectionTitle,
		Strategy:            section.Strategy,
		ContentLength:       section.Size(),
		ContentHash:         section.Hash(),
		ExtractionTimestamp: now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeFile(saved.MetadataPath, meta); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	if s.Converter != nil {
		md, err := s.Converter.Convert(section.Content)
		if err != nil {
			return nil, fmt.Errorf("convert section: %w", err)
		}
		saved.MarkdownPath = stem + ".md"
		if err := writeFile(saved.MarkdownPath, []byte(md)); err != nil {
			return nil, fmt.Errorf("write markdown: %w", err)
		}
	}

	return saved, nil
}

// SectionDir returns the directory holding a filing's files.
func SectionDir(baseDir, ticker string, year int) string {
	return filepath.Join(baseDir, strings.ToUpper(ticker), strconv.Itoa(year))
}

// FileStem returns the base file name for a section, such as
// "AAPL_2023_Item8".
func FileStem(ticker string, year int, section string) string {
	return fmt.Sprintf("%s_%d_%s", strings.ToUpper(ticker), year, strings.Join(strings.Fields(section), ""))
}

// writeFile writes data to a temporary file in the target directory and
// renames it over path.
func writeFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
