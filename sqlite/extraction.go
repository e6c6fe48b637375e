package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tenk.ExtractionService = (*ExtractionService)(nil)

// ExtractionService implements tenk.ExtractionService using SQLite.
type ExtractionService struct {
	db *DB
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(db *DB) *ExtractionService {
	return &ExtractionService{db: db}
}

// CreateExtraction records an extraction attempt.
func (s *ExtractionService) CreateExtraction(ctx context.Context, e *tenk.Extraction) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extractions (id, ticker, company_name, filing_year, accession_number, source_url,
			section, strategy, code, message, size, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, strings.ToUpper(e.Ticker), e.CompanyName, e.FilingYear, e.AccessionNumber, e.SourceURL,
		e.Section, e.Strategy, e.Code, e.Message, e.Size, e.ContentHash, formatTimestamp(e.CreatedAt))

	return err
}

// FindExtractions retrieves extractions matching the filter, newest first.
func (s *ExtractionService) FindExtractions(ctx context.Context, filter tenk.ExtractionFilter) ([]*tenk.Extraction, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, ticker, company_name, filing_year, accession_number, source_url,
		section, strategy, code, message, size, content_hash, created_at FROM extractions WHERE 1=1`)

	if filter.Ticker != nil {
		query.WriteString(" AND ticker = ?")
		args = append(args, strings.ToUpper(*filter.Ticker))
	}
	if filter.FilingYear != nil {
		query.WriteString(" AND filing_year = ?")
		args = append(args, *filter.FilingYear)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	extractions := make([]*tenk.Extraction, 0)
	for rows.Next() {
		var e tenk.Extraction
		var createdAt string

		if err := rows.Scan(&e.ID, &e.Ticker, &e.CompanyName, &e.FilingYear, &e.AccessionNumber, &e.SourceURL,
			&e.Section, &e.Strategy, &e.Code, &e.Message, &e.Size, &e.ContentHash, &createdAt); err != nil {
			return nil, err
		}

		if e.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		extractions = append(extractions, &e)
	}

	return extractions, rows.Err()
}
