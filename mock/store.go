package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var _ tenk.SectionStore = (*SectionStore)(nil)

// SectionStore is a mock implementation of tenk.SectionStore.
type SectionStore struct {
	SaveSectionFn func(ctx context.Context, section *tenk.ExtractedSection) (*tenk.SavedSection, error)
}

func (s *SectionStore) SaveSection(ctx context.Context, section *tenk.ExtractedSection) (*tenk.SavedSection, error) {
	return s.SaveSectionFn(ctx, section)
}

var _ tenk.DebugStore = (*DebugStore)(nil)

// DebugStore is a mock implementation of tenk.DebugStore.
type DebugStore struct {
	SaveFilingFn  func(ctx context.Context, filing *tenk.Filing, markup string, def *tenk.SectionDefinition) error
	SaveFailureFn func(ctx context.Context, filing *tenk.Filing, err error) error
}

func (s *DebugStore) SaveFiling(ctx context.Context, filing *tenk.Filing, markup string, def *tenk.SectionDefinition) error {
	return s.SaveFilingFn(ctx, filing, markup, def)
}

func (s *DebugStore) SaveFailure(ctx context.Context, filing *tenk.Filing, err error) error {
	return s.SaveFailureFn(ctx, filing, err)
}

var _ tenk.ExtractionService = (*ExtractionService)(nil)

// ExtractionService is a mock implementation of tenk.ExtractionService.
type ExtractionService struct {
	CreateExtractionFn func(ctx context.Context, e *tenk.Extraction) error
	FindExtractionsFn  func(ctx context.Context, filter tenk.ExtractionFilter) ([]*tenk.Extraction, error)
}

func (s *ExtractionService) CreateExtraction(ctx context.Context, e *tenk.Extraction) error {
	return s.CreateExtractionFn(ctx, e)
}

func (s *ExtractionService) FindExtractions(ctx context.Context, filter tenk.ExtractionFilter) ([]*tenk.Extraction, error) {
	return s.FindExtractionsFn(ctx, filter)
}
