package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/data/repos"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/observability"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
	"github.com/yungbote/literacy-backend/internal/translation"
)

// KindCoverage is the coverage of one kind. Recorded counts target-language
// records only; Rows counts every translation row, source copies included.
type KindCoverage struct {
	Kind             string           `json:"kind"`
	Entities         int64            `json:"entities"`
	Expected         int64            `json:"expected_translations"`
	Recorded         int64            `json:"target_records"`
	Rows             int64            `json:"translation_rows"`
	EntitiesWithGaps int              `json:"entities_with_gaps"`
	Gaps             int              `json:"gaps"`
	ByStatus         map[string]int64 `json:"by_status"`
}

type CoverageReport struct {
	Source    string         `json:"source_language"`
	Targets   []string       `json:"target_languages"`
	Kinds     []KindCoverage `json:"kinds"`
	TotalGaps int            `json:"total_gaps"`
}

type CoverageService interface {
	// Report covers one kind, or all kinds when kind is empty.
	Report(ctx context.Context, kind string) (CoverageReport, error)
	Entity(ctx context.Context, kind string, id uuid.UUID) (translation.Coverage, error)
}

type coverageService struct {
	log     *logger.Logger
	content repos.ContentRepo
	records repos.TranslationRecordRepo
	scanner *translation.Scanner
}

func NewCoverageService(baseLog *logger.Logger, content repos.ContentRepo, records repos.TranslationRecordRepo, scanner *translation.Scanner) CoverageService {
	return &coverageService{
		log:     baseLog.With("service", "CoverageService"),
		content: content,
		records: records,
		scanner: scanner,
	}
}

func (s *coverageService) Report(ctx context.Context, kind string) (CoverageReport, error) {
	langs := s.scanner.Languages()
	out := CoverageReport{
		Source:  langs.Source,
		Targets: append([]string(nil), langs.Targets...),
		Kinds:   []KindCoverage{},
	}
	kinds := types.ContentKinds
	if kind != "" {
		if !types.IsContentKind(kind) {
			return out, fmt.Errorf("unknown kind %q: %w", kind, apierr.ErrInvalidArgument)
		}
		kinds = []string{kind}
	}
	dbc := dbctx.Background(ctx)
	for _, k := range kinds {
		entities, err := s.content.Count(dbc, k)
		if err != nil {
			return out, err
		}
		recorded, err := s.records.CountByKind(dbc, k, langs.Targets)
		if err != nil {
			return out, err
		}
		rows, err := s.records.CountByKind(dbc, k, nil)
		if err != nil {
			return out, err
		}
		byStatus, err := s.records.CountByStatus(dbc, k)
		if err != nil {
			return out, err
		}
		gaps, err := s.scanner.CountGaps(ctx, k, nil)
		if err != nil {
			return out, err
		}
		observability.Current().SetCoverageGaps(k, int64(gaps.Gaps))
		out.Kinds = append(out.Kinds, KindCoverage{
			Kind:             k,
			Entities:         entities,
			Expected:         entities * int64(len(langs.Targets)),
			Recorded:         recorded,
			Rows:             rows,
			EntitiesWithGaps: gaps.Entities,
			Gaps:             gaps.Gaps,
			ByStatus:         byStatus,
		})
		out.TotalGaps += gaps.Gaps
	}
	return out, nil
}

func (s *coverageService) Entity(ctx context.Context, kind string, id uuid.UUID) (translation.Coverage, error) {
	entity, err := s.content.GetByID(dbctx.Background(ctx), kind, id)
	if err != nil {
		return translation.Coverage{}, err
	}
	source, err := entity.SourceFields()
	if err != nil {
		return translation.Coverage{}, err
	}
	recs, err := s.records.GetByEntityIDs(dbctx.Background(ctx), []uuid.UUID{id})
	if err != nil {
		return translation.Coverage{}, err
	}
	return s.scanner.Detector().EntityCoverage(entity, source, recs, s.scanner.Languages().Targets), nil
}
