package translation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/literacy-backend/internal/data/repos"
	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/dbctx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

const scanPageSize = 100

type ScanOptions struct {
	// Limit bounds the number of entities returned (not gaps).
	Limit int
	// Offset skips that many candidate entities (oldest first).
	Offset int
	// Languages narrows the target set; empty means all targets.
	Languages []string
}

// Candidate is an entity with at least one gap.
type Candidate struct {
	Entity  types.ContentEntity
	Source  types.Fields
	Records map[string]*types.TranslationRecord
	Gaps    []string
}

type Scanner struct {
	log      *logger.Logger
	content  repos.ContentRepo
	records  repos.TranslationRecordRepo
	langs    LanguageSet
	detector Detector
}

func NewScanner(log *logger.Logger, content repos.ContentRepo, records repos.TranslationRecordRepo, langs LanguageSet) *Scanner {
	return &Scanner{
		log:      log.With("component", "TranslationScanner"),
		content:  content,
		records:  records,
		langs:    langs,
		detector: Detector{Languages: langs},
	}
}

// TrustCompleteFlag switches the detector to treat complete records as final
// and lets the listing query skip entities whose records are all complete.
func (s *Scanner) TrustCompleteFlag(on bool) *Scanner {
	s.detector.TrustComplete = on
	return s
}

func (s *Scanner) Languages() LanguageSet { return s.langs }

func (s *Scanner) Detector() Detector { return s.detector }

// Scan returns up to opts.Limit entities of kind that have gaps, oldest first.
// It only reads.
func (s *Scanner) Scan(ctx context.Context, kind string, opts ScanOptions) ([]Candidate, error) {
	if _, ok := SchemaFor(kind); !ok {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	langs, err := s.langs.Resolve(opts.Languages)
	if err != nil {
		return nil, err
	}
	out := []Candidate{}
	if opts.Limit <= 0 || len(langs) == 0 {
		return out, nil
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	err = s.walk(ctx, kind, langs, offset, func(c Candidate) bool {
		out = append(out, c)
		return len(out) < opts.Limit
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GapCount is the backlog size of one kind.
type GapCount struct {
	Kind     string `json:"kind"`
	Entities int    `json:"entities_with_gaps"`
	Gaps     int    `json:"gaps"`
}

// CountGaps walks the whole kind.
func (s *Scanner) CountGaps(ctx context.Context, kind string, languages []string) (GapCount, error) {
	out := GapCount{Kind: kind}
	if _, ok := SchemaFor(kind); !ok {
		return out, fmt.Errorf("unknown content kind %q", kind)
	}
	langs, err := s.langs.Resolve(languages)
	if err != nil {
		return out, err
	}
	if len(langs) == 0 {
		return out, nil
	}
	err = s.walk(ctx, kind, langs, 0, func(c Candidate) bool {
		out.Entities++
		out.Gaps += len(c.Gaps)
		return true
	})
	return out, err
}

// Inspect evaluates a single entity.
func (s *Scanner) Inspect(ctx context.Context, entity types.ContentEntity, languages []string) (Candidate, error) {
	langs, err := s.langs.Resolve(languages)
	if err != nil {
		return Candidate{}, err
	}
	source, err := entity.SourceFields()
	if err != nil {
		return Candidate{}, err
	}
	recs, err := s.records.GetByEntityIDs(dbctx.Background(ctx), []uuid.UUID{entity.GetID()})
	if err != nil {
		return Candidate{}, err
	}
	return s.evaluate(entity, source, recs, langs), nil
}

// walk pages through entities oldest first, skips the first skip candidates
// and calls visit for every later one with gaps until visit returns false.
func (s *Scanner) walk(ctx context.Context, kind string, langs []string, skip int, visit func(Candidate) bool) error {
	dbc := dbctx.Background(ctx)
	query := repos.ContentListQuery{Limit: scanPageSize}
	if s.detector.TrustComplete {
		query.IncompleteFor = langs
	}
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		query.Offset = offset
		page, err := s.content.ListOldest(dbc, kind, query)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		offset += len(page)

		ids := make([]uuid.UUID, 0, len(page))
		for _, e := range page {
			ids = append(ids, e.GetID())
		}
		recs, err := s.records.GetByEntityIDs(dbc, ids)
		if err != nil {
			return err
		}
		byEntity := make(map[uuid.UUID][]*types.TranslationRecord, len(page))
		for _, r := range recs {
			byEntity[r.EntityID] = append(byEntity[r.EntityID], r)
		}

		for _, e := range page {
			source, err := e.SourceFields()
			if errors.Is(err, types.ErrMalformedRecord) {
				s.log.Warn("skipping malformed entity", "kind", kind, "entity_id", e.GetID(), "error", err)
				continue
			}
			if err != nil {
				return err
			}
			c := s.evaluate(e, source, byEntity[e.GetID()], langs)
			if len(c.Gaps) == 0 {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			if !visit(c) {
				return nil
			}
		}
		if len(page) < scanPageSize {
			return nil
		}
	}
}

func (s *Scanner) evaluate(e types.ContentEntity, source types.Fields, recs []*types.TranslationRecord, langs []string) Candidate {
	cov := s.detector.EntityCoverage(e, source, recs, langs)
	byLang := make(map[string]*types.TranslationRecord, len(recs))
	for _, r := range recs {
		byLang[r.LanguageCode] = r
	}
	return Candidate{Entity: e, Source: source, Records: byLang, Gaps: cov.Gaps}
}
