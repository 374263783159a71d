package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SeverityClassifier maps combined interaction text to a severity
type SeverityClassifier interface {
	Classify(text string) Severity
}

// TextSummarizer rewrites combined interaction text for a patient
type TextSummarizer interface {
	Summarize(ctx context.Context, raw, drug1, drug2 string) string
}

// InteractionService is the core service for interaction checks
type InteractionService struct {
	labels            LabelClient
	classifier        SeverityClassifier
	summarizer        TextSummarizer
	cache             CacheRepository
	history           HistoryRepository
	medications       MedicationRepository
	logger            *zap.Logger
	fetchLimit        int
	maxHistoryEntries int
	now               Clock
}

// DefaultMaxHistoryEntries bounds the history when no limit is configured
const DefaultMaxHistoryEntries = 100

// InteractionServiceOptions holds the tunables of the check pipeline
type InteractionServiceOptions struct {
	FetchLimit        int
	MaxHistoryEntries int
	Clock             Clock
}

// NewInteractionService creates a new interaction service
func NewInteractionService(
	labels LabelClient,
	classifier SeverityClassifier,
	summarizer TextSummarizer,
	store Store,
	logger *zap.Logger,
	opts InteractionServiceOptions,
) *InteractionService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = 3
	}
	if opts.MaxHistoryEntries <= 0 {
		opts.MaxHistoryEntries = DefaultMaxHistoryEntries
	}
	return &InteractionService{
		labels:            labels,
		classifier:        classifier,
		summarizer:        summarizer,
		cache:             store,
		history:           store,
		medications:       store,
		logger:            logger,
		fetchLimit:        opts.FetchLimit,
		maxHistoryEntries: opts.MaxHistoryEntries,
		now:               opts.Clock,
	}
}

// CheckInteraction checks two drugs for a documented interaction. Cached
// results are returned without any network call. Every check, cached or
// not, is appended to the history.
func (s *InteractionService) CheckInteraction(ctx context.Context, drug1, drug2 string, useCache bool) (*InteractionResult, error) {
	drug1 = NormalizeName(drug1)
	drug2 = NormalizeName(drug2)
	if drug1 == "" || drug2 == "" {
		return nil, ErrEmptyDrugName
	}

	key := PairKey(drug1, drug2)

	// Check cache if enabled
	if useCache {
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.logger.Debug("Cache hit for pair", zap.String("pair", key))
			result := &InteractionResult{
				Drug1:     drug1,
				Drug2:     drug2,
				Severity:  entry.Severity,
				Summary:   entry.Summary,
				FromCache: true,
				CheckedAt: s.now(),
			}
			s.recordHistory(ctx, result)
			return result, nil
		case !errors.Is(err, ErrNotFound):
			s.logger.Warn("Failed to read cache, fetching fresh data", zap.String("pair", key), zap.Error(err))
		}
	}

	// Fetch each drug on its own, a failure on one does not stop the other
	s.logger.Debug("Fetching label data", zap.String("drug", drug1))
	first := s.labels.FetchInteractions(ctx, drug1, s.fetchLimit)
	s.logger.Debug("Fetching label data", zap.String("drug", drug2))
	second := s.labels.FetchInteractions(ctx, drug2, s.fetchLimit)

	fragments := append(append([]string{}, first.Fragments()...), second.Fragments()...)
	combined := strings.Join(fragments, " ")

	result := &InteractionResult{
		Drug1:     drug1,
		Drug2:     drug2,
		CheckedAt: s.now(),
	}

	if first.Status != LabelFound || second.Status != LabelFound {
		s.logger.Info("No usable label data for pair",
			zap.String("pair", key),
			zap.Int("drug1_status", int(first.Status)),
			zap.Int("drug2_status", int(second.Status)))
		result.Severity = SeverityUnknown
		result.Summary = NoDataSummary
	} else {
		result.Severity = s.classifier.Classify(combined)
		result.Summary = s.summarizer.Summarize(ctx, combined, drug1, drug2)
	}

	// An interrupted check is neither cached nor recorded
	if err := ctx.Err(); err != nil {
		s.logger.Debug("Check interrupted, result discarded", zap.String("pair", key))
		return nil, err
	}

	// Update cache, including no-data results
	entry := &CacheEntry{
		Key:       key,
		Severity:  result.Severity,
		Summary:   result.Summary,
		Timestamp: result.CheckedAt,
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.logger.Error("Failed to update cache", zap.String("pair", key), zap.Error(err))
	}

	s.recordHistory(ctx, result)
	return result, nil
}

// CheckAgainstMedications checks newDrug against every saved medication,
// one after another in list order
func (s *InteractionService) CheckAgainstMedications(ctx context.Context, newDrug string) ([]*InteractionResult, error) {
	if NormalizeName(newDrug) == "" {
		return nil, ErrEmptyDrugName
	}

	meds, err := s.medications.LoadMedications(ctx)
	if err != nil {
		s.logger.Warn("Failed to load medications", zap.Error(err))
	}
	if len(meds) == 0 {
		return nil, ErrNoMedications
	}

	results := make([]*InteractionResult, 0, len(meds))
	for _, med := range meds {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := s.CheckInteraction(ctx, med, newDrug, true)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, ctxErr
		}
		if err != nil {
			s.logger.Warn("Skipping saved medication", zap.String("medication", med), zap.Error(err))
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// Suggest returns candidate drug names for a partial name
func (s *InteractionService) Suggest(ctx context.Context, partial string, limit int) []string {
	return s.labels.SearchSuggestions(ctx, NormalizeName(partial), limit)
}

// ClearCache removes every cached interaction result
func (s *InteractionService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

func (s *InteractionService) recordHistory(ctx context.Context, result *InteractionResult) {
	entry := NewHistoryEntry(result.Drug1, result.Drug2, result.Severity, result.Summary, result.CheckedAt)
	if err := s.history.AppendHistory(ctx, entry, s.maxHistoryEntries); err != nil {
		s.logger.Error("Failed to append history", zap.Error(err))
	}
}
