package service

import (
	"context"
	"fmt"
	"time"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/datasource"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/logger"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/metrics"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/repository"
)

// Record types for ingestion metrics
const (
	recordTypeGame           = "game"
	recordTypePrior          = "prior"
	recordTypeExternalRating = "external_rating"

	rejectReasonIncomplete = "incomplete"
	rejectReasonNoLine     = "no_market_line"
	rejectReasonInvalid    = "validation_failed"
	rejectReasonDuplicate  = "duplicate"
)

// IngestionService handles the feed ingestion workflow: fetch, normalize,
// validate, persist
type IngestionService struct {
	feeds      *datasource.Feeds
	gameRepo   repository.GameRepository
	priorRepo  repository.TeamPriorRepository
	ratingRepo repository.ExternalRatingRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	stats      *IngestionMetrics
	log        *logger.IngestLogger
	batchSize  int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	feeds *datasource.Feeds,
	gameRepo repository.GameRepository,
	priorRepo repository.TeamPriorRepository,
	ratingRepo repository.ExternalRatingRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	ingestLogger *logger.IngestLogger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 100
	}

	return &IngestionService{
		feeds:      feeds,
		gameRepo:   gameRepo,
		priorRepo:  priorRepo,
		ratingRepo: ratingRepo,
		validator:  validator,
		normalizer: normalizer,
		stats:      NewIngestionMetrics(),
		log:        ingestLogger,
		batchSize:  batchSize,
	}
}

// IngestGames fetches and persists completed games for the given season and
// weeks. Weeks listed in primaryWeeks are labeled set A; the rest set B.
func (s *IngestionService) IngestGames(ctx context.Context, season int, weeks, primaryWeeks []int) (*IngestionMetrics, error) {
	if s.feeds.Games == nil {
		return nil, fmt.Errorf("no game feed configured")
	}

	s.stats.Reset()
	started := time.Now()
	defer func() {
		s.stats.Duration = time.Since(started)
		metrics.IngestionDuration.Observe(s.stats.Duration.Seconds())
	}()

	records, err := s.feeds.Games.FetchGames(ctx, season, weeks)
	if err != nil {
		s.stats.RecordError()
		return s.stats, fmt.Errorf("failed to fetch games: %w", err)
	}
	s.stats.TotalGames = len(records)

	primary := make(map[int]bool, len(primaryWeeks))
	for _, week := range primaryWeeks {
		primary[week] = true
	}

	var accepted []*models.Game
	for i := range records {
		record := &records[i]

		if !record.Completed {
			s.reject(recordTypeGame, rejectReasonIncomplete)
			continue
		}
		if record.Spread == nil {
			s.reject(recordTypeGame, rejectReasonNoLine)
			continue
		}

		setLabel := models.SetLabelSecondary
		if primary[record.Week] {
			setLabel = models.SetLabelPrimary
		}

		game, err := s.normalizer.NormalizeGame(record, setLabel)
		if err != nil {
			s.reject(recordTypeGame, rejectReasonInvalid)
			continue
		}

		if problems := s.validator.ValidateGame(game); len(problems) > 0 {
			s.stats.RecordValidationError()
			s.reject(recordTypeGame, rejectReasonInvalid)
			if s.log != nil {
				s.log.LogRecordRejected(s.feeds.Games.Name(), recordTypeGame, fmt.Sprintf("%v", problems))
			}
			continue
		}

		if err := s.validator.ValidateGameUniqueness(game, accepted); err != nil {
			s.reject(recordTypeGame, rejectReasonDuplicate)
			continue
		}

		accepted = append(accepted, game)
	}

	// Persist in batches
	for i := 0; i < len(accepted); i += s.batchSize {
		end := i + s.batchSize
		if end > len(accepted) {
			end = len(accepted)
		}
		if err := s.gameRepo.CreateBatch(ctx, accepted[i:end]); err != nil {
			s.stats.RecordError()
			return s.stats, fmt.Errorf("failed to store game batch: %w", err)
		}
		for range accepted[i:end] {
			s.stats.RecordGame()
			metrics.RecordsIngestedTotal.WithLabelValues(recordTypeGame).Inc()
		}
	}

	if s.log != nil {
		s.log.LogFeedSync(s.feeds.Games.Name(), s.stats.TotalGames, s.stats.StoredGames,
			s.stats.TotalGames-s.stats.StoredGames, started)
	}

	return s.stats, nil
}

// IngestTeamSignals fetches and persists preseason priors and the external
// rating source for one season
func (s *IngestionService) IngestTeamSignals(ctx context.Context, season int) (*IngestionMetrics, error) {
	if s.feeds.Teams == nil {
		return nil, fmt.Errorf("no team feed configured")
	}

	s.stats.Reset()
	started := time.Now()
	defer func() {
		s.stats.Duration = time.Since(started)
		metrics.IngestionDuration.Observe(s.stats.Duration.Seconds())
	}()

	talent, err := s.feeds.Teams.FetchTalent(ctx, season)
	if err != nil {
		s.stats.RecordError()
		return s.stats, fmt.Errorf("failed to fetch talent signals: %w", err)
	}
	s.stats.TotalTeams = len(talent)

	var priors []*models.TeamPrior
	for i := range talent {
		prior, err := s.normalizer.NormalizeTalent(&talent[i])
		if err != nil {
			s.reject(recordTypePrior, rejectReasonInvalid)
			continue
		}
		if problems := s.validator.ValidatePrior(prior); len(problems) > 0 {
			s.stats.RecordValidationError()
			s.reject(recordTypePrior, rejectReasonInvalid)
			continue
		}
		priors = append(priors, prior)
	}

	if err := s.priorRepo.UpsertBatch(ctx, priors); err != nil {
		s.stats.RecordError()
		return s.stats, fmt.Errorf("failed to store team priors: %w", err)
	}
	for range priors {
		s.stats.RecordTeam()
		metrics.RecordsIngestedTotal.WithLabelValues(recordTypePrior).Inc()
	}

	ratingRecords, err := s.feeds.Teams.FetchExternalRatings(ctx, season)
	if err != nil {
		s.stats.RecordError()
		return s.stats, fmt.Errorf("failed to fetch external ratings: %w", err)
	}

	var ratings []*models.ExternalRating
	for i := range ratingRecords {
		rating, err := s.normalizer.NormalizeExternalRating(&ratingRecords[i])
		if err != nil {
			s.reject(recordTypeExternalRating, rejectReasonInvalid)
			continue
		}
		if problems := s.validator.ValidateExternalRating(rating); len(problems) > 0 {
			s.stats.RecordValidationError()
			s.reject(recordTypeExternalRating, rejectReasonInvalid)
			continue
		}
		ratings = append(ratings, rating)
	}

	if err := s.ratingRepo.UpsertBatch(ctx, ratings); err != nil {
		s.stats.RecordError()
		return s.stats, fmt.Errorf("failed to store external ratings: %w", err)
	}
	for range ratings {
		metrics.RecordsIngestedTotal.WithLabelValues(recordTypeExternalRating).Inc()
	}

	if s.log != nil {
		s.log.LogFeedSync(s.feeds.Teams.Name(), s.stats.TotalTeams, s.stats.StoredTeams,
			s.stats.TotalTeams-s.stats.StoredTeams, started)
	}

	return s.stats, nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.stats
}

// reject records one rejected record in both local stats and Prometheus
func (s *IngestionService) reject(recordType, reason string) {
	s.stats.RecordSkipped()
	metrics.RecordsRejectedTotal.WithLabelValues(recordType, reason).Inc()
}
