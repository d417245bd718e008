package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/datasource"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// fakeGameFeed returns canned game records
type fakeGameFeed struct {
	records []datasource.GameRecord
	err     error
}

func (f *fakeGameFeed) FetchGames(ctx context.Context, season int, weeks []int) ([]datasource.GameRecord, error) {
	return f.records, f.err
}

func (f *fakeGameFeed) Name() string    { return "fake_games" }
func (f *fakeGameFeed) IsEnabled() bool { return true }

// fakeTeamFeed returns canned team signals
type fakeTeamFeed struct {
	talent  []datasource.TalentRecord
	ratings []datasource.ExternalRatingRecord
}

func (f *fakeTeamFeed) FetchTalent(ctx context.Context, season int) ([]datasource.TalentRecord, error) {
	return f.talent, nil
}

func (f *fakeTeamFeed) FetchExternalRatings(ctx context.Context, season int) ([]datasource.ExternalRatingRecord, error) {
	return f.ratings, nil
}

func (f *fakeTeamFeed) Name() string    { return "fake_teams" }
func (f *fakeTeamFeed) IsEnabled() bool { return true }

// memGameRepo collects stored games in memory
type memGameRepo struct {
	games []*models.Game
}

func (r *memGameRepo) Create(ctx context.Context, game *models.Game) error {
	r.games = append(r.games, game)
	return nil
}

func (r *memGameRepo) CreateBatch(ctx context.Context, games []*models.Game) error {
	r.games = append(r.games, games...)
	return nil
}

func (r *memGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return nil, models.ErrNotFound
}

func (r *memGameRepo) GetBySeasonWeeks(ctx context.Context, season int, weeks []int) ([]*models.Game, error) {
	return r.games, nil
}

func (r *memGameRepo) Update(ctx context.Context, game *models.Game) error { return nil }
func (r *memGameRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

// memPriorRepo collects stored priors in memory
type memPriorRepo struct {
	priors []*models.TeamPrior
}

func (r *memPriorRepo) Upsert(ctx context.Context, prior *models.TeamPrior) error {
	r.priors = append(r.priors, prior)
	return nil
}

func (r *memPriorRepo) UpsertBatch(ctx context.Context, priors []*models.TeamPrior) error {
	r.priors = append(r.priors, priors...)
	return nil
}

func (r *memPriorRepo) GetBySeason(ctx context.Context, season int) ([]*models.TeamPrior, error) {
	return r.priors, nil
}

// memRatingRepo collects stored external ratings in memory
type memRatingRepo struct {
	ratings []*models.ExternalRating
}

func (r *memRatingRepo) Upsert(ctx context.Context, rating *models.ExternalRating) error {
	r.ratings = append(r.ratings, rating)
	return nil
}

func (r *memRatingRepo) UpsertBatch(ctx context.Context, ratings []*models.ExternalRating) error {
	r.ratings = append(r.ratings, ratings...)
	return nil
}

func (r *memRatingRepo) GetBySeason(ctx context.Context, season int) ([]*models.ExternalRating, error) {
	return r.ratings, nil
}

func dec(v string) *decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return &d
}

func newTestService(games *fakeGameFeed, teams *fakeTeamFeed) (*IngestionService, *memGameRepo, *memPriorRepo, *memRatingRepo) {
	gameRepo := &memGameRepo{}
	priorRepo := &memPriorRepo{}
	ratingRepo := &memRatingRepo{}

	svc := NewIngestionService(
		&datasource.Feeds{Games: games, Teams: teams},
		gameRepo,
		priorRepo,
		ratingRepo,
		NewDataValidator(nil),
		NewDataNormalizer(nil),
		nil,
		2,
	)
	return svc, gameRepo, priorRepo, ratingRepo
}

// TestIngestGamesStoresValidRows tests the happy path with set labeling
func TestIngestGamesStoresValidRows(t *testing.T) {
	feed := &fakeGameFeed{records: []datasource.GameRecord{
		{SourceID: "g1", Season: 2025, Week: 2, HomeTeam: "Georgia", AwayTeam: "Alabama",
			Completed: true, Spread: dec("-3.5")},
		{SourceID: "g2", Season: 2025, Week: 10, HomeTeam: "Texas", AwayTeam: "Oklahoma",
			Completed: true, Spread: dec("6.5")},
	}}

	svc, gameRepo, _, _ := newTestService(feed, nil)

	stats, err := svc.IngestGames(context.Background(), 2025, []int{2, 10}, []int{9, 10, 11})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.StoredGames != 2 {
		t.Fatalf("expected 2 stored games, got %d", stats.StoredGames)
	}

	if gameRepo.games[0].SetLabel != models.SetLabelSecondary {
		t.Errorf("expected week 2 labeled B, got %s", gameRepo.games[0].SetLabel)
	}
	if gameRepo.games[1].SetLabel != models.SetLabelPrimary {
		t.Errorf("expected week 10 labeled A, got %s", gameRepo.games[1].SetLabel)
	}

	if gameRepo.games[0].HomeTeamID != "georgia" {
		t.Errorf("expected canonical team ID, got %s", gameRepo.games[0].HomeTeamID)
	}
}

// TestIngestGamesRejectsBadRows tests rejection of incomplete and lineless games
func TestIngestGamesRejectsBadRows(t *testing.T) {
	feed := &fakeGameFeed{records: []datasource.GameRecord{
		{SourceID: "g1", Season: 2025, Week: 2, HomeTeam: "Georgia", AwayTeam: "Alabama",
			Completed: false, Spread: dec("-3.5")},
		{SourceID: "g2", Season: 2025, Week: 2, HomeTeam: "Texas", AwayTeam: "Oklahoma",
			Completed: true, Spread: nil},
		{SourceID: "g3", Season: 2025, Week: 2, HomeTeam: "Ohio State", AwayTeam: "Ohio State",
			Completed: true, Spread: dec("1.0")},
		{SourceID: "g4", Season: 2025, Week: 2, HomeTeam: "Michigan", AwayTeam: "Iowa",
			Completed: true, Spread: dec("-7.0")},
	}}

	svc, gameRepo, _, _ := newTestService(feed, nil)

	stats, err := svc.IngestGames(context.Background(), 2025, []int{2}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.StoredGames != 1 {
		t.Errorf("expected 1 stored game, got %d", stats.StoredGames)
	}
	if stats.Skipped != 3 {
		t.Errorf("expected 3 skipped records, got %d", stats.Skipped)
	}
	if len(gameRepo.games) != 1 || gameRepo.games[0].HomeTeamID != "michigan" {
		t.Errorf("unexpected stored games: %+v", gameRepo.games)
	}
}

// TestIngestGamesDropsDuplicates tests in-batch deduplication
func TestIngestGamesDropsDuplicates(t *testing.T) {
	record := datasource.GameRecord{
		SourceID: "g1", Season: 2025, Week: 2, HomeTeam: "Georgia", AwayTeam: "Alabama",
		Completed: true, Spread: dec("-3.5"),
	}
	feed := &fakeGameFeed{records: []datasource.GameRecord{record, record}}

	svc, gameRepo, _, _ := newTestService(feed, nil)

	stats, err := svc.IngestGames(context.Background(), 2025, []int{2}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.StoredGames != 1 || len(gameRepo.games) != 1 {
		t.Errorf("expected exactly 1 stored game, got %d", len(gameRepo.games))
	}
}

// TestIngestGamesFeedError tests feed failure propagation
func TestIngestGamesFeedError(t *testing.T) {
	feed := &fakeGameFeed{err: errors.New("upstream down")}

	svc, _, _, _ := newTestService(feed, nil)

	_, err := svc.IngestGames(context.Background(), 2025, []int{2}, nil)
	if err == nil {
		t.Fatal("expected error from failing feed")
	}
}

// TestIngestTeamSignals tests prior and external rating ingestion
func TestIngestTeamSignals(t *testing.T) {
	teams := &fakeTeamFeed{
		talent: []datasource.TalentRecord{
			{Team: "Georgia", Season: 2025, TalentScore: dec("982.4"), ReturningOff: dec("0.61")},
			{Team: "", Season: 2025},
		},
		ratings: []datasource.ExternalRatingRecord{
			{Team: "Georgia", Season: 2025, Rating: decimal.NewFromFloat(27.1)},
		},
	}

	svc, _, priorRepo, ratingRepo := newTestService(nil, teams)

	stats, err := svc.IngestTeamSignals(context.Background(), 2025)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.StoredTeams != 1 {
		t.Errorf("expected 1 stored prior, got %d", stats.StoredTeams)
	}
	if len(priorRepo.priors) != 1 {
		t.Fatalf("expected 1 prior, got %d", len(priorRepo.priors))
	}
	if priorRepo.priors[0].ReturningProdDef != nil {
		t.Error("expected nil returning defense signal")
	}
	if len(ratingRepo.ratings) != 1 || ratingRepo.ratings[0].Rating != 27.1 {
		t.Errorf("unexpected external ratings: %+v", ratingRepo.ratings)
	}
}
