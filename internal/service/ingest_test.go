package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/repo"
	"github.com/lottostats/backend/internal/source/llm"
)

type fakeLotto struct {
	draws []*model.Draw
	after []int
}

func (f *fakeLotto) Name() string { return "fake" }

func (f *fakeLotto) FetchDraws(_ context.Context, after int) ([]*model.Draw, error) {
	f.after = append(f.after, after)
	return lo.Filter(f.draws, func(d *model.Draw, _ int) bool { return d.Round > after }), nil
}

type fakePension struct {
	latest int
}

func (f *fakePension) Name() string { return "fake" }

func (f *fakePension) LatestRound(context.Context) (int, error) { return f.latest, nil }

func (f *fakePension) FetchDraw(_ context.Context, round int) (*model.PensionDraw, error) {
	return pensionDraw(round, round%5+1, "123456"), nil
}

type fakeSpeetto []*model.SpeettoStatus

func (f fakeSpeetto) FetchStatuses(context.Context) ([]*model.SpeettoStatus, error) { return f, nil }

type fakeRecommender struct{}

func (fakeRecommender) Enabled(p llm.Provider) bool { return p.Key != "" }

func (fakeRecommender) Ask(_ context.Context, p llm.Provider) (*llm.Answer, error) {
	if p.Name == "broken" {
		return nil, errors.New("upstream returned 503")
	}
	return &llm.Answer{Numbers: []int{1, 2, 3, 4, 5, 6}, Reasoning: "balanced", Raw: "{}"}, nil
}

func newIngest(t *testing.T) (*Ingest, *fixture) {
	f := newFixture(t)
	return &Ingest{
		DrawService:           f.draw,
		PensionService:        NewPension(repo.NewPensionDraw(f.db)),
		SpeettoService:        NewSpeetto(repo.NewSpeettoStatus(f.db)),
		RecommendationService: NewRecommendation(repo.NewRecommendation(f.db)),
		Updater:               f.updater,
		Recommender:           fakeRecommender{},
		dispatch:              appconfig.DispatchInProcess,
	}, f
}

func TestIngestLotto(t *testing.T) {
	s, f := newIngest(t)
	ctx := context.Background()

	source := &fakeLotto{draws: sequence()[:3]}
	s.Lotto = source

	resp, err := s.IngestLotto(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fake", resp.Source)
	assert.Equal(t, 3, resp.Fetched)
	assert.Equal(t, []int{1, 2, 3}, resp.Inserted)
	require.NotNil(t, resp.Update)
	assert.Equal(t, []int{2, 3}, resp.Update.Applied)
	assert.Equal(t, 3, resp.Update.AnalyzedFor)

	// a later run only asks for rounds past the store
	source.draws = sequence()
	resp, err = s.IngestLotto(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, source.after)
	assert.Equal(t, []int{4}, resp.Inserted)
	assert.Equal(t, []int{4}, resp.Update.Applied)

	resp, err = s.IngestLotto(ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Inserted)
	assert.Nil(t, resp.Update)

	n, err := f.carryover.RecordRepo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestIngestLottoSkipsMalformed(t *testing.T) {
	s, _ := newIngest(t)
	ctx := context.Background()

	s.Lotto = &fakeLotto{draws: []*model.Draw{
		draw(1, 7, 1, 2, 3, 4, 5, 6),
		draw(2, 4, 4, 5, 6, 7, 8, 9),
	}}

	resp, err := s.IngestLotto(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Fetched)
	assert.Equal(t, []int{1}, resp.Inserted)
	assert.Equal(t, []int{2}, resp.Rejected)
	assert.Equal(t, []int{1}, resp.Update.Skipped)
}

func TestIngestPension(t *testing.T) {
	s, _ := newIngest(t)
	ctx := context.Background()

	source := &fakePension{latest: 100}
	s.Pension = source

	// an empty store starts at the latest round
	resp, err := s.IngestPension(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{100}, resp.Inserted)

	source.latest = 102
	resp, err = s.IngestPension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Fetched)
	assert.Equal(t, []int{101, 102}, resp.Inserted)

	n, err := s.PensionService.CountDraws(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSyncSpeetto(t *testing.T) {
	s, _ := newIngest(t)
	ctx := context.Background()

	status := func(rate string) []*model.SpeettoStatus {
		return []*model.SpeettoStatus{{
			SpeettoType:  "2000",
			Round:        58,
			StockingRate: null.StringFrom(rate),
			Ranks:        []model.SpeettoRank{{Rank: 1, Prize: null.IntFrom(1000000000), LeftCount: null.IntFrom(2)}},
		}}
	}

	s.Speetto = fakeSpeetto(status("41"))
	resp, err := s.SyncSpeetto(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Saved)

	// the same edition is updated in place
	s.Speetto = fakeSpeetto(status("77"))
	_, err = s.SyncSpeetto(ctx)
	require.NoError(t, err)

	statuses, err := s.SpeettoService.GetStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "77", statuses[0].StockingRate.String)
	require.Len(t, statuses[0].Ranks, 1)
	assert.EqualValues(t, 2, statuses[0].Ranks[0].LeftCount.Int64)
}

func TestFetchRecommendations(t *testing.T) {
	s, _ := newIngest(t)
	ctx := context.Background()

	s.Providers = []llm.Provider{
		{Name: "working", Agency: "A", Key: "a"},
		{Name: "broken", Agency: "B", Key: "b"},
		{Name: "keyless", Agency: "C"},
	}

	resp, err := s.FetchRecommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Saved)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "broken")

	// refetching in the same week replaces the row
	_, err = s.FetchRecommendations(ctx)
	require.NoError(t, err)

	recs, err := s.RecommendationService.GetLatest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "working", recs[0].Provider)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, recs[0].Numbers)
}

func TestUpdateMsgID(t *testing.T) {
	assert.Equal(t, updateMsgID([]int{1101, 1102}), updateMsgID([]int{1101, 1102}))
	assert.NotEqual(t, updateMsgID([]int{1101, 1102}), updateMsgID([]int{1101}))
	assert.NotEqual(t, updateMsgID([]int{11, 1}), updateMsgID([]int{1, 11}))
	assert.Regexp(t, `^draw-update-[0-9a-f]{16}$`, updateMsgID([]int{7}))
}
