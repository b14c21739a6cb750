package cache

import (
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gopkg.in/guregu/null.v3"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/cache"
)

type Flusher func() error

var (
	Draws       *cache.Singular[[]*model.Draw]
	DrawByRound *cache.Set[model.Draw]
	LatestDraw  *cache.Singular[model.Draw]

	CarryoverSummary   *cache.Singular[[]*model.CarryoverSummary]
	CarryoverCaseStats *cache.Set[types.CarryoverCaseStats]
	CarryoverAnalysis  *cache.Set[types.CandidateAnalysis]

	Combos *cache.Set[[]*model.ComboAnalysis]

	NumberStats *cache.Singular[[]*model.LottoNumberStat]
	NumberGaps  *cache.Singular[[]*model.LottoNumberGap]
	DigitStats  *cache.Singular[[]*model.PensionDigitStat]

	PensionDraws       *cache.Singular[[]*model.PensionDraw]
	PensionDrawByRound *cache.Set[model.PensionDraw]

	SpeettoStatuses *cache.Singular[[]*model.SpeettoStatus]

	Recommendations *cache.Set[[]*model.Recommendation]

	LastModifiedTime *cache.Set[time.Time]

	once sync.Once

	SetMap             map[string]Flusher
	SingularFlusherMap map[string]Flusher

	// groups name the caches derived from one kind of source data
	groups map[string][]Flusher
)

const (
	GroupLotto   = "lotto"
	GroupPension = "pension"
	GroupSpeetto = "speetto"
	GroupAI      = "ai"
)

// Initialize builds the caches once. With a Redis client every process
// shares the entries, so a flush after a write in the worker or the CLI
// reaches the server too. A nil client keeps them in process.
func Initialize(client *redis.Client) {
	once.Do(func() {
		initializeCaches(client)
		log.Info().
			Str("evt.name", "cache.initialized").
			Bool("redis", client != nil).
			Msg("caches initialized")
	})
}

func Delete(name string, key null.String) error {
	if key.Valid {
		if _, ok := SetMap[name]; ok {
			if err := SetMap[name](); err != nil {
				return err
			}
		}
	} else {
		if _, ok := SingularFlusherMap[name]; ok {
			if err := SingularFlusherMap[name](); err != nil {
				return err
			}
		} else if _, ok := SetMap[name]; ok {
			if err := SetMap[name](); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlushGroup drops every cache derived from the named source data.
func FlushGroup(group string) {
	for _, f := range groups[group] {
		if err := f(); err != nil {
			log.Warn().Err(err).Str("group", group).Msg("failed to flush cache")
		}
	}
	_ = LastModifiedTime.Flush()
}

func initializeCaches(client *redis.Client) {
	SetMap = make(map[string]Flusher)
	SingularFlusherMap = make(map[string]Flusher)
	groups = make(map[string][]Flusher)

	singular := func(group, name string, f Flusher) {
		SingularFlusherMap[name] = f
		groups[group] = append(groups[group], f)
	}
	set := func(group, name string, f Flusher) {
		SetMap[name] = f
		groups[group] = append(groups[group], f)
	}

	// draws
	Draws = cache.NewSingular[[]*model.Draw](client, "draws")
	DrawByRound = cache.NewSet[model.Draw](client, "draw#round")
	LatestDraw = cache.NewSingular[model.Draw](client, "latestDraw")

	singular(GroupLotto, "draws", Draws.Delete)
	set(GroupLotto, "draw#round", DrawByRound.Flush)
	singular(GroupLotto, "latestDraw", LatestDraw.Delete)

	// carryover
	CarryoverSummary = cache.NewSingular[[]*model.CarryoverSummary](client, "carryoverSummary")
	CarryoverCaseStats = cache.NewSet[types.CarryoverCaseStats](client, "carryoverCaseStats#count|includeBonus|mustIncludeBonus")
	CarryoverAnalysis = cache.NewSet[types.CandidateAnalysis](client, "carryoverAnalysis#includeBonus|pick")

	singular(GroupLotto, "carryoverSummary", CarryoverSummary.Delete)
	set(GroupLotto, "carryoverCaseStats#count|includeBonus|mustIncludeBonus", CarryoverCaseStats.Flush)
	set(GroupLotto, "carryoverAnalysis#includeBonus|pick", CarryoverAnalysis.Flush)

	// combos
	Combos = cache.NewSet[[]*model.ComboAnalysis](client, "combos#round|size|includeBonus|minAppear|limit")

	set(GroupLotto, "combos#round|size|includeBonus|minAppear|limit", Combos.Flush)

	// stats
	NumberStats = cache.NewSingular[[]*model.LottoNumberStat](client, "numberStats")
	NumberGaps = cache.NewSingular[[]*model.LottoNumberGap](client, "numberGaps")
	DigitStats = cache.NewSingular[[]*model.PensionDigitStat](client, "digitStats")

	singular(GroupLotto, "numberStats", NumberStats.Delete)
	singular(GroupLotto, "numberGaps", NumberGaps.Delete)
	singular(GroupPension, "digitStats", DigitStats.Delete)

	// pension
	PensionDraws = cache.NewSingular[[]*model.PensionDraw](client, "pensionDraws")
	PensionDrawByRound = cache.NewSet[model.PensionDraw](client, "pensionDraw#round")

	singular(GroupPension, "pensionDraws", PensionDraws.Delete)
	set(GroupPension, "pensionDraw#round", PensionDrawByRound.Flush)

	// speetto
	SpeettoStatuses = cache.NewSingular[[]*model.SpeettoStatus](client, "speettoStatuses")

	singular(GroupSpeetto, "speettoStatuses", SpeettoStatuses.Delete)

	// ai
	Recommendations = cache.NewSet[[]*model.Recommendation](client, "recommendations#limit")

	set(GroupAI, "recommendations#limit", Recommendations.Flush)

	// others
	LastModifiedTime = cache.NewSet[time.Time](client, "lastModifiedTime#key")

	SetMap["lastModifiedTime#key"] = LastModifiedTime.Flush
}
