package snapshot

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/roblox"
)

// statsClient is the slice of the platform client the assembler depends on.
type statsClient interface {
	GameStats(ctx context.Context, universeID int64) (*roblox.GameEntry, error)
	GameVotes(ctx context.Context, universeID int64) (*roblox.VoteEntry, error)
	GameIcons(ctx context.Context, universeID int64) ([]roblox.MediaEntry, error)
	GroupInfo(ctx context.Context, groupID int64) (*roblox.GroupEntry, error)
}

// AssemblerOptions configures an Assembler.
type AssemblerOptions struct {
	Concurrency int
	BatchDelay  time.Duration
	Logger      infra.Logger
}

// Assembler fetches all upstream resource classes for the active
// configuration and merges them into one immutable snapshot. Assemble never
// fails: partial upstream failures degrade to configuration-derived fallback
// entries.
type Assembler struct {
	client      statsClient
	concurrency int
	batchDelay  time.Duration
	logger      infra.Logger
	now         func() time.Time
	titler      cases.Caser
}

// NewAssembler constructs an assembler over the given client.
func NewAssembler(client statsClient, opts AssemblerOptions) *Assembler {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	return &Assembler{
		client:      client,
		concurrency: concurrency,
		batchDelay:  opts.BatchDelay,
		logger:      opts.Logger,
		now:         time.Now,
		titler:      cases.Title(language.English),
	}
}

type iconResult struct {
	universeID int64
	media      []domain.GameMedia
}

// Assemble runs one full capture cycle against the active configuration.
func (a *Assembler) Assemble(ctx context.Context, games []domain.ActiveGame, groups []domain.ActiveGroup) *domain.Snapshot {
	capturedAt := a.now().UTC()

	gameTasks := make([]roblox.Task[domain.GameStat], 0, len(games))
	iconTasks := make([]roblox.Task[iconResult], 0, len(games))
	voteTasks := make([]roblox.Task[roblox.VoteEntry], 0, len(games))
	for _, g := range games {
		g := g
		gameTasks = append(gameTasks, roblox.Task[domain.GameStat]{
			Label: fmt.Sprintf("game-stats:%d", g.UniverseID),
			Run: func(ctx context.Context) (domain.GameStat, error) {
				entry, err := a.client.GameStats(ctx, g.UniverseID)
				if err != nil {
					return domain.GameStat{}, err
				}
				name := entry.Name
				if name == "" {
					name = g.Name
				}
				return domain.GameStat{
					UniverseID: g.UniverseID,
					Name:       name,
					Playing:    entry.Playing,
					Visits:     entry.Visits,
					Favorites:  entry.FavoritedCount,
					MaxPlayers: entry.MaxPlayers,
					Created:    entry.Created,
					Updated:    entry.Updated,
					IsActive:   true,
					IsPlayable: true,
				}, nil
			},
		})
		iconTasks = append(iconTasks, roblox.Task[iconResult]{
			Label: fmt.Sprintf("game-icons:%d", g.UniverseID),
			Run: func(ctx context.Context) (iconResult, error) {
				entries, err := a.client.GameIcons(ctx, g.UniverseID)
				if err != nil {
					return iconResult{}, err
				}
				media := make([]domain.GameMedia, 0, len(entries))
				for _, e := range entries {
					if e.ImageURL == "" {
						continue
					}
					media = append(media, domain.GameMedia{ImageURL: e.ImageURL, State: e.State})
				}
				return iconResult{universeID: g.UniverseID, media: media}, nil
			},
		})
		voteTasks = append(voteTasks, roblox.Task[roblox.VoteEntry]{
			Label: fmt.Sprintf("game-votes:%d", g.UniverseID),
			Run: func(ctx context.Context) (roblox.VoteEntry, error) {
				entry, err := a.client.GameVotes(ctx, g.UniverseID)
				if err != nil {
					return roblox.VoteEntry{}, err
				}
				return *entry, nil
			},
		})
	}

	groupTasks := make([]roblox.Task[domain.GroupStat], 0, len(groups))
	for _, g := range groups {
		g := g
		groupTasks = append(groupTasks, roblox.Task[domain.GroupStat]{
			Label: fmt.Sprintf("group:%d", g.GroupID),
			Run: func(ctx context.Context) (domain.GroupStat, error) {
				entry, err := a.client.GroupInfo(ctx, g.GroupID)
				if err != nil {
					return domain.GroupStat{}, err
				}
				name := entry.Name
				if name == "" {
					name = g.Name
				}
				return domain.GroupStat{
					GroupID:     g.GroupID,
					Name:        name,
					MemberCount: entry.MemberCount,
					Description: entry.Description,
				}, nil
			},
		})
	}

	// The four resource classes are independent; fetch them concurrently,
	// each with its own bounded batch run.
	batchOpts := roblox.BatchOptions{Concurrency: a.concurrency, Delay: a.batchDelay, Logger: a.logger}
	var (
		gameResults  []domain.GameStat
		groupResults []domain.GroupStat
		iconResults  []iconResult
		voteResults  []roblox.VoteEntry
	)
	var g errgroup.Group
	g.Go(func() error {
		gameResults = roblox.RunBatched(ctx, gameTasks, batchOpts)
		return nil
	})
	g.Go(func() error {
		groupResults = roblox.RunBatched(ctx, groupTasks, batchOpts)
		return nil
	})
	g.Go(func() error {
		iconResults = roblox.RunBatched(ctx, iconTasks, batchOpts)
		return nil
	})
	g.Go(func() error {
		voteResults = roblox.RunBatched(ctx, voteTasks, batchOpts)
		return nil
	})
	_ = g.Wait()

	allFailed := len(gameResults) == 0 && len(groupResults) == 0 &&
		len(iconResults) == 0 && len(voteResults) == 0 &&
		(len(games) > 0 || len(groups) > 0)

	// Join votes onto the game results by universe ID; a game with no vote
	// result keeps zero likes.
	votesByUniverse := make(map[int64]roblox.VoteEntry, len(voteResults))
	for _, v := range voteResults {
		votesByUniverse[v.UniverseID] = v
	}
	for i := range gameResults {
		if v, ok := votesByUniverse[gameResults[i].UniverseID]; ok {
			gameResults[i].Likes = v.UpVotes
		}
	}

	if len(gameResults) == 0 {
		gameResults = a.fallbackGames(games)
	}
	if len(groupResults) == 0 {
		groupResults = a.fallbackGroups(groups)
	}

	images := make(map[int64][]domain.GameMedia, len(games))
	if len(iconResults) > 0 {
		for _, r := range iconResults {
			images[r.universeID] = r.media
		}
	} else {
		for _, g := range games {
			if g.ThumbnailURL != "" {
				images[g.UniverseID] = []domain.GameMedia{{ImageURL: g.ThumbnailURL}}
			}
		}
	}

	return &domain.Snapshot{
		CapturedAt: capturedAt,
		Games:      gameResults,
		Groups:     groupResults,
		Images:     images,
		Totals:     domain.ComputeTotals(gameResults, groupResults),
		IsFallback: allFailed,
	}
}

// Fallback builds a snapshot purely from configuration with zeroed metrics.
// Used when the configuration itself could not be read mid-cycle, or when a
// caller needs a deterministic placeholder.
func (a *Assembler) Fallback(games []domain.ActiveGame, groups []domain.ActiveGroup) *domain.Snapshot {
	gameStats := a.fallbackGames(games)
	groupStats := a.fallbackGroups(groups)
	images := make(map[int64][]domain.GameMedia)
	for _, g := range games {
		if g.ThumbnailURL != "" {
			images[g.UniverseID] = []domain.GameMedia{{ImageURL: g.ThumbnailURL}}
		}
	}
	return &domain.Snapshot{
		CapturedAt: a.now().UTC(),
		Games:      gameStats,
		Groups:     groupStats,
		Images:     images,
		Totals:     domain.ComputeTotals(gameStats, groupStats),
		IsFallback: true,
	}
}

func (a *Assembler) fallbackGames(games []domain.ActiveGame) []domain.GameStat {
	out := make([]domain.GameStat, 0, len(games))
	for _, g := range games {
		out = append(out, domain.GameStat{
			UniverseID: g.UniverseID,
			Name:       g.Name,
			IsPlayable: true,
		})
	}
	return out
}

func (a *Assembler) fallbackGroups(groups []domain.ActiveGroup) []domain.GroupStat {
	out := make([]domain.GroupStat, 0, len(groups))
	for _, g := range groups {
		name := g.Name
		if name == "" {
			name = a.titler.String(fmt.Sprintf("group %d", g.GroupID))
		}
		out = append(out, domain.GroupStat{GroupID: g.GroupID, Name: name})
	}
	return out
}
