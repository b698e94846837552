package automatic

// Data collection for automatic games: computer vs computer, many at once.

import (
	"context"
	"errors"
	"expvar"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/config"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int

	ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// Options picks the players for a batch of games.
type Options struct {
	XDifficulty selector.Difficulty
	ODifficulty selector.Difficulty
	// NewRandomizer returns the rng for one game. Nil means the selector
	// default for every game.
	NewRandomizer func(gameIdx int) selector.Randomizer
}

// StartCompVComp plays cfg.AutoplayGames games, cfg.AutoplayThreads at a
// time, and blocks until they are done. Every move goes to the log file and
// the summary is written as YAML; an empty path skips either. If ctx is
// cancelled no new games are started and the summary covers the games that
// did finish.
func StartCompVComp(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	numGames, threads := cfg.AutoplayGames, cfg.AutoplayThreads
	log.Info().Int("games", numGames).Int("threads", threads).
		Str("x", opts.XDifficulty.String()).Str("o", opts.ODifficulty.String()).
		Msg("autoplay-starting")

	var logfile *os.File
	if cfg.AutoplayLogfile != "" {
		var err error
		logfile, err = os.Create(cfg.AutoplayLogfile)
		if err != nil {
			return nil, err
		}
	}

	CVCCounter.Set(0)
	logChan := make(chan string, 100)
	var loggerDone sync.WaitGroup
	loggerDone.Add(1)
	go func() {
		defer loggerDone.Done()
		if logfile == nil {
			for range logChan {
			}
			return
		}
		defer logfile.Close()
		logfile.WriteString(LogHeader)
		for msg := range logChan {
			logfile.WriteString(msg)
		}
		log.Debug().Msg("Exiting turn logger goroutine!")
	}()

	records := make([]GameRecord, 0, numGames)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
gameLoop:
	for i := 0; i < numGames; i++ {
		select {
		case <-gctx.Done():
			log.Info().Int("queued", i).Msg("Got stop signal, exiting soon...")
			break gameLoop
		default:
		}
		var rng selector.Randomizer
		if opts.NewRandomizer != nil {
			rng = opts.NewRandomizer(i)
		}
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			r := NewGameRunner(logChan, cfg, opts.XDifficulty, opts.ODifficulty, rng)
			rec, err := r.PlayFullGame(gctx)
			if err != nil {
				return err
			}
			CVCCounter.Add(1)
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	close(logChan)
	loggerDone.Wait()

	summary := Summarize(records)
	log.Info().Int("games", summary.Games).Int("x-wins", summary.XWins).
		Int("o-wins", summary.OWins).Int("draws", summary.Draws).Msg("autoplay-finished")

	if cfg.AutoplaySummary != "" {
		if werr := summary.WriteFile(cfg.AutoplaySummary); werr != nil {
			return summary, werr
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}
