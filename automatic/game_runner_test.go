package automatic

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/config"
	"github.com/domino14/tictac/evaluator"
)

func TestPlayFullGameHardVsHard(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 20)
	runner := NewGameRunner(logchan, config.DefaultConfig(), selector.Hard, selector.Hard, nil)

	rec, err := runner.PlayFullGame(context.Background())
	is.NoErr(err)
	close(logchan)
	// Perfect play on 3x3 is always a draw.
	is.Equal(rec.Outcome, evaluator.Drawn)
	is.Equal(rec.Plies, 9)
	is.Equal(rec.Searched, 9)
	is.Equal(rec.Estimated, 0)
	is.Equal(runner.Game().Board().Count(board.Empty), 0)

	var lines []string
	for l := range logchan {
		lines = append(lines, l)
	}
	is.Equal(len(lines), 9)
	is.Equal(lines[0], fmt.Sprintf("bot-x,%s,1,X,0,0,evaluated,0,ongoing\n", rec.UID))
	is.True(strings.HasSuffix(lines[8], ",drawn\n"))
}

func TestHardOnNeverLoses(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 10; i++ {
		runner := NewGameRunner(nil, config.DefaultConfig(), selector.Easy, selector.Hard, nil)
		rec, err := runner.PlayFullGame(context.Background())
		is.NoErr(err)
		is.True(rec.Outcome == evaluator.Drawn || rec.Winner == board.O)
	}
}
