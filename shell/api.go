package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/config"
	"github.com/domino14/tictac/evaluator"
	"github.com/domino14/tictac/game"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) newGame(ctx context.Context, cmd *shellcmd) (*Response, error) {
	size := sc.config.BoardSize
	diff := sc.difficulty
	for _, arg := range cmd.args {
		if n, err := strconv.Atoi(arg); err == nil {
			size = n
			continue
		}
		d, err := selector.ParseDifficulty(arg)
		if err != nil {
			return nil, err
		}
		diff = d
	}
	humanFirst := sc.humanFirst
	switch strings.ToLower(cmd.options.String("first")) {
	case "":
	case "human", "me", "you":
		humanFirst = true
	case "ai", "bot":
		humanFirst = false
	default:
		return nil, errors.New("-first must be human or ai")
	}

	g, err := game.NewGame(size, game.HumanVsBot(humanFirst))
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.difficulty = diff
	sc.humanFirst = humanFirst

	var sb strings.Builder
	fmt.Fprintf(&sb, "New %dx%d game, %v mode. You play %v.\n", size, size, diff, sc.humanMark())
	if !humanFirst {
		if err := sc.botTurn(ctx, &sb); err != nil {
			return nil, err
		}
	}
	sb.WriteString(g.Board().ToDisplayText())
	return msg(sb.String()), nil
}

func (sc *ShellController) humanMark() board.Mark {
	if sc.humanFirst {
		return board.X
	}
	return board.O
}

func (sc *ShellController) play(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <cell>")
	}
	if sc.game.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	if sc.game.PlayerOnTurn() != sc.humanMark() {
		return nil, errors.New("it is not your turn")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a cell number", board.ErrInvalidCoord, cmd.args[0])
	}
	dim := sc.game.Board().Dim()
	c, err := board.CoordFromCellNumber(dim, n)
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(c, "human"); err != nil {
		return nil, err
	}

	var sb strings.Builder
	if sc.game.Playing() == game.Playing {
		if err := sc.botTurn(ctx, &sb); err != nil {
			return nil, err
		}
	}
	sb.WriteString(sc.game.Board().ToDisplayText())
	sc.writeResult(&sb)
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// aiMove lets the bot move for whoever is on turn.
func (sc *ShellController) aiMove(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	var sb strings.Builder
	if err := sc.botTurn(ctx, &sb); err != nil {
		return nil, err
	}
	sb.WriteString(sc.game.Board().ToDisplayText())
	sc.writeResult(&sb)
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) botTurn(ctx context.Context, sb *strings.Builder) error {
	d, err := sc.chooser.chooseMove(ctx, sc.game, sc.difficulty)
	if err != nil {
		return err
	}
	mark := sc.game.PlayerOnTurn()
	if err := sc.game.PlayMove(d.Move, d.Method.String()); err != nil {
		return err
	}
	dim := sc.game.Board().Dim()
	fmt.Fprintf(sb, "AI (%v) %s move: %d\n", mark, d.Method, d.Move.CellNumber(dim))
	return nil
}

func (sc *ShellController) writeResult(sb *strings.Builder) {
	if sc.game.Playing() != game.GameOver {
		return
	}
	res := sc.game.Outcome()
	sb.WriteString("\n")
	switch {
	case res.Outcome == evaluator.Drawn:
		sb.WriteString("Tie")
	case res.Winner == sc.humanMark():
		sb.WriteString("You won")
	default:
		sb.WriteString("AI won")
	}
	if res.Outcome == evaluator.Won {
		cells := make([]string, len(res.Line.Coords))
		for i, c := range res.Line.Coords {
			cells[i] = strconv.Itoa(c.CellNumber(sc.game.Board().Dim()))
		}
		fmt.Fprintf(sb, " (%v %d: cells %s)", res.Line.Kind, res.Line.Index, strings.Join(cells, ", "))
	}
	sb.WriteString("\n")
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	sb.WriteString(sc.game.Board().ToDisplayText())
	if sc.game.Playing() == game.Playing {
		fmt.Fprintf(&sb, "\n%v to move (%s)", sc.game.PlayerOnTurn(), sc.game.NickOnTurn())
	} else {
		sc.writeResult(&sb)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if err := sc.game.UnplayLastMove(); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sc.game.Board().ToDisplayText(), "\n")), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.HistoryString()), nil
}

var shownSettings = []string{
	config.KeyBoardSize, config.KeyDifficulty, config.KeyDebug, config.KeyHumanFirst,
	config.KeySearchPlyMargin, config.KeyHeuristicAccept, config.KeyEasyRandomMove,
	config.KeyEasyEstimate, config.KeyCacheSolves, config.KeyBotChannel,
}

func (sc *ShellController) settingValue(key string) string {
	c := sc.config
	switch key {
	case config.KeyBoardSize:
		return strconv.Itoa(c.BoardSize)
	case config.KeyDifficulty:
		return c.Difficulty.String()
	case config.KeyDebug:
		return strconv.FormatBool(c.Debug)
	case config.KeyHumanFirst:
		return strconv.FormatBool(c.HumanFirst)
	case config.KeySearchPlyMargin:
		return strconv.Itoa(c.SearchPlyMargin)
	case config.KeyHeuristicAccept:
		return c.HeuristicAccept.String()
	case config.KeyEasyRandomMove:
		return c.EasyRandomMove.String()
	case config.KeyEasyEstimate:
		return c.EasyEstimate.String()
	case config.KeyCacheSolves:
		return strconv.FormatBool(c.CacheSolves)
	case config.KeyBotChannel:
		return c.BotChannel
	}
	return ""
}

// set shows or changes settings. Changes apply to the next new game; the
// selector odds apply right away.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		lines := make([]string, len(shownSettings))
		for i, k := range shownSettings {
			lines[i] = fmt.Sprintf("%-18s %s", k, sc.settingValue(k))
		}
		return msg(strings.Join(lines, "\n")), nil
	}
	key := cmd.args[0]
	if len(cmd.args) == 1 {
		return msg(key + " = " + sc.settingValue(key)), nil
	}
	if key == config.KeyBotChannel {
		return nil, errors.New("bot-channel can only be set at startup")
	}
	if err := sc.config.Set(key, cmd.args[1]); err != nil {
		return nil, err
	}
	sc.difficulty = sc.config.Difficulty
	sc.humanFirst = sc.config.HumanFirst
	if key == config.KeyDebug {
		SetLogLevel(sc.config.Debug)
	}
	if _, ok := sc.chooser.(*localChooser); ok {
		sc.chooser = &localChooser{sel: selector.NewSelector(sc.config.SelectorParams(), sc.rng)}
	}
	return msg("set " + key + " to " + cmd.args[1]), nil
}
