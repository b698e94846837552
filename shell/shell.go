package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/bot"
	"github.com/domino14/tictac/config"
	"github.com/domino14/tictac/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; type new to start one")
	errExit              = errors.New("exit requested")
)

// moveChooser is anything that can come up with a move for the player on
// turn: the local selector or a remote bot.
type moveChooser interface {
	chooseMove(ctx context.Context, g *game.Game, diff selector.Difficulty) (selector.Decision, error)
}

type localChooser struct {
	sel *selector.Selector
}

func (c *localChooser) chooseMove(ctx context.Context, g *game.Game, diff selector.Difficulty) (selector.Decision, error) {
	return c.sel.ChooseMove(ctx, g.Board(), selector.MatchContext{
		Ply:        g.Ply(),
		Difficulty: diff,
		ToMove:     g.PlayerOnTurn(),
	})
}

type remoteChooser struct {
	client *bot.Client
}

func (c *remoteChooser) chooseMove(ctx context.Context, g *game.Game, diff selector.Difficulty) (selector.Decision, error) {
	return c.client.RequestMove(ctx, g.Board(), selector.MatchContext{
		Ply:        g.Ply(),
		Difficulty: diff,
		ToMove:     g.PlayerOnTurn(),
	})
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config  *config.Config
	rng     selector.Randomizer
	chooser moveChooser
	remote  *bot.Client

	game       *game.Game
	difficulty selector.Difficulty
	humanFirst bool
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// SetLogLevel switches between debug logging and the quiet level the shell
// normally runs at, since the log shares the terminal with the prompt.
func SetLogLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up the readline prompt. When cfg.BotChannel is
// set, moves come from a remote bot instead of the local selector.
func NewShellController(ctx context.Context, cfg *config.Config) (*ShellController, error) {
	sc := newController(cfg, os.Stdout, nil)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "tictac> ",
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	sc.out = l.Stdout()

	if cfg.BotChannel != "" {
		client, err := bot.NewClient(ctx, cfg)
		if err != nil {
			l.Close()
			return nil, err
		}
		sc.remote = client
		sc.chooser = &remoteChooser{client: client}
	}
	return sc, nil
}

func newController(cfg *config.Config, out io.Writer, rng selector.Randomizer) *ShellController {
	return &ShellController{
		out:        out,
		config:     cfg,
		rng:        rng,
		chooser:    &localChooser{sel: selector.NewSelector(cfg.SelectorParams(), rng)},
		difficulty: cfg.Difficulty,
		humanFirst: cfg.HumanFirst,
	}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	// handle options
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			// option
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[idx][1:]
			options[key] = append(options[key], fields[idx+1])
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

func (sc *ShellController) handle(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(ctx, cmd)
	case "play", "p":
		return sc.play(ctx, cmd)
	case "ai":
		return sc.aiMove(ctx, cmd)
	case "show":
		return sc.show(cmd)
	case "undo":
		return sc.undo(cmd)
	case "history":
		return sc.history(cmd)
	case "set":
		return sc.set(cmd)
	default:
		// A bare number is a move.
		if _, err := strconv.Atoi(cmd.cmd); err == nil {
			return sc.play(ctx, &shellcmd{cmd: "play", args: []string{cmd.cmd}})
		}
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, errors.New("command " + strconv.Quote(cmd.cmd) + " not found")
	}
}

// Loop reads commands until exit, EOF or an interrupt on an empty line.
func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) {
	defer sc.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.handle(ctx, line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Close() {
	if sc.remote != nil {
		sc.remote.Close()
	}
	if sc.l != nil {
		sc.l.Close()
	}
}
