package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/tictac/ai/alphabeta"
	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/board"
)

const envPrefix = "TICTAC"

const (
	KeyConfigFile        = "config"
	KeyBoardSize         = "board-size"
	KeyDifficulty        = "difficulty"
	KeyDebug             = "debug"
	KeyHumanFirst        = "human-first"
	KeySearchPlyMargin   = "search-ply-margin"
	KeyHeuristicAccept   = "heuristic-accept"
	KeyEasyRandomMove    = "easy-random-move"
	KeyEasyEstimate      = "easy-estimate"
	KeyCacheSolves       = "cache-solves"
	KeyNodeCheckInterval = "node-check-interval"
	KeyNatsURL           = "nats-url"
	KeyBotChannel        = "bot-channel"
	KeyBotTimeout        = "bot-timeout"
	KeyAutoplayGames     = "autoplay-games"
	KeyAutoplayThreads   = "autoplay-threads"
	KeyAutoplayLogfile   = "autoplay-logfile"
	KeyAutoplaySummary   = "autoplay-summary"
	KeyHistoryFile       = "history-file"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	BoardSize  int
	Difficulty selector.Difficulty
	Debug      bool
	HumanFirst bool

	SearchPlyMargin   int
	HeuristicAccept   selector.Odds
	EasyRandomMove    selector.Odds
	EasyEstimate      selector.Odds
	CacheSolves       bool
	NodeCheckInterval int

	NatsURL    string
	BotChannel string
	BotTimeout time.Duration

	AutoplayGames   int
	AutoplayThreads int
	AutoplayLogfile string
	AutoplaySummary string

	HistoryFile string

	// Args are the positional arguments left after the flags.
	Args []string
}

// DefaultConfig is what you get with no flags, no environment and no
// config file.
func DefaultConfig() *Config {
	p := selector.DefaultParams()
	return &Config{
		BoardSize:         board.DefaultDim,
		Difficulty:        selector.Hard,
		HumanFirst:        true,
		SearchPlyMargin:   p.SearchPlyMargin,
		HeuristicAccept:   p.HeuristicAccept,
		EasyRandomMove:    p.EasyRandomMove,
		EasyEstimate:      p.EasyEstimate,
		CacheSolves:       true,
		NodeCheckInterval: alphabeta.DefaultNodeCheckInterval,
		NatsURL:           "nats://127.0.0.1:4222",
		BotChannel:        "",
		BotTimeout:        10 * time.Second,
		AutoplayGames:     100,
		AutoplayThreads:   4,
		AutoplayLogfile:   "/tmp/autoplay.txt",
		AutoplaySummary:   "/tmp/autoplay-summary.yaml",
		HistoryFile:       "/tmp/tictac-readline-history",
	}
}

func flagSet(name string) *pflag.FlagSet {
	d := DefaultConfig()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(KeyConfigFile, "", "path to a config file (yaml, json or toml)")
	fs.Int(KeyBoardSize, d.BoardSize, "the board is board-size x board-size")
	fs.String(KeyDifficulty, d.Difficulty.String(), "easy or hard")
	fs.Bool(KeyDebug, d.Debug, "debug logging")
	fs.Bool(KeyHumanFirst, d.HumanFirst, "the human plays X and moves first")
	fs.Int(KeySearchPlyMargin, d.SearchPlyMargin, "search once fewer than this many plies are left")
	fs.String(KeyHeuristicAccept, d.HeuristicAccept.String(), "odds of taking the advisor's move")
	fs.String(KeyEasyRandomMove, d.EasyRandomMove.String(), "odds of an easy estimate being random")
	fs.String(KeyEasyEstimate, d.EasyEstimate.String(), "odds of an easy player estimating late in the game")
	fs.Bool(KeyCacheSolves, d.CacheSolves, "cache solved root positions")
	fs.Int(KeyNodeCheckInterval, d.NodeCheckInterval, "nodes between cancellation checks")
	fs.String(KeyNatsURL, d.NatsURL, "the NATS server")
	fs.String(KeyBotChannel, d.BotChannel, "NATS subject of a remote bot; empty plays locally")
	fs.Duration(KeyBotTimeout, d.BotTimeout, "how long to wait for a remote move")
	fs.Int(KeyAutoplayGames, d.AutoplayGames, "number of computer-vs-computer games")
	fs.Int(KeyAutoplayThreads, d.AutoplayThreads, "games to play at once")
	fs.String(KeyAutoplayLogfile, d.AutoplayLogfile, "where to write the autoplay move log")
	fs.String(KeyAutoplaySummary, d.AutoplaySummary, "where to write the autoplay summary")
	fs.String(KeyHistoryFile, d.HistoryFile, "readline history file")
	return fs
}

// Load fills in the config from, in increasing order of precedence,
// defaults, a config file, TICTAC_* environment variables and flags.
func (c *Config) Load(args []string) error {
	fs := flagSet("tictac")
	if err := fs.Parse(args); err != nil {
		return err
	}
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString(KeyConfigFile); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", cfgFile, err)
		}
	}
	if err := c.fromViper(v); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		c.Args = fs.Args()
	}
	return nil
}

func (c *Config) fromViper(v *viper.Viper) error {
	var err error
	c.BoardSize = v.GetInt(KeyBoardSize)
	if c.Difficulty, err = selector.ParseDifficulty(v.GetString(KeyDifficulty)); err != nil {
		return err
	}
	c.Debug = v.GetBool(KeyDebug)
	c.HumanFirst = v.GetBool(KeyHumanFirst)
	c.SearchPlyMargin = v.GetInt(KeySearchPlyMargin)
	if c.HeuristicAccept, err = selector.ParseOdds(v.GetString(KeyHeuristicAccept)); err != nil {
		return fmt.Errorf("%s: %w", KeyHeuristicAccept, err)
	}
	if c.EasyRandomMove, err = selector.ParseOdds(v.GetString(KeyEasyRandomMove)); err != nil {
		return fmt.Errorf("%s: %w", KeyEasyRandomMove, err)
	}
	if c.EasyEstimate, err = selector.ParseOdds(v.GetString(KeyEasyEstimate)); err != nil {
		return fmt.Errorf("%s: %w", KeyEasyEstimate, err)
	}
	c.CacheSolves = v.GetBool(KeyCacheSolves)
	c.NodeCheckInterval = v.GetInt(KeyNodeCheckInterval)
	c.NatsURL = v.GetString(KeyNatsURL)
	c.BotChannel = v.GetString(KeyBotChannel)
	c.BotTimeout = v.GetDuration(KeyBotTimeout)
	c.AutoplayGames = v.GetInt(KeyAutoplayGames)
	c.AutoplayThreads = v.GetInt(KeyAutoplayThreads)
	c.AutoplayLogfile = v.GetString(KeyAutoplayLogfile)
	c.AutoplaySummary = v.GetString(KeyAutoplaySummary)
	c.HistoryFile = v.GetString(KeyHistoryFile)
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.BoardSize < board.MinDim || c.BoardSize > board.MaxDim {
		return fmt.Errorf("%w: board size %d must be between %d and %d",
			ErrInvalidConfig, c.BoardSize, board.MinDim, board.MaxDim)
	}
	if err := c.SelectorParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.NodeCheckInterval < 1 {
		return fmt.Errorf("%w: node check interval must be positive", ErrInvalidConfig)
	}
	if c.AutoplayThreads < 1 || c.AutoplayGames < 0 {
		return fmt.Errorf("%w: need at least one autoplay thread and a non-negative game count", ErrInvalidConfig)
	}
	return nil
}

// SelectorParams carries the tunable odds over to the move selector.
func (c *Config) SelectorParams() selector.Params {
	return selector.Params{
		SearchPlyMargin:   c.SearchPlyMargin,
		HeuristicAccept:   c.HeuristicAccept,
		EasyRandomMove:    c.EasyRandomMove,
		EasyEstimate:      c.EasyEstimate,
		CacheSolves:       c.CacheSolves,
		NodeCheckInterval: c.NodeCheckInterval,
	}
}

// Set changes one setting by key, the way the shell's set command does.
func (c *Config) Set(key, value string) error {
	v := viper.New()
	v.Set(KeyBoardSize, c.BoardSize)
	v.Set(KeyDifficulty, c.Difficulty.String())
	v.Set(KeyDebug, c.Debug)
	v.Set(KeyHumanFirst, c.HumanFirst)
	v.Set(KeySearchPlyMargin, c.SearchPlyMargin)
	v.Set(KeyHeuristicAccept, c.HeuristicAccept.String())
	v.Set(KeyEasyRandomMove, c.EasyRandomMove.String())
	v.Set(KeyEasyEstimate, c.EasyEstimate.String())
	v.Set(KeyCacheSolves, c.CacheSolves)
	v.Set(KeyNodeCheckInterval, c.NodeCheckInterval)
	v.Set(KeyNatsURL, c.NatsURL)
	v.Set(KeyBotChannel, c.BotChannel)
	v.Set(KeyBotTimeout, c.BotTimeout)
	v.Set(KeyAutoplayGames, c.AutoplayGames)
	v.Set(KeyAutoplayThreads, c.AutoplayThreads)
	v.Set(KeyAutoplayLogfile, c.AutoplayLogfile)
	v.Set(KeyAutoplaySummary, c.AutoplaySummary)
	v.Set(KeyHistoryFile, c.HistoryFile)

	if !v.IsSet(key) {
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidConfig, key)
	}
	v.Set(key, value)
	nc := *c
	if err := nc.fromViper(v); err != nil {
		return err
	}
	*c = nc
	return nil
}
