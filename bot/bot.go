package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/config"
)

var (
	errNoData = errors.New("no data in request")
	// ErrBadRequest is a request that contradicts its own board.
	ErrBadRequest = errors.New("request does not match the board")
)

// Request asks the bot for a move. Board uses the one-line format, rows
// separated by slashes.
type Request struct {
	Board      string `json:"board"`
	ToMove     string `json:"to_move"`
	Ply        int    `json:"ply"`
	Difficulty string `json:"difficulty"`
}

// Response carries either a move or an error.
type Response struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Method string `json:"method,omitempty"`
	Value  int    `json:"value"`
	Error  string `json:"error,omitempty"`
}

type Bot struct {
	sync.Mutex
	config   *config.Config
	selector *selector.Selector
}

func NewBot(cfg *config.Config, rng selector.Randomizer) *Bot {
	return &Bot{
		config:   cfg,
		selector: selector.NewSelector(cfg.SelectorParams(), rng),
	}
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

// Deserialize turns a request payload into a board and the context the
// selector needs.
func Deserialize(data []byte) (*board.Board, selector.MatchContext, error) {
	if len(data) == 0 {
		return nil, selector.MatchContext{}, errNoData
	}
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, selector.MatchContext{}, err
	}
	b, err := board.Parse(req.Board)
	if err != nil {
		return nil, selector.MatchContext{}, err
	}
	if err := b.Validate(); err != nil {
		return nil, selector.MatchContext{}, err
	}
	// The ply and the side to move both follow from the board. A zero ply
	// or an empty to_move means "work it out".
	mc := selector.MatchContext{Ply: b.Plies(), ToMove: b.ToMove()}
	if req.Ply != 0 && req.Ply != mc.Ply {
		return nil, selector.MatchContext{}, fmt.Errorf("%w: ply %d, but the board has %d marks",
			ErrBadRequest, req.Ply, mc.Ply)
	}
	if req.ToMove != "" {
		m, err := board.ParsePlayer(req.ToMove)
		if err != nil {
			return nil, selector.MatchContext{}, err
		}
		if m != mc.ToMove {
			return nil, selector.MatchContext{}, fmt.Errorf("%w: %v to move, but it is %v's turn",
				ErrBadRequest, m, mc.ToMove)
		}
	}
	if mc.Difficulty, err = selector.ParseDifficulty(req.Difficulty); err != nil {
		return nil, selector.MatchContext{}, err
	}
	return b, mc, nil
}

// Handle answers one request. It never fails; problems are reported in the
// response. Each request gets at most config.BotTimeout to think.
func (bot *Bot) Handle(ctx context.Context, data []byte) *Response {
	b, mc, err := Deserialize(data)
	if err != nil {
		return errorResponse("Could not parse request", err)
	}
	if bot.config.BotTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bot.config.BotTimeout)
		defer cancel()
	}
	bot.Lock()
	defer bot.Unlock()
	d, err := bot.selector.ChooseMove(ctx, b, mc)
	if err != nil {
		return errorResponse("Could not choose a move", err)
	}
	log.Info().Str("board", b.String()).Str("move", d.Move.String()).
		Str("method", d.Method.String()).Msg("generated-move")
	return &Response{Row: d.Move.Row, Col: d.Move.Col, Method: d.Method.String(), Value: d.Value}
}

func connectDelay(n uint, err error, config *retry.Config) time.Duration {
	log.Err(err).Uint("n", n).Msg("could-not-connect-try-again")
	return retry.BackOffDelay(n, err, config)
}

// Connect dials NATS, backing off between failed attempts.
func Connect(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.DelayType(connectDelay),
	)
	return nc, err
}

// Main serves moves on cfg.BotChannel until ctx is done.
func Main(ctx context.Context, cfg *config.Config, bot *Bot) error {
	if cfg.BotChannel == "" {
		return errors.New("no bot channel configured")
	}
	nc, err := Connect(ctx, cfg.NatsURL)
	if err != nil {
		return err
	}
	defer nc.Close()

	sub, err := nc.Subscribe(cfg.BotChannel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.Handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, ideally, but we need to do something sensible here.
			m.Respond([]byte(err.Error()))
			return
		}
		if err := m.Respond(data); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}

	log.Info().Msgf("Listening on [%s]", cfg.BotChannel)
	<-ctx.Done()
	log.Info().Msg("bot-exiting")
	return nil
}
