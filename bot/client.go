package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/config"
)

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	nc, err := Connect(ctx, cfg.NatsURL)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, channel: cfg.BotChannel, timeout: cfg.BotTimeout}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

func MakeRequest(b *board.Board, mc selector.MatchContext) ([]byte, error) {
	return json.Marshal(Request{
		Board:      b.String(),
		ToMove:     mc.ToMove.String(),
		Ply:        mc.Ply,
		Difficulty: mc.Difficulty.String(),
	})
}

// DecodeResponse turns a bot reply into a decision.
func DecodeResponse(data []byte) (selector.Decision, error) {
	resp := Response{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return selector.Decision{}, err
	}
	if resp.Error != "" {
		return selector.Decision{}, errors.New("Bot returned: " + resp.Error)
	}
	d := selector.Decision{
		Move:  board.Coord{Row: resp.Row, Col: resp.Col},
		Value: resp.Value,
	}
	if resp.Method == selector.Searched.String() {
		d.Method = selector.Searched
		d.Searched = true
	}
	return d, nil
}

// RequestMove sends a position to the bot and gets a move back. A request
// nobody is listening for yet is retried a few times.
func (c *Client) RequestMove(ctx context.Context, b *board.Board, mc selector.MatchContext) (selector.Decision, error) {
	data, err := MakeRequest(b, mc)
	if err != nil {
		return selector.Decision{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var res *nats.Msg
	err = retry.Do(
		func() error {
			var err error
			res, err = c.nc.RequestWithContext(ctx, c.channel, data)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, nats.ErrNoResponders)
		}),
	)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return selector.Decision{}, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))
	return DecodeResponse(res.Data)
}
