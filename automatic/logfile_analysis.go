package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/evaluator"
)

// Summary is the tally of a batch of games.
type Summary struct {
	Games          int     `yaml:"games"`
	XWins          int     `yaml:"x_wins"`
	OWins          int     `yaml:"o_wins"`
	Draws          int     `yaml:"draws"`
	MeanPlies      float64 `yaml:"mean_plies"`
	StdevPlies     float64 `yaml:"stdev_plies"`
	EstimatedMoves int     `yaml:"estimated_moves"`
	SearchedMoves  int     `yaml:"searched_moves"`
}

// Summarize tallies finished games.
func Summarize(records []GameRecord) *Summary {
	s := &Summary{Games: len(records)}
	s.XWins = lo.CountBy(records, func(r GameRecord) bool {
		return r.Outcome == evaluator.Won && r.Winner == board.X
	})
	s.OWins = lo.CountBy(records, func(r GameRecord) bool {
		return r.Outcome == evaluator.Won && r.Winner == board.O
	})
	s.Draws = lo.CountBy(records, func(r GameRecord) bool {
		return r.Outcome == evaluator.Drawn
	})
	s.EstimatedMoves = lo.SumBy(records, func(r GameRecord) int { return r.Estimated })
	s.SearchedMoves = lo.SumBy(records, func(r GameRecord) int { return r.Searched })

	plies := lo.Map(records, func(r GameRecord, _ int) float64 { return float64(r.Plies) })
	switch len(plies) {
	case 0:
	case 1:
		s.MeanPlies = plies[0]
	default:
		s.MeanPlies, s.StdevPlies = stat.MeanStdDev(plies, nil)
	}
	return s
}

func (s *Summary) String() string {
	pct := func(n int) float64 {
		if s.Games == 0 {
			return 0
		}
		return 100.0 * float64(n) / float64(s.Games)
	}
	str := fmt.Sprintf("Games played: %d\n", s.Games)
	str += fmt.Sprintf("X wins: %d (%.3f%%)\n", s.XWins, pct(s.XWins))
	str += fmt.Sprintf("O wins: %d (%.3f%%)\n", s.OWins, pct(s.OWins))
	str += fmt.Sprintf("Draws: %d (%.3f%%)\n", s.Draws, pct(s.Draws))
	str += fmt.Sprintf("Mean plies: %.3f  Stdev: %.3f\n", s.MeanPlies, s.StdevPlies)
	str += fmt.Sprintf("Estimated moves: %d  Searched moves: %d\n", s.EstimatedMoves, s.SearchedMoves)
	return str
}

// WriteFile saves the summary as YAML.
func (s *Summary) WriteFile(path string) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// ReadSummary loads a summary written by WriteFile.
func ReadSummary(path string) (*Summary, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Summary{}
	if err := yaml.Unmarshal(bts, s); err != nil {
		return nil, err
	}
	return s, nil
}

// AnalyzeLogFile rebuilds the summary of a batch from its move log.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// playerID,gameID,ply,mark,row,col,method,value,outcome
	byGame := map[string]*GameRecord{}
	var order []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "playerID" {
			// this is the header line
			continue
		}
		gid := record[1]
		rec, ok := byGame[gid]
		if !ok {
			rec = &GameRecord{UID: gid}
			byGame[gid] = rec
			order = append(order, gid)
		}
		ply, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, err
		}
		rec.Plies = max(rec.Plies, ply)
		if record[6] == "evaluated" {
			rec.Searched++
		} else {
			rec.Estimated++
		}
		switch record[8] {
		case evaluator.Won.String():
			rec.Outcome = evaluator.Won
			if rec.Winner, err = board.ParseMark(record[3]); err != nil {
				return nil, err
			}
		case evaluator.Drawn.String():
			rec.Outcome = evaluator.Drawn
		}
	}
	records := lo.Map(order, func(gid string, _ int) GameRecord { return *byGame[gid] })
	return Summarize(records), nil
}
