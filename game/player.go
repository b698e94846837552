package game

import "github.com/domino14/tictac/board"

// Player is one side of a match. The mark is assigned by NewGame.
type Player struct {
	Nickname string
	Bot      bool
	Mark     board.Mark
}

// HumanVsBot sets up the usual interactive pairing. When humanFirst is false
// the bot takes X and moves first.
func HumanVsBot(humanFirst bool) [2]Player {
	human := Player{Nickname: "you"}
	bot := Player{Nickname: "AI", Bot: true}
	if humanFirst {
		return [2]Player{human, bot}
	}
	return [2]Player{bot, human}
}

func BotVsBot() [2]Player {
	return [2]Player{
		{Nickname: "bot-x", Bot: true},
		{Nickname: "bot-o", Bot: true},
	}
}
