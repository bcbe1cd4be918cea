package main

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/joker-games/joker-server/internal/game"
)

func cardLabel(c game.CardView) string {
	if c.Rank == "?" {
		return "[??]"
	}
	return "[" + c.Rank + " " + suitSymbol(c.Suit) + "]"
}

func suitSymbol(suit string) string {
	switch suit {
	case "Hearts":
		return "♥"
	case "Diamonds":
		return "♦"
	case "Clubs":
		return "♣"
	case "Spades":
		return "♠"
	default:
		return "?"
	}
}

func handLabel(cards []game.CardView) string {
	if len(cards) == 0 {
		return "-"
	}
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		out += cardLabel(c)
	}
	return out
}

func renderTable(snap game.Snapshot) {
	pterm.Println()
	pterm.DefaultSection.Printfln("Room %s — %s (%ds left)", snap.RoomID, snap.Phase, snap.TimerRemaining)
	pterm.Printfln("Dealer: %s", handLabel(snap.DealerHand))

	rows := pterm.TableData{{"", "Player", "Chips", "Bet", "Hand", "Score", "Status"}}
	for _, p := range snap.Players {
		turn := ""
		if p.IsTurn {
			turn = pterm.LightYellow("▶")
		}
		rows = append(rows, []string{
			turn,
			p.Name,
			strconv.Itoa(p.Chips),
			strconv.Itoa(p.CurrentBet),
			handLabel(p.Hand),
			strconv.Itoa(p.Score),
			string(p.HandStatus),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
