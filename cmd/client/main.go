package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/joker-games/joker-server/internal/api"
	"github.com/joker-games/joker-server/internal/game"
)

func main() {
	addr := "localhost:8080"
	if len(os.Args) == 2 {
		addr = os.Args[1]
	}

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("J", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("oker", pterm.FgDarkGray.ToStyle()),
	).Render()

	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").Show()
	roomID, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter a room id").WithDefaultValue("r1").Show()
	pterm.Println()

	url := "ws://" + addr + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		pterm.Error.Printfln("could not reach %s: %v", url, err)
		os.Exit(1)
	}
	defer conn.Close()
	pterm.Info.Printfln("Connected to %s", url)

	send := func(msg api.ClientMessage) {
		if err := conn.WriteJSON(msg); err != nil {
			pterm.Error.Printfln("send failed: %v", err)
		}
	}
	send(api.ClientMessage{Type: "join", RoomID: roomID, PlayerName: name})

	// Server messages render from their own goroutine; input stays on main.
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				pterm.Error.Printfln("connection lost: %v", err)
				os.Exit(1)
			}
			var msg api.ServerMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			switch msg.Type {
			case "stateUpdate":
				data, _ := json.Marshal(msg.Data)
				var snap game.Snapshot
				if err := json.Unmarshal(data, &snap); err == nil {
					renderTable(snap)
				}
			case "error":
				pterm.Warning.Println(msg.Message)
			}
		}
	}()

	for {
		input, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("bet <amount> | hit | stand | quit").Show()
		fields := strings.Fields(strings.ToLower(input))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bet":
			if len(fields) != 2 {
				pterm.Warning.Println("usage: bet <amount>")
				continue
			}
			amount, err := strconv.Atoi(fields[1])
			if err != nil {
				pterm.Warning.Println("amount must be a number")
				continue
			}
			send(api.ClientMessage{Type: "bet", RoomID: roomID, Amount: amount})
		case "hit":
			send(api.ClientMessage{Type: "hit", RoomID: roomID})
		case "stand":
			send(api.ClientMessage{Type: "stand", RoomID: roomID})
		case "quit":
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			fmt.Println("bye")
			return
		default:
			pterm.Warning.Printfln("unknown command %q", fields[0])
		}
	}
}
