// Command connect is a terminal chat client for a running fiesta server.
// It logs in, starts a session and streams assistant replies over the
// websocket endpoint.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"fiesta/fiesta/types"
	"fiesta/fiesta/utils/color"
	"fiesta/fiesta/utils/httputils"

	"github.com/coder/websocket"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "fiesta server address")
	user := flag.String("user", "ft", "username to log in as")
	mode := flag.String("mode", "auto", "assistant mode: auto, compute or agent")
	flag.Parse()

	token, err := login(*addr, *user)
	if err != nil {
		fmt.Println(color.ColorError("login failed: " + err.Error()))
		os.Exit(1)
	}

	session, err := startSession(*addr, token)
	if err != nil {
		fmt.Println(color.ColorError("session start failed: " + err.Error()))
		os.Exit(1)
	}
	fmt.Println(color.ColorInfo("session " + session.SessionID))
	fmt.Println(color.ColorAssistant(session.Welcome))

	wsURL := strings.Replace(*addr, "http", "ws", 1) + "/chat/ws"
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.ColorPrompt("du> "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			break
		}
		if err := streamTurn(wsURL, token, session.SessionID, *mode, input); err != nil {
			fmt.Println(color.ColorError(err.Error()))
		}
	}
}

func login(addr, username string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := httputils.PostJSON(context.Background(), addr+"/auth/login", "",
		types.LoginRequest{Username: username}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func startSession(addr, token string) (*types.StartSessionResponse, error) {
	var out types.StartSessionResponse
	err := httputils.PostJSON(context.Background(), addr+"/chat/sessions", token,
		types.StartSessionRequest{Explicit: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func streamTurn(wsURL, token, sessionID, mode, content string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	payload, _ := json.Marshal(map[string]any{
		"token": token,
		"chat_request": types.ChatRequest{
			SessionID: sessionID,
			Content:   content,
			Mode:      mode,
		},
	})
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return err
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Normal closure ends the turn
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				fmt.Println()
				return nil
			}
			fmt.Println()
			return err
		}
		chunk := string(data)
		if strings.HasPrefix(chunk, `{"error":`) {
			fmt.Println()
			return fmt.Errorf("server error: %s", chunk)
		}
		fmt.Print(color.ColorAssistant(chunk))
	}
}
