// Command inbox is a terminal host for the chat client: it runs the
// notification engine for the session and lets the user open one thread at a
// time, send messages, and delete threads.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"unigo/internal/client"
	"unigo/internal/client/chatview"
	"unigo/internal/client/notifier"
)

func main() {
	godotenv.Load()

	baseURL := os.Getenv("UNIGO_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	token := os.Getenv("UNIGO_TOKEN")
	userID := os.Getenv("UNIGO_USER_ID")
	if token == "" || userID == "" {
		log.Fatal("UNIGO_TOKEN and UNIGO_USER_ID must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := client.New(baseURL, token)

	engine := notifier.NewEngine(api, userID, notifier.Config{
		OnToast: func(t notifier.Toast) {
			fmt.Printf("\n[new message] %s: %s (/open %s)\n> ", t.SenderName, t.Text, t.ChatID)
		},
		OnSessionExpired: func() {
			fmt.Println("\nSession expired, please log in again.")
			cancel()
		},
	})
	engine.Start(ctx)
	defer engine.Stop()

	fmt.Println("unigo inbox — /open <chat-id>, /close, /delete, /quit; plain text sends to the open chat")

	var view *chatview.View
	deleteArmed := false

	closeView := func() {
		if view != nil {
			view.Close()
			view = nil
		}
		engine.SetActiveChat("")
		deleteArmed = false
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			closeView()
			return

		case strings.HasPrefix(line, "/open "):
			closeView()
			chatID := strings.TrimSpace(strings.TrimPrefix(line, "/open "))
			view = chatview.NewView(api, chatID, nil, chatview.Config{})
			view.Start(ctx)
			engine.SetActiveChat(chatID)
			fmt.Printf("opened chat %s\n", chatID)

		case line == "/close":
			closeView()
			fmt.Println("chat closed")

		case line == "/delete":
			if view == nil {
				fmt.Println("no chat open")
			} else if !deleteArmed {
				deleteArmed = true
				fmt.Println("this deletes the chat and every message in it — type /delete again to confirm")
			} else {
				if err := view.Delete(ctx); err != nil {
					fmt.Printf("delete failed: %v\n", err)
					deleteArmed = false
				} else {
					fmt.Println("chat deleted")
					closeView()
				}
			}

		case line == "/messages":
			if view == nil {
				fmt.Println("no chat open")
			} else {
				for _, m := range view.Messages() {
					name := m.SenderName
					if m.SenderID == userID {
						name = "me"
					}
					fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04"), name, m.Text)
				}
			}

		case line != "":
			if view == nil {
				fmt.Println("no chat open — /open <chat-id> first")
			} else if _, err := view.Send(ctx, line); err != nil {
				// The draft stays on the prompt history; retry by sending again.
				fmt.Printf("send failed: %v\n", err)
			}
			deleteArmed = false
		}

		fmt.Print("> ")
	}
}
