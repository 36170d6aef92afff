package cli

import (
	"bufio"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/threadcart/supportbot/internal/apiclient"
	"github.com/threadcart/supportbot/internal/config"
)

func newChatCommand(logger *slog.Logger) *cobra.Command {
	_ = logger
	var (
		userID     int64
		sessionID  string
		message    string
		timeoutSec int
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to a running supportbot over its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			client := apiclient.New(cfg.APIURL, time.Duration(timeoutSec)*time.Second)

			text := strings.TrimSpace(message)
			if text == "" && len(args) > 0 {
				text = strings.TrimSpace(strings.Join(args, " "))
			}

			if text != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSec)*time.Second)
				defer cancel()
				response, err := client.Chat(ctx, apiclient.ChatRequest{
					Message:   text,
					UserID:    userID,
					SessionID: sessionID,
				})
				if err != nil {
					return err
				}
				cmd.Println(response.Response)
				return nil
			}

			cmd.Printf("Connected to %s. Type /exit to quit.\n", cfg.APIURL)
			return runInteractiveChat(cmd, client, userID, sessionID, timeoutSec)
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "user id to bind new sessions to")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "resume an existing session token")
	cmd.Flags().StringVarP(&message, "message", "m", "", "single message to send (non-interactive mode)")
	cmd.Flags().IntVar(&timeoutSec, "timeout-sec", 120, "request timeout in seconds")
	return cmd
}

func runInteractiveChat(cmd *cobra.Command, client *apiclient.Client, userID int64, sessionID string, timeoutSec int) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/exit" || text == "/quit" {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSec)*time.Second)
		response, err := client.Chat(ctx, apiclient.ChatRequest{
			Message:   text,
			UserID:    userID,
			SessionID: sessionID,
		})
		cancel()
		if err != nil {
			cmd.Printf("error: %v\n", err)
			continue
		}
		// The server mints a token on the first turn; keep it so the
		// conversation stays in one session.
		sessionID = response.SessionID
		cmd.Println(response.Response)
	}
}
