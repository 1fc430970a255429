package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
)

var rootCmd = &cobra.Command{
	Use:           "weather-assistant",
	Short:         "weather-assistant - live weather reports and weather-aware chat",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real environment variables take precedence.
		_ = godotenv.Load()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message through the assistant and print the JSON reply",
	RunE:  runAsk,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive terminal chat against a running server",
	RunE:  runChat,
}

var (
	messageFlag string
	serverFlag  string
)

func init() {
	askCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Message to send")
	chatCmd.Flags().StringVar(&serverFlag, "server", "", "Assistant server URL (defaults to client.serverUrl)")
	rootCmd.AddCommand(serveCmd, askCmd, chatCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	return app.Run(cmd.Context())
}

func runAsk(cmd *cobra.Command, args []string) error {
	message := askMessage(messageFlag, args)
	if message == "" {
		return errors.New("a message is required: use -m or pass it as an argument")
	}
	svc, err := initializeAssistant()
	if err != nil {
		return fmt.Errorf("failed to wire assistant: %w", err)
	}
	return printReply(cmd.OutOrStdout(), message, svc.Handle(cmd.Context(), message))
}

func runChat(cmd *cobra.Command, args []string) error {
	repl, err := initializeREPL(serverOverride(serverFlag), cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to wire chat client: %w", err)
	}
	return repl.Run(cmd.Context())
}

func askMessage(flag string, args []string) string {
	if msg := strings.TrimSpace(flag); msg != "" {
		return msg
	}
	return strings.TrimSpace(strings.Join(args, " "))
}

func printReply(w io.Writer, message string, resp assistant.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(assistant.NewChatResponse(message, resp))
}
