package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/stream"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8080"

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the portfolio assistant a question",
	Long: `Ask streams a question to a running server's chat endpoint and prints the
conversation. Without an argument it reads one question per line from stdin and
keeps the conversation going until EOF.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

var askServerURL string

func init() {
	askCmd.Flags().StringVar(&askServerURL, "server", "", "Base URL of the portfolio server (defaults to "+defaultServerURL+")")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("server") {
		cfg.ServerURL = askServerURL
	}
	cfg = cfg.MergeWithDefaults(config.Config{ServerURL: defaultServerURL})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := stream.NewClient(cfg.ServerURL)
	if len(args) == 1 {
		return askOnce(ctx, cmd.OutOrStdout(), client, args[0])
	}
	return askInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), client)
}

// askOnce runs a single turn and prints the whole transcript, including the
// error entry if the turn failed.
func askOnce(ctx context.Context, w io.Writer, client *stream.Client, question string) error {
	tr := stream.NewTranscript()
	err := client.Ask(ctx, tr, question)
	observability.NewPrinter(w).PrintTranscript(tr.Messages())
	return err
}

// askInteractive keeps one transcript across questions so follow-ups have
// context. A failed turn is printed and the loop goes on.
func askInteractive(ctx context.Context, r io.Reader, w io.Writer, client *stream.Client) error {
	tr := stream.NewTranscript()
	printer := observability.NewPrinter(w)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if err := client.Ask(ctx, tr, question); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		msgs := tr.Messages()
		printer.PrintTranscript([]types.ChatMessage{msgs[len(msgs)-1]})
		_, _ = fmt.Fprintln(w)
	}
	return scanner.Err()
}
