package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yanqian/weather-assistant/internal/domain/chatsession"
)

var rule = strings.Repeat("-", 50)

// REPL drives a chat session from line-oriented input.
type REPL struct {
	session *chatsession.Session
	in      io.Reader
	out     io.Writer
}

// NewREPL binds a session to the given streams.
func NewREPL(session *chatsession.Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{session: session, in: in, out: out}
}

// Run loops until EOF, an exit command, or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, strings.Repeat("=", 50))
	fmt.Fprintln(r.out, "   Welcome to the Weather Assistant")
	fmt.Fprintln(r.out, strings.Repeat("=", 50))
	fmt.Fprintln(r.out, "Type a city name to get the weather, or ask a question.")
	fmt.Fprintln(r.out, "Type 'home' to clear the conversation, 'quit' or 'exit' to stop.")

	if !r.session.Probe(ctx) {
		fmt.Fprintln(r.out, "  ! Assistant is offline. Start the server, then press Enter to retry.")
	}

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "\n> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			fmt.Fprintln(r.out, "\nGoodbye! Stay weather-aware!")
			return nil
		case "home":
			r.session.Reset()
			fmt.Fprintln(r.out, "  Conversation cleared.")
			continue
		case "":
			if !r.session.Reachable() && r.session.Probe(ctx) {
				fmt.Fprintln(r.out, "  Assistant is back online.")
				continue
			}
			fmt.Fprintln(r.out, "  Please enter a city name or a question.")
			continue
		}

		if !r.session.Reachable() && !r.session.Probe(ctx) {
			fmt.Fprintln(r.out, "  ! Assistant is still offline.")
			continue
		}

		r.session.SetDraft(input)
		results, err := r.session.Submit(ctx)
		if err != nil {
			if errors.Is(err, chatsession.ErrCannotSend) {
				fmt.Fprintln(r.out, "  Please wait for the current reply.")
				continue
			}
			return err
		}
		fmt.Fprintln(r.out, rule)
		for msg := range results {
			r.render(msg)
		}
		fmt.Fprintln(r.out, rule)
	}
	return scanner.Err()
}

func (r *REPL) render(msg chatsession.Message) {
	switch msg.Kind {
	case chatsession.KindWeather:
		renderWeather(r.out, msg.Weather)
	case chatsession.KindError:
		fmt.Fprintf(r.out, "  x %s\n", msg.Text)
	default:
		fmt.Fprintf(r.out, "  %s\n", msg.Text)
	}
}

func renderWeather(w io.Writer, card *chatsession.WeatherCard) {
	if card == nil {
		return
	}
	fmt.Fprintf(w, "  City        : %s, %s\n", card.City, orNA(card.Country))
	fmt.Fprintf(w, "  Temperature : %.1f°C (feels like %.1f°C)\n", card.Temperature, card.FeelsLike)
	fmt.Fprintf(w, "  Description : %s\n", orNA(card.Description))
	fmt.Fprintf(w, "  Humidity    : %d%%\n", card.Humidity)
	fmt.Fprintf(w, "  Wind Speed  : %.1f m/s\n", card.WindSpeed)
	fmt.Fprintln(w, "\n  Recommendation:")
	fmt.Fprintf(w, "     %s\n", orNA(card.Recommendation))
	fmt.Fprintln(w, "\n  Insights:")
	fmt.Fprintf(w, "     %s\n", orNA(card.Insights))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
