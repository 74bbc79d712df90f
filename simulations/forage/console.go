package forage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/youryharchenko/go-forager/mas"
	"github.com/youryharchenko/go-forager/telemetry"
)

const clearScreen = "\033[H\033[2J"

// ConsoleAgent малює знімки, які шле фуражир, і повідомляє про кінець епізоду.
type ConsoleAgent struct {
	mas.BaseAgent

	out   io.Writer
	clear bool
	done  chan Status
	last  Status
}

// NewConsole пише в out (nil - stdout). clear очищує екран перед кожним кадром.
func NewConsole(id string, out io.Writer, clear bool) *ConsoleAgent {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleAgent{
		BaseAgent: mas.BaseAgent{IDVal: id},
		out:       out,
		clear:     clear,
		done:      make(chan Status, 1),
	}
}

// Done віддає один Status, коли епізод закінчився.
func (c *ConsoleAgent) Done() <-chan Status { return c.done }

func (c *ConsoleAgent) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	st, ok := msg.Payload.(Status)
	if !ok {
		return nil, fmt.Errorf("console: unexpected payload %T", msg.Payload)
	}
	return []mas.Action{
		mas.Mutate(func(mas.Agent) error { return c.show(st) }),
	}, nil
}

func (c *ConsoleAgent) show(st Status) error {
	// Кінець уже показали; запізнілі відповіді на StatusQuery ігноруємо.
	if c.last.Done() {
		return nil
	}
	c.last = st

	var b strings.Builder
	if c.clear {
		b.WriteString(clearScreen)
	}
	if err := telemetry.Render(&b, st.Snapshot); err != nil {
		return err
	}
	for _, e := range st.Events {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	if st.Done() {
		r := st.Result
		fmt.Fprintf(&b, "episode %s: %s after %d ticks, delivered %d, remaining %d\n",
			r.EpisodeID, r.Outcome, r.Ticks, r.Delivered, r.Remaining)
	}
	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	if st.Done() {
		c.done <- st
	}
	return nil
}
