package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobb/internal/agent"
)

func newChatCmd(a *app) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with an agent that answers once you stop typing",
		Long: `Chat reads messages from standard input. After the idle delay the agent
answers the latest message. Type "exit" or "quit" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("delay") {
				delay = a.settings.ChatDelay
			}
			return runChat(cmd, delay)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", agent.DefaultDelay, "idle time before the agent answers")
	return cmd
}

func runChat(cmd *cobra.Command, delay time.Duration) error {
	// The prompt and the agent's timer goroutine share one writer.
	out := &lockedWriter{w: cmd.OutOrStdout()}
	bot := agent.NewChatAgent(nil, delay, out)

	done := make(chan struct{})
	defer close(done)
	lines := scanLines(cmd.InOrStdin(), done)

	fmt.Fprintln(out, "Start chatting with the agent. Type 'exit' to quit.")
	for {
		fmt.Fprint(out, "You: ")
		select {
		case <-cmd.Context().Done():
			bot.Stop()
			fmt.Fprintln(out)
			return nil
		case msg, ok := <-lines:
			if !ok {
				bot.Wait()
				return nil
			}
			switch strings.ToLower(strings.TrimSpace(msg)) {
			case "exit", "quit":
				bot.Wait()
				return nil
			}
			bot.UserMessage(msg)
		}
	}
}

// scanLines sends each line of r on the returned channel until r is
// exhausted or done is closed.
func scanLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// lockedWriter serializes writes from several goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
