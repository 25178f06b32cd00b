package agent

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Chat roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is one entry of a chat history.
type Message struct {
	Role string
	Text string
}

// ChatAgent replies to the most recent user message once the conversation has
// been idle for the configured delay. Each new message restarts the countdown,
// so a burst of messages gets a single reply.
type ChatAgent struct {
	respond func(string) string
	delay   time.Duration
	out     io.Writer

	mu      sync.Mutex
	history []Message
	timer   *time.Timer
	gen     uint64
	pending sync.WaitGroup
}

// NewChatAgent returns an agent that writes replies to out. A nil respond
// reverses the message, a non-positive delay selects DefaultDelay, and a nil
// out discards replies.
func NewChatAgent(respond func(string) string, delay time.Duration, out io.Writer) *ChatAgent {
	if respond == nil {
		respond = Reverse
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if out == nil {
		out = io.Discard
	}
	return &ChatAgent{respond: respond, delay: delay, out: out}
}

// UserMessage records msg and restarts the idle countdown.
func (a *ChatAgent) UserMessage(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, Message{Role: RoleUser, Text: msg})
	a.stopLocked()
	a.gen++
	gen := a.gen
	a.pending.Add(1)
	a.timer = time.AfterFunc(a.delay, func() { a.reply(gen) })
}

// reply answers the last message unless a newer message re-armed the timer
// after this one fired.
func (a *ChatAgent) reply(gen uint64) {
	defer a.pending.Done()
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.gen {
		return
	}
	a.timer = nil
	if len(a.history) == 0 {
		return
	}
	text := a.respond(a.history[len(a.history)-1].Text)
	a.history = append(a.history, Message{Role: RoleAgent, Text: text})
	fmt.Fprintf(a.out, "Agent: %s\n", text)
}

// History returns a copy of the conversation so far.
func (a *ChatAgent) History() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Message(nil), a.history...)
}

// Stop cancels a pending reply.
func (a *ChatAgent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.gen++
}

func (a *ChatAgent) stopLocked() {
	if a.timer != nil && a.timer.Stop() {
		a.pending.Done()
	}
	a.timer = nil
}

// Wait blocks until a pending reply, if any, has been written.
func (a *ChatAgent) Wait() {
	a.pending.Wait()
}

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
