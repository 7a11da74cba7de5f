// Package conversation runs one assistant turn: ask the model, execute any
// tool calls it requests, and ask again until it gives a final answer or the
// tool budget runs out.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/services/llm"
	"github.com/rosteriq/advisor-service/internal/services/tools"
)

// DefaultMaxToolIterations bounds tool rounds per turn.
const DefaultMaxToolIterations = 5

// Fixed texts shown to the user.
const (
	ApologyText    = "Sorry, I couldn't reach the language model to answer that. Please try again in a moment."
	unresolvedNote = "I couldn't fully resolve this within the lookup limit, so this answer may be incomplete."
	emptyAnswer    = "I don't have an answer for that."
)

const systemPreamble = `You are a fantasy sports roster assistant for one team in one league.
Answer from the league briefing below and call the tools for anything it does not cover.
Always name the actual teams, players and scores from the data; never write placeholders.
If a tool reports an error or finds nothing, say so plainly instead of guessing.`

// State is a step of the turn state machine.
type State int

const (
	StateStart State = iota
	StateAwaitModel
	StateToolRequested
	StateExecuteTool
	StateFinalAnswer
	StateDone
)

var stateNames = map[State]string{
	StateStart:         "start",
	StateAwaitModel:    "await_model",
	StateToolRequested: "tool_requested",
	StateExecuteTool:   "execute_tool",
	StateFinalAnswer:   "final_answer",
	StateDone:          "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ToolRunner executes tool calls. It reports failures as results, not errors.
type ToolRunner interface {
	Execute(ctx context.Context, scope tools.Scope, call tools.Call) tools.Result
}

// Config holds the configuration for the driver.
type Config struct {
	Model             llm.Backend
	Tools             ToolRunner
	MaxToolIterations int
	Logger            *zerolog.Logger
}

// Driver runs turns. It is stateless between turns and safe for concurrent use.
type Driver struct {
	model         llm.Backend
	tools         ToolRunner
	maxIterations int
	definitions   []llm.ToolDefinition
	logger        zerolog.Logger
}

// NewDriver creates a new conversation driver.
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Model == nil {
		return nil, fmt.Errorf("model backend is required")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("tool runner is required")
	}

	d := &Driver{
		model:         cfg.Model,
		tools:         cfg.Tools,
		maxIterations: cfg.MaxToolIterations,
		logger:        log.Logger,
	}
	if d.maxIterations <= 0 {
		d.maxIterations = DefaultMaxToolIterations
	}
	if cfg.Logger != nil {
		d.logger = *cfg.Logger
	}
	for _, def := range tools.Definitions() {
		d.definitions = append(d.definitions, llm.ToolDefinition{
			Name:        string(def.Name),
			Description: def.Description,
			Parameters:  def.Parameters,
		})
	}
	return d, nil
}

// Input is everything one turn needs.
type Input struct {
	SessionID string
	Scope     tools.Scope
	// History is the recent conversation, oldest first, ending with the new
	// user message.
	History  []*models.ChatMessage
	Briefing string
}

// Output is the assistant reply and its metadata.
type Output struct {
	Content    string
	Backend    string
	Iterations int
	ToolsUsed  []string
	Degraded   bool
	Err        error
	// Transitions records every state entered, in order.
	Transitions []State
}

// Metadata renders the output as message metadata.
func (o *Output) Metadata() map[string]any {
	meta := map[string]any{
		models.MetaToolLookup: len(o.ToolsUsed) > 0,
		models.MetaIterations: o.Iterations,
	}
	if len(o.ToolsUsed) > 0 {
		meta[models.MetaToolsUsed] = append([]string(nil), o.ToolsUsed...)
	}
	if o.Backend != "" {
		meta[models.MetaBackend] = o.Backend
	}
	if o.Degraded {
		meta[models.MetaDegraded] = true
	}
	if domainerrors.IsModelUnavailable(o.Err) {
		meta[models.MetaError] = "model_unavailable"
	}
	return meta
}

// turn is the mutable state of one Run.
type turn struct {
	in       *Input
	out      *Output
	messages []llm.Message
	pending  []llm.ToolCall
	partial  string
	final    string
	used     map[string]bool
}

// Run drives one turn to completion. A model failure ends the turn with the
// apology text rather than an error.
func (d *Driver) Run(ctx context.Context, in *Input) (*Output, error) {
	if in == nil || len(in.History) == 0 {
		return nil, fmt.Errorf("history with the user message is required")
	}

	t := &turn{
		in:       in,
		out:      &Output{},
		messages: toLLMMessages(in.History),
		used:     make(map[string]bool),
	}
	logger := d.logger.With().Str("session_id", in.SessionID).Logger()

	state := StateStart
	for {
		t.out.Transitions = append(t.out.Transitions, state)
		if state == StateDone {
			break
		}
		state = d.step(ctx, state, t, &logger)
	}

	t.out.Content = t.final
	return t.out, nil
}

func (d *Driver) step(ctx context.Context, state State, t *turn, logger *zerolog.Logger) State {
	switch state {
	case StateStart:
		return StateAwaitModel

	case StateAwaitModel:
		resp, err := d.model.Complete(ctx, &llm.CompletionRequest{
			System:   d.systemPrompt(t.in.Briefing),
			Messages: t.messages,
			Tools:    d.definitions,
		})
		if err != nil {
			logger.Error().Err(err).Int("iteration", t.out.Iterations).Msg("model unavailable, replying with apology")
			t.out.Err = err
			t.out.Degraded = true
			t.final = ApologyText
			return StateFinalAnswer
		}

		t.out.Backend = resp.Backend
		if text := strings.TrimSpace(resp.Content); text != "" {
			t.partial = text
		}
		if resp.WantsTools() {
			t.pending = resp.ToolCalls
			t.messages = append(t.messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})
			return StateToolRequested
		}

		t.final = t.partial
		if t.final == "" {
			t.final = emptyAnswer
		}
		return StateFinalAnswer

	case StateToolRequested:
		if t.out.Iterations >= d.maxIterations {
			logger.Warn().Int("iteration", t.out.Iterations).Msg("tool iteration limit reached, forcing final answer")
			t.out.Degraded = true
			t.final = unresolvedNote
			if t.partial != "" {
				t.final = t.partial + "\n\n" + unresolvedNote
			}
			return StateFinalAnswer
		}
		return StateExecuteTool

	case StateExecuteTool:
		t.out.Iterations++
		for _, call := range t.pending {
			result := d.tools.Execute(ctx, t.in.Scope, tools.Call{ID: call.ID, Name: call.Name, Arguments: call.Arguments})
			logger.Debug().
				Str("tool", call.Name).
				Bool("is_error", result.IsError).
				Int("iteration", t.out.Iterations).
				Msg("tool result")

			if !t.used[call.Name] {
				t.used[call.Name] = true
				t.out.ToolsUsed = append(t.out.ToolsUsed, call.Name)
			}
			t.messages = append(t.messages, llm.Message{
				Role:       llm.RoleTool,
				Name:       call.Name,
				ToolCallID: call.ID,
				Content:    toolContent(result),
			})
		}
		t.pending = nil
		return StateAwaitModel

	case StateFinalAnswer:
		return StateDone
	}

	return StateDone
}

func (d *Driver) systemPrompt(briefing string) string {
	if briefing == "" {
		return systemPreamble
	}
	return systemPreamble + "\n\n# League briefing\n\n" + briefing
}

func toolContent(r tools.Result) string {
	if !r.IsError {
		return r.Content
	}
	return fmt.Sprintf("error %s: %s", r.Code, r.Content)
}

func toLLMMessages(history []*models.ChatMessage) []llm.Message {
	msgs := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == models.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Content})
	}
	return msgs
}
