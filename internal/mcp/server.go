// Package mcp exposes the standup engine as MCP tools, so an external
// assistant can read the day's state and apply actions.
package mcp

import (
	"context"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/protocol"
	"github.com/julianstephens/standup/internal/session"
)

// Server wraps a session. Every tool call goes through the session lock.
type Server struct {
	server *gomcp.Server
	sess   *session.Session
}

func NewServer(sess *session.Session, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{sess: sess}
	s.server = gomcp.NewServer(&gomcp.Implementation{Name: constants.AppName, Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying server for tests.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

type statusInput struct{}

type statusOutput struct {
	Date          string `json:"date"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longest_streak"`
	Energy        string `json:"energy,omitempty"`
	OpenTasks     int    `json:"open_tasks"`
	GoalsDone     int    `json:"goals_done"`
	GoalsTotal    int    `json:"goals_total"`
	HabitsDone    int    `json:"habits_done"`
	HabitsTotal   int    `json:"habits_total"`
	Summary       string `json:"summary"`
}

type listTasksInput struct {
	Category string `json:"category,omitempty" jsonschema:"only list tasks in this category (work, health, personal_brand, daily_chores, learning)"`
}

type taskOutput struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Created  string `json:"created"`
}

type habitOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	DoneToday bool   `json:"done_today"`
}

type listTasksOutput struct {
	Tasks  []taskOutput  `json:"tasks"`
	Habits []habitOutput `json:"habits"`
	Count  int           `json:"count"`
}

type addTaskInput struct {
	Text     string `json:"text" jsonschema:"what needs doing"`
	Category string `json:"category,omitempty" jsonschema:"work, health, personal_brand, daily_chores or learning; defaults to work"`
	Kind     string `json:"kind,omitempty" jsonschema:"task (default), habit for a daily habit, or goal for a weekly goal"`
}

type completeInput struct {
	Name string `json:"name" jsonschema:"part of the task, habit or goal text, matched case-insensitively"`
}

type logEnergyInput struct {
	Level string `json:"level" jsonschema:"high, medium or low"`
	Note  string `json:"note,omitempty" jsonschema:"optional context for the reading"`
}

type addJournalInput struct {
	Text string `json:"text" jsonschema:"the insight to record in today's journal"`
}

type applyReplyInput struct {
	Text string `json:"text" jsonschema:"assistant reply text containing [ACTION:KIND:CATEGORY:CONTENT] directives"`
}

type actionOutput struct {
	Confirmations []string `json:"confirmations"`
	Applied       bool     `json:"applied"`
}

type applyReplyOutput struct {
	Display       string   `json:"display"`
	Confirmations []string `json:"confirmations"`
}

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_status",
		Description: "Get today's standup status: streak, latest energy, open task count, weekly goal and habit progress.",
	}, s.handleGetStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List open tasks and daily habits, optionally filtered by category.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a task, a daily habit or a weekly goal.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete",
		Description: "Complete the first open task, habit not yet done today, or weekly goal whose text contains name.",
	}, s.handleComplete)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "log_energy",
		Description: "Record an energy reading for today.",
	}, s.handleLogEnergy)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_journal",
		Description: "Append an insight to today's journal.",
	}, s.handleAddJournal)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "apply_reply",
		Description: "Apply every action directive in an assistant reply and return the reply with directives removed.",
	}, s.handleApplyReply)
}

func (s *Server) handleGetStatus(_ context.Context, _ *gomcp.CallToolRequest, _ statusInput) (*gomcp.CallToolResult, statusOutput, error) {
	snap, err := s.sess.Snapshot()
	if err != nil {
		return errorResult(fmt.Sprintf("reading status: %s", err)), statusOutput{}, nil
	}

	out := statusOutput{
		Date:          snap.Now.Format(constants.DateFormat),
		Streak:        snap.Streak.Current,
		LongestStreak: snap.Streak.Longest,
		OpenTasks:     len(snap.OpenTasks),
		Summary:       session.StatusMarkdown(snap),
	}
	if snap.Energy != nil {
		out.Energy = string(snap.Energy.Level)
	}
	out.GoalsDone, out.GoalsTotal = snap.Goals.Progress()
	out.HabitsDone, out.HabitsTotal = snap.HabitProgress()
	return nil, out, nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	var filter constants.Category
	if input.Category != "" {
		c, ok := constants.ParseCategory(input.Category)
		if !ok {
			return errorResult(fmt.Sprintf("unknown category %q", input.Category)), listTasksOutput{}, nil
		}
		filter = c
	}

	snap, err := s.sess.Snapshot()
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{Tasks: []taskOutput{}, Habits: []habitOutput{}}
	for _, t := range snap.OpenTasks {
		if filter != "" && t.Category != filter {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	for _, h := range snap.Habits {
		if filter != "" && h.Category != filter {
			continue
		}
		out.Habits = append(out.Habits, habitOutput{
			ID:        h.ID,
			Text:      h.Text,
			Category:  string(h.Category),
			DoneToday: h.DoneToday,
		})
	}
	out.Count = len(out.Tasks)
	return nil, out, nil
}

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, actionOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return errorResult("text is required"), actionOutput{}, nil
	}
	kind := protocol.KindAddTask
	switch strings.ToLower(input.Kind) {
	case "", "task":
	case "habit":
		kind = protocol.KindAddHabit
	case "goal":
		kind = protocol.KindAddGoal
	default:
		return errorResult(fmt.Sprintf("unknown kind %q, want task, habit or goal", input.Kind)), actionOutput{}, nil
	}
	return s.act(protocol.Action{Kind: kind, Category: input.Category, Content: strings.TrimSpace(input.Text)})
}

func (s *Server) handleComplete(_ context.Context, _ *gomcp.CallToolRequest, input completeInput) (*gomcp.CallToolResult, actionOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return errorResult("name is required"), actionOutput{}, nil
	}
	return s.act(protocol.Action{Kind: protocol.KindComplete, Category: "x", Content: strings.TrimSpace(input.Name)})
}

func (s *Server) handleLogEnergy(_ context.Context, _ *gomcp.CallToolRequest, input logEnergyInput) (*gomcp.CallToolResult, actionOutput, error) {
	if strings.TrimSpace(input.Level) == "" {
		return errorResult("level is required"), actionOutput{}, nil
	}
	return s.act(protocol.Action{Kind: protocol.KindLogEnergy, Category: strings.TrimSpace(input.Level), Content: input.Note})
}

func (s *Server) handleAddJournal(_ context.Context, _ *gomcp.CallToolRequest, input addJournalInput) (*gomcp.CallToolResult, actionOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return errorResult("text is required"), actionOutput{}, nil
	}
	return s.act(protocol.Action{Kind: protocol.KindJournal, Category: "x", Content: strings.TrimSpace(input.Text)})
}

func (s *Server) handleApplyReply(_ context.Context, _ *gomcp.CallToolRequest, input applyReplyInput) (*gomcp.CallToolResult, applyReplyOutput, error) {
	reply, err := s.sess.ApplyReply(input.Text)
	if err != nil {
		return errorResult(fmt.Sprintf("applying reply: %s", err)), applyReplyOutput{}, nil
	}
	if reply.Confirmations == nil {
		reply.Confirmations = []string{}
	}
	return nil, applyReplyOutput{Display: reply.Text, Confirmations: reply.Confirmations}, nil
}

func (s *Server) act(a protocol.Action) (*gomcp.CallToolResult, actionOutput, error) {
	confirmations, err := s.sess.Act(a)
	if err != nil {
		return errorResult(fmt.Sprintf("%s: %s", strings.ToLower(a.Kind.String()), err)), actionOutput{}, nil
	}
	if confirmations == nil {
		confirmations = []string{}
	}
	return nil, actionOutput{Confirmations: confirmations, Applied: len(confirmations) > 0}, nil
}

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:       t.ID,
		Text:     t.Text,
		Category: string(t.Category),
		Created:  t.CreatedAt,
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
