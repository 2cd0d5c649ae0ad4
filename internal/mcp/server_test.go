package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/session"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

func newTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()
	clock := utils.NewFixedClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	sess := session.New(storage.NewMemoryStore(), clock)
	return NewServer(sess, "test"), sess
}

// callTool connects an in-memory client to srv and calls one tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	t1, t2 := gomcp.NewInMemoryTransports()

	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	cs, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	result, err := cs.CallTool(ctx, &gomcp.CallToolParams{Name: toolName, Arguments: args})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

// decode reads the structured output of a successful call into out.
func decode(t *testing.T, result *gomcp.CallToolResult, out any) {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}
	data, err := json.Marshal(result.StructuredContent)
	if err != nil || result.StructuredContent == nil {
		data = []byte(extractText(result))
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshalling output: %v (%s)", err, data)
	}
}

func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAddTaskAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	var added actionOutput
	decode(t, callTool(t, srv, "add_task", map[string]any{"text": "Write report", "category": "work"}), &added)
	if !added.Applied || added.Confirmations[0] != "📋 Added task: Write report" {
		t.Errorf("add_task = %+v", added)
	}
	decode(t, callTool(t, srv, "add_task", map[string]any{"text": "Stretch", "category": "health", "kind": "habit"}), &added)
	decode(t, callTool(t, srv, "add_task", map[string]any{"text": "Buy lamp", "category": "daily_chores"}), &added)

	var all listTasksOutput
	decode(t, callTool(t, srv, "list_tasks", map[string]any{}), &all)
	if all.Count != 2 || len(all.Habits) != 1 {
		t.Errorf("list_tasks = %+v", all)
	}

	var work listTasksOutput
	decode(t, callTool(t, srv, "list_tasks", map[string]any{"category": "work"}), &work)
	if work.Count != 1 || work.Tasks[0].Text != "Write report" || len(work.Habits) != 0 {
		t.Errorf("list_tasks(work) = %+v", work)
	}
}

func TestAddTaskValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	if r := callTool(t, srv, "add_task", map[string]any{"text": "  "}); !r.IsError {
		t.Error("expected error for blank text")
	}
	if r := callTool(t, srv, "add_task", map[string]any{"text": "x", "kind": "epic"}); !r.IsError {
		t.Error("expected error for unknown kind")
	}
	if r := callTool(t, srv, "list_tasks", map[string]any{"category": "hobbies"}); !r.IsError {
		t.Error("expected error for unknown category")
	}
}

func TestCompleteFallsBackToGoal(t *testing.T) {
	srv, sess := newTestServer(t)
	if _, err := sess.Goals.Add("Ship v1", constants.CategoryWork); err != nil {
		t.Fatal(err)
	}

	var out actionOutput
	decode(t, callTool(t, srv, "complete", map[string]any{"name": "ship"}), &out)
	if !out.Applied || out.Confirmations[0] != "✅ Completed goal: Ship v1" {
		t.Errorf("complete = %+v", out)
	}

	decode(t, callTool(t, srv, "complete", map[string]any{"name": "ship"}), &out)
	if out.Applied {
		t.Errorf("second complete = %+v, want nothing applied", out)
	}
}

func TestLogEnergyAndStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	var out actionOutput
	decode(t, callTool(t, srv, "log_energy", map[string]any{"level": "HIGH", "note": "coffee"}), &out)
	if out.Confirmations[0] != "🔋 Logged energy: high" {
		t.Errorf("log_energy = %+v", out)
	}

	var status statusOutput
	decode(t, callTool(t, srv, "get_status", map[string]any{}), &status)
	if status.Energy != "high" || status.Date != "2026-10-19" {
		t.Errorf("get_status = %+v", status)
	}
	if !strings.Contains(status.Summary, "Daily Standup") {
		t.Errorf("summary = %q", status.Summary)
	}
}

func TestAddJournal(t *testing.T) {
	srv, sess := newTestServer(t)

	var out actionOutput
	decode(t, callTool(t, srv, "add_journal", map[string]any{"text": "Mornings are best for deep work"}), &out)

	content, err := sess.Journal.Read("2026-10-19")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "💡 Mornings are best for deep work") {
		t.Errorf("journal = %q", content)
	}
}

func TestApplyReply(t *testing.T) {
	srv, _ := newTestServer(t)

	var out applyReplyOutput
	decode(t, callTool(t, srv, "apply_reply", map[string]any{
		"text": "Great plan. [ACTION:GOAL:learning:Finish Go book] [ACTION:BOGUS:x:ignored]",
	}), &out)
	if out.Display != "Great plan." {
		t.Errorf("display = %q", out.Display)
	}
	if len(out.Confirmations) != 1 || out.Confirmations[0] != "🎯 Added weekly goal: Finish Go book" {
		t.Errorf("confirmations = %q", out.Confirmations)
	}
}
