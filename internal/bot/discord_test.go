package bot

import (
	"context"
	"testing"

	"loopbot/internal/logger"
	"loopbot/internal/service"
)

type queryStub struct {
	lastCommand string
	reply       string
}

func (q *queryStub) Respond(_ context.Context, command string) string {
	q.lastCommand = command
	return q.reply
}

func TestNew_BuildsSessionWithoutNetwork(t *testing.T) {
	t.Parallel()

	b, err := New(Config{Token: "test-token", ChannelID: "c1", GuildID: "g1"}, &queryStub{}, logger.Get(logger.ErrorLevel))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.session == nil {
		t.Fatalf("session not constructed")
	}
	if b.commandScope() != "guild" {
		t.Fatalf("scope with guild ID: %q", b.commandScope())
	}

	b.guildID = ""
	if b.commandScope() != "global" {
		t.Fatalf("scope without guild ID: %q", b.commandScope())
	}
}

// The registered command set must match the dispatcher's routes exactly.
func TestCommandSet_MatchesDispatcher(t *testing.T) {
	t.Parallel()

	want := []string{service.CmdGlucose, service.CmdStatus, service.CmdInsulin, service.CmdLoop, service.CmdAlert}
	if len(commands) != len(want) {
		t.Fatalf("command count: want %d, got %d", len(want), len(commands))
	}
	for i, cmd := range commands {
		if cmd.Name != want[i] {
			t.Errorf("command %d: want %q, got %q", i, want[i], cmd.Name)
		}
		if cmd.Description == "" {
			t.Errorf("command %q missing description", cmd.Name)
		}
	}
}

func TestSend_NoChannelConfiguredSkips(t *testing.T) {
	t.Parallel()

	b, err := New(Config{Token: "test-token"}, &queryStub{}, logger.Get(logger.ErrorLevel))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// No channel means a logged no-op, never a network call or error.
	if err := b.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send without channel: %v", err)
	}
}
