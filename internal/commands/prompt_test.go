package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitbook/splitbook/internal/ledger"
)

// runSession feeds a scripted command list through the prompt and
// returns everything it printed.
func runSession(t *testing.T, book *ledger.Book, commands ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	var out strings.Builder
	require.NoError(t, runPrompt(in, &out, book))
	return out.String()
}

func TestPrompt_FullSession(t *testing.T) {
	out := runSession(t, ledger.NewBook(),
		"add-user alice",
		"add-user bob",
		"add-user carol",
		"add-expense equal alice 90 alice bob carol",
		"balances",
		"settle",
		"exit",
	)

	assert.Contains(t, out, "Added user: alice")
	assert.Contains(t, out, "Added equal expense.")
	assert.Contains(t, out, "Balances (+ receive, - pay)")
	assert.Contains(t, out, "alice        : 60.00")
	assert.Contains(t, out, "bob          : -30.00")
	assert.Contains(t, out, "Settlement transactions:")
	assert.Contains(t, out, "-> alice : 30.00")
	assert.Contains(t, out, "Bye!")
}

func TestPrompt_ExactSplit(t *testing.T) {
	out := runSession(t, ledger.NewBook(),
		"add-user alice",
		"add-user bob",
		"add-expense exact alice 50 bob:50",
		"balances",
		"exit",
	)

	assert.Contains(t, out, "Added exact expense.")
	assert.Contains(t, out, "alice        : 50.00")
	assert.Contains(t, out, "bob          : -50.00")
}

func TestPrompt_Errors(t *testing.T) {
	out := runSession(t, ledger.NewBook(),
		"add-user alice",
		"add-expense equal mallory 10 alice",
		"add-expense exact alice 10 alice:5",
		"add-expense equal alice ten alice",
		"add-expense",
		"bogus-command",
		"add-user",
		"exit",
	)

	assert.Contains(t, out, ledger.ErrUnknownMember.Error())
	assert.Contains(t, out, ledger.ErrShareMismatch.Error())
	assert.Contains(t, out, `bad amount "ten"`)
	assert.Contains(t, out, "Usage: add-expense")
	assert.Contains(t, out, "Unknown command. Type 'help'.")
	assert.Contains(t, out, "Usage: add-user <name>")
}

func TestPrompt_SettledAndEmptyLines(t *testing.T) {
	out := runSession(t, ledger.NewBook(),
		"add-user alice",
		"",
		"settle",
		"exit",
	)

	assert.Contains(t, out, "Everyone is settled.")
}

func TestPrompt_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt")

	out := runSession(t, ledger.NewBook(),
		"add-user alice",
		"add-user bob",
		"add-expense equal alice 40 alice bob",
		"save "+path,
		"exit",
	)
	assert.Contains(t, out, "Saved to "+path)

	// A fresh session loads the saved book and sees the same balances.
	out = runSession(t, ledger.NewBook(),
		"load "+path,
		"balances",
		"exit",
	)
	assert.Contains(t, out, "Loaded from "+path)
	assert.Contains(t, out, "alice        : 20.00")
	assert.Contains(t, out, "bob          : -20.00")
}

func TestPrompt_LoadMissingFileKeepsRunning(t *testing.T) {
	out := runSession(t, ledger.NewBook(),
		"load "+filepath.Join(t.TempDir(), "missing.txt"),
		"add-user alice",
		"exit",
	)

	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "Added user: alice")
}

func TestPrompt_Help(t *testing.T) {
	out := runSession(t, ledger.NewBook(), "help", "exit")
	assert.Contains(t, out, "add-expense equal <payer> <amount>")
	assert.Contains(t, out, "settle")
}

func TestPrompt_EOFEndsSession(t *testing.T) {
	// No exit command; the reader just runs dry.
	in := strings.NewReader("add-user alice\n")
	var out strings.Builder
	require.NoError(t, runPrompt(in, &out, ledger.NewBook()))
	assert.Contains(t, out.String(), "Bye!")
}

func TestRootCommand_LoadFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt")
	book := ledger.NewBook()
	book.AddMember("alice")
	_ = runSession(t, book, "save "+path, "exit")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--load", path})
	cmd.SetIn(strings.NewReader("balances\nexit\n"))
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), fmt.Sprintf("Loaded from %s", path))
	assert.Contains(t, out.String(), "alice        : 0.00")
}

func TestRootCommand_LoadFlagBadFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--load", filepath.Join(t.TempDir(), "missing.txt")})
	cmd.SetIn(strings.NewReader(""))
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.Error(t, cmd.Execute())
}
