package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// execStub records which commands the REPL dispatched.
type execStub struct {
	loggedIn bool
	calls    []string
}

func (s *execStub) record(call string) { s.calls = append(s.calls, call) }

func (s *execStub) isLoggedIn() bool { return s.loggedIn }

func (s *execStub) Register(ctx context.Context) error { s.record("register"); return nil }
func (s *execStub) Login(ctx context.Context) error    { s.record("login"); return nil }
func (s *execStub) Logout(ctx context.Context) error   { s.record("logout"); return nil }
func (s *execStub) SetTab(ctx context.Context, name string) error {
	s.record("tab:" + name)
	return nil
}
func (s *execStub) Search(ctx context.Context, query string) error {
	s.record("search:" + query)
	return nil
}
func (s *execStub) List(ctx context.Context) error { s.record("list"); return nil }
func (s *execStub) Upload(ctx context.Context, path, title string) error {
	s.record(fmt.Sprintf("upload:%s:%s", path, title))
	return nil
}
func (s *execStub) ToggleFavorite(ctx context.Context, id string) error {
	s.record("fav:" + id)
	return nil
}
func (s *execStub) ToggleTrash(ctx context.Context, id string) error {
	s.record("trash:" + id)
	return nil
}
func (s *execStub) Delete(ctx context.Context, id string) error {
	s.record("delete:" + id)
	return nil
}
func (s *execStub) Storage(ctx context.Context) error { s.record("storage"); return nil }

func runWithInput(t *testing.T, stub *execStub, input string) []string {
	t.Helper()

	var out []string
	origPrintln := printlnFn
	printlnFn = func(a ...any) { out = append(out, fmt.Sprintln(a...)) }
	t.Cleanup(func() { printlnFn = origPrintln })

	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), stub, func() string { return "" }, scanner)
	return out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub := &execStub{loggedIn: true}
	runWithInput(t, stub, strings.Join([]string{
		"tab videos",
		"search summer beach",
		"list",
		"upload /tmp/a.jpg My photo",
		"fav m1",
		"unfav m1",
		"trash m2",
		"restore m3",
		"delete m4",
		"storage",
		"logout",
		"exit",
	}, "\n"))

	require.Equal(t, []string{
		"tab:videos",
		"search:summer beach",
		"list",
		"upload:/tmp/a.jpg:My photo",
		"fav:m1",
		"fav:m1",
		"trash:m2",
		"trash:m3",
		"delete:m4",
		"storage",
		"logout",
	}, stub.calls)
}

func TestREPL_EmptySearchClearsQuery(t *testing.T) {
	stub := &execStub{loggedIn: true}
	runWithInput(t, stub, "search\nexit\n")
	require.Equal(t, []string{"search:"}, stub.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	stub := &execStub{}
	out := runWithInput(t, stub, "frobnicate\nexit\n")
	require.Empty(t, stub.calls)

	joined := strings.Join(out, "")
	require.Contains(t, joined, "Unknown command: frobnicate")
}

func TestREPL_UsageMessages(t *testing.T) {
	stub := &execStub{loggedIn: true}
	out := runWithInput(t, stub, "tab\nfav\nupload\nexit\n")
	require.Empty(t, stub.calls)

	joined := strings.Join(out, "")
	require.Contains(t, joined, "Usage: tab")
	require.Contains(t, joined, "Usage: fav")
	require.Contains(t, joined, "Usage: upload")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	stub := &execStub{}
	runWithInput(t, stub, "")
	require.Empty(t, stub.calls)
}

func TestREPL_HelpDependsOnAuthState(t *testing.T) {
	out := runWithInput(t, &execStub{loggedIn: false}, "help\nexit\n")
	require.Contains(t, strings.Join(out, ""), "register, login, exit")

	out = runWithInput(t, &execStub{loggedIn: true}, "help\nexit\n")
	require.Contains(t, strings.Join(out, ""), "storage, logout, exit")
}
