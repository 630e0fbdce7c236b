package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	SetTab(ctx context.Context, name string) error
	Search(ctx context.Context, query string) error
	List(ctx context.Context) error
	Upload(ctx context.Context, path, title string) error
	ToggleFavorite(ctx context.Context, id string) error
	ToggleTrash(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Storage(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the MediaVault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mv> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: tab <photos|videos|audio|favorites|trash>, search [text], (l)ist, upload <path> [title], fav/unfav <id>, trash <id>, restore <id>, delete <id>, storage, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "tab":
			if len(args) != 1 {
				printlnFn("Usage: tab <photos|videos|audio|favorites|trash>")
				continue
			}
			_ = a.SetTab(ctx, args[0])

		case "search":
			// No argument clears the search.
			_ = a.Search(ctx, strings.Join(args, " "))

		case "l", "list":
			_ = a.List(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path> [title]")
				continue
			}
			_ = a.Upload(ctx, args[0], strings.Join(args[1:], " "))

		case "fav", "unfav":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			_ = a.ToggleFavorite(ctx, args[0])

		case "trash", "restore":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			_ = a.ToggleTrash(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "storage":
			_ = a.Storage(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
