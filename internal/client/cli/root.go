package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	user := a.session.Current()
	if user == nil {
		return "(signed out)"
	}
	return fmt.Sprintf("(%s | %s)", user.Email, a.controller.Tab())
}

// Run restores any persisted session and enters the REPL. It returns when
// the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to MediaVault (type 'help' for commands)")

	a.RestoreSession(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
