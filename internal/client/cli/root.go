package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// Root runs the interactive loop on stdin until EOF or exit.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to the account client (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
