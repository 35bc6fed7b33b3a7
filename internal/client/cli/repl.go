package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Set(ctx context.Context, field, value string) error
	SetEdu(ctx context.Context, field, value string) error
	Phone(ctx context.Context, number, countryCode string) error
	Ongoing(ctx context.Context, value string) error
	Save(ctx context.Context) error
	CancelEdit(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	CV(ctx context.Context, path string) error
	Preview(ctx context.Context) error
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		fmt.Printf("pcli %s> ", statusFn())
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
				printlnFn("Available commands: show, edit, set, setedu, phone, ongoing, save, cancel, avatar, cv, preview, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "set":
			if len(args) < 2 {
				printlnFn("Usage: set <field> <value>")
				continue
			}
			_ = a.Set(ctx, args[0], strings.Join(args[1:], " "))

		case "setedu":
			if len(args) < 2 {
				printlnFn("Usage: setedu <field> <value>")
				continue
			}
			_ = a.SetEdu(ctx, args[0], strings.Join(args[1:], " "))

		case "phone":
			if len(args) < 2 {
				printlnFn("Usage: phone <number> <country-code>")
				continue
			}
			_ = a.Phone(ctx, args[0], args[1])

		case "ongoing":
			if len(args) < 1 {
				printlnFn("Usage: ongoing <true|false>")
				continue
			}
			_ = a.Ongoing(ctx, args[0])

		case "save":
			_ = a.Save(ctx)

		case "cancel":
			_ = a.CancelEdit(ctx)

		case "avatar":
			if len(args) < 1 {
				printlnFn("Usage: avatar <path>")
				continue
			}
			_ = a.Avatar(ctx, args[0])

		case "cv":
			if len(args) < 1 {
				printlnFn("Usage: cv <path>")
				continue
			}
			_ = a.CV(ctx, args[0])

		case "preview":
			_ = a.Preview(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
