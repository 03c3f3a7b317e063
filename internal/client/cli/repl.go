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
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Mood(ctx context.Context, args []string) error
	Note(ctx context.Context) error
	Attach(ctx context.Context, args []string) error
	Unattach(ctx context.Context, args []string) error
	Draft(ctx context.Context) error
	Save(ctx context.Context) error
	Timeline(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the Ephemeral CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - mood <code>    — set today's mood (blast, fun, better, tomorrow)
//	  - note           — write today's note (multi-line)
//	  - attach <path>… — attach image files to the draft
//	  - unattach <n>   — remove attachment n from the draft
//	  - draft          — show the draft being composed
//	  - save           — save the draft
//	  - (t)imeline     — list all saved entries
//	  - show <date>    — show one entry in full
//	  - edit <date>    — repoint the draft at a past entry
//	  - delete <date>  — delete an entry
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("eph> %s > ", statusFn()))
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
				printlnFn("Available commands: mood, note, attach, unattach, draft, save, (t)imeline, show, edit, delete, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "mood":
			_ = a.Mood(ctx, args)

		case "note":
			_ = a.Note(ctx)

		case "attach":
			_ = a.Attach(ctx, args)

		case "unattach":
			_ = a.Unattach(ctx, args)

		case "draft", "status":
			_ = a.Draft(ctx)

		case "save":
			_ = a.Save(ctx)

		case "t", "timeline", "list", "l":
			_ = a.Timeline(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
