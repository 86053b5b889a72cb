package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	FaceID(ctx context.Context) error
	Google(ctx context.Context) error
	Apple(ctx context.Context) error
	Reset(ctx context.Context) error
	ResetConfirm(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	Save(ctx context.Context) error
	Logout(ctx context.Context) error
	Forget(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, faceid, google, apple, reset, reset-confirm, exit"
	helpSignedIn  = "Available commands: profile, edit <field> <value>, photo <path>, save, logout, forget, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
// Errors returned by handlers are ignored; handlers report them to the user
// themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ele %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "faceid":
			_ = a.FaceID(ctx)
		case "google":
			_ = a.Google(ctx)
		case "apple":
			_ = a.Apple(ctx)
		case "reset":
			_ = a.Reset(ctx)
		case "reset-confirm":
			_ = a.ResetConfirm(ctx)

		case "profile", "edit", "photo", "save", "logout", "forget":
			if !a.isLoggedIn() {
				printlnFn("Sign in first")
				continue
			}
			switch cmd {
			case "profile":
				_ = a.Profile(ctx)
			case "edit":
				_ = a.Edit(ctx, args)
			case "photo":
				_ = a.Photo(ctx, args)
			case "save":
				_ = a.Save(ctx)
			case "logout":
				_ = a.Logout(ctx)
			case "forget":
				_ = a.Forget(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
