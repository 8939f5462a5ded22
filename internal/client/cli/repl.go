package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	Feed(ctx context.Context) error
	Mine(ctx context.Context) error
	Donate(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	RequestDonation(ctx context.Context, id string) error
	Requests(ctx context.Context) error
	Cancel(ctx context.Context, id string) error
	SetRequestStatus(ctx context.Context, id, status string) error
	Ping(ctx context.Context) error
	ResetOnboarding(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, ping, reset-onboarding, exit"
	helpLoggedIn  = "Available commands: home, feed, mine, donate, edit <id>, remove <id>, " +
		"request <id>, requests, cancel <id>, status <id> accepted|rejected, " +
		"profile, edit-profile, avatar [path], delete-account, ping, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the FoodBridge CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as arguments, and dispatches to methods on 'a'. Unknown commands
// and missing arguments are reported back to the user. The loop exits on
// EOF, when ctx is done, or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers
// report their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fb %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		dispatch(ctx, a, cmd, args)
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	needID := func(usage string, fn func(id string) error) {
		if len(args) == 0 {
			printlnFn("Usage:", usage)
			return
		}
		_ = fn(args[0])
	}

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}

	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "ping":
		_ = a.Ping(ctx)
	case "reset-onboarding":
		_ = a.ResetOnboarding(ctx)

	case "home":
		_ = a.Home(ctx)
	case "profile":
		_ = a.Profile(ctx)
	case "edit-profile":
		_ = a.EditProfile(ctx)
	case "delete-account":
		_ = a.DeleteAccount(ctx)
	case "avatar":
		_ = a.Avatar(ctx, strings.Join(args, " "))

	case "feed", "l", "list":
		_ = a.Feed(ctx)
	case "mine":
		_ = a.Mine(ctx)
	case "donate":
		_ = a.Donate(ctx)
	case "edit":
		needID("edit <id>", func(id string) error { return a.Edit(ctx, id) })
	case "remove":
		needID("remove <id>", func(id string) error { return a.Remove(ctx, id) })

	case "request":
		needID("request <id>", func(id string) error { return a.RequestDonation(ctx, id) })
	case "requests":
		_ = a.Requests(ctx)
	case "cancel":
		needID("cancel <id>", func(id string) error { return a.Cancel(ctx, id) })
	case "status":
		if len(args) < 2 {
			printlnFn("Usage: status <id> accepted|rejected")
			return
		}
		_ = a.SetRequestStatus(ctx, args[0], args[1])

	default:
		printlnFn("Unknown command:", cmd)
	}
}
