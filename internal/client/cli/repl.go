package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. *App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Get(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Groups(ctx context.Context, args []string) error
	CreateGroup(ctx context.Context, args []string) error
	Conversations(ctx context.Context) error
	GroupIDs(ctx context.Context, args []string) error
	File(ctx context.Context, args []string) error
}

// runREPL reads one command per line and dispatches it to a. It exits on
// EOF, on "exit"/"quit" or when ctx is done. Handlers report their own
// errors, so the returned ones are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("lead %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, get, post, delete, upload, profile, groups, group-create, group-ids, conversations, file, logout, exit")
			} else {
				printlnFn("Available commands: login, register, forgot, reset, whoami, file, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "get":
			_ = a.Get(ctx, args)

		case "post":
			_ = a.Post(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "profile":
			_ = a.Profile(ctx)

		case "groups":
			_ = a.Groups(ctx, args)

		case "group-create":
			_ = a.CreateGroup(ctx, args)

		case "group-ids":
			_ = a.GroupIDs(ctx, args)

		case "conversations":
			_ = a.Conversations(ctx)

		case "file":
			_ = a.File(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
