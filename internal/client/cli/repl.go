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

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error

	Decks(ctx context.Context) error
	Refresh(ctx context.Context) error
	Show(ctx context.Context, arg string) error
	Use(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error

	New(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Edit(ctx context.Context, arg string) error
	Say(ctx context.Context, text string) error

	Teach(ctx context.Context, arg string) error
	Audio(ctx context.Context, path string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Evaluate(ctx context.Context) error
	End(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = `Available commands:
  decks | refresh | show <#> | use <#> | delete <#>
  new | upload <pdf> | edit <#> | <any other text> goes to the open chat
  teach <#> | audio <file> | next | prev | evaluate | end
  status | logout | exit`
)

// argCommands take exactly one argument; the value is the usage hint.
var argCommands = map[string]string{
	"show":   "show <deck#>",
	"use":    "use <deck#>",
	"delete": "delete <deck#>",
	"upload": "upload <path to pdf>",
	"edit":   "edit <deck#>",
	"teach":  "teach <deck#>",
	"audio":  "audio <path to recording>",
}

// runREPL reads commands line by line from reader and dispatches them to a.
//
// The first word selects the command. Lines that are not a command are
// sent to the open chat once the user is logged in. Handler errors are
// printed and the loop continues. It returns on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sd> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		}

		if err := dispatch(ctx, a, cmd, rest, line); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd, arg, line string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		printlnFn("Please login or register first")
		return nil
	}

	if usage, ok := argCommands[cmd]; ok && arg == "" {
		printlnFn("Usage:", usage)
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "status":
		return a.Status(ctx)
	case "decks", "l":
		return a.Decks(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "show":
		return a.Show(ctx, arg)
	case "use":
		return a.Use(ctx, arg)
	case "delete":
		return a.Delete(ctx, arg)
	case "new":
		return a.New(ctx)
	case "upload":
		return a.Upload(ctx, arg)
	case "edit":
		return a.Edit(ctx, arg)
	case "teach":
		return a.Teach(ctx, arg)
	case "audio":
		return a.Audio(ctx, arg)
	case "next":
		return a.Next(ctx)
	case "prev":
		return a.Prev(ctx)
	case "evaluate":
		return a.Evaluate(ctx)
	case "end":
		return a.End(ctx)
	default:
		return a.Say(ctx, line)
	}
}
