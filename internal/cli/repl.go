package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. The real App type
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	Unlock(ctx context.Context) error
	Enroll(ctx context.Context) error
	List(ctx context.Context) error
	AddFile(ctx context.Context, path string) error
	AddPhoto(ctx context.Context, path string) error
	Delete(ctx context.Context, id string) error
	Open(ctx context.Context, id string) error
	Lock(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. The loop exits on scanner EOF or "exit"/"quit".
// Command handlers report their own errors; the loop stays resilient and
// only does I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vault %s> ", statusFn()))
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
			if a.isUnlocked() {
				printlnFn("Available commands: (l)ist, add <path>, addphoto <path>, delete <id>, open <id>, lock, exit")
			} else {
				printlnFn("Available commands: unlock, enroll, exit")
			}

		case "unlock":
			_ = a.Unlock(ctx)

		case "enroll":
			_ = a.Enroll(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <path-to-pdf>")
				continue
			}
			_ = a.AddFile(ctx, args[0])

		case "addphoto":
			if len(args) == 0 {
				printlnFn("Usage: addphoto <path-to-image>")
				continue
			}
			_ = a.AddPhoto(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <id>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "lock":
			_ = a.Lock(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
