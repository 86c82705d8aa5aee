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
	Kinds(ctx context.Context) error
	Generate(ctx context.Context, args []string) error
	Preview(ctx context.Context, args []string) error
	Scan(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
}

const helpText = `Available commands:
  kinds               list content kinds
  generate [kind]     fill a form, save the code and record it
  preview [kind]      fill a form and show the code without saving
  scan <image>        decode a QR image file
  read [text]         inspect already decoded text (multi-line when omitted)
  (l)ist              list history, newest first
  show <id>           show a record with its field breakdown
  delete <id>         delete a record and its image
  share <id>          publish a record image and print its link
                      (offline: save the image and print its path)
  export <path>       export history as JSON (.zst compresses)
  sync                synchronize history with the server
  exit | quit         leave the program`

// rawArgs returns the text after cmd as one argument, keeping inner
// whitespace intact, or nil when nothing follows the command.
func rawArgs(line, cmd string) []string {
	rest := strings.TrimLeft(line, " \t")
	rest = strings.TrimPrefix(rest, cmd)
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimRight(rest, "\r\n")
	if rest == "" {
		return nil
	}
	return []string{rest}
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by handlers are reported but never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		fmt.Printf("kodex %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		if cmd == "scan" || cmd == "read" {
			args = rawArgs(line, cmd)
		}

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "kinds":
			cmdErr = a.Kinds(ctx)
		case "generate":
			cmdErr = a.Generate(ctx, args)
		case "preview":
			cmdErr = a.Preview(ctx, args)
		case "scan":
			cmdErr = a.Scan(ctx, args)
		case "read":
			cmdErr = a.Read(ctx, args)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "share":
			cmdErr = a.Share(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "sync":
			cmdErr = a.Sync(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describeError(cmdErr))
		}
	}
}
