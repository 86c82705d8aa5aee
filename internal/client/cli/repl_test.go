package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) Kinds(ctx context.Context) error { return f.record("kinds", nil) }
func (f *fakeExec) Generate(ctx context.Context, args []string) error {
	return f.record("generate", args)
}
func (f *fakeExec) Preview(ctx context.Context, args []string) error {
	return f.record("preview", args)
}
func (f *fakeExec) Scan(ctx context.Context, args []string) error { return f.record("scan", args) }
func (f *fakeExec) Read(ctx context.Context, args []string) error { return f.record("read", args) }
func (f *fakeExec) List(ctx context.Context) error                { return f.record("list", nil) }
func (f *fakeExec) Show(ctx context.Context, args []string) error { return f.record("show", args) }
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Share(ctx context.Context, args []string) error { return f.record("share", args) }
func (f *fakeExec) Export(ctx context.Context, args []string) error {
	return f.record("export", args)
}
func (f *fakeExec) Sync(ctx context.Context) error { return f.record("sync", nil) }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = toString(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	case interface{ String() string }:
		return x.String()
	}
	return ""
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"kinds",
		"generate wifi",
		"preview",
		"scan code.png",
		"read hello world",
		"l",
		"show 123",
		"delete 123",
		"share 123",
		"export out.json.zst",
		"sync",
		"",
		"foobar",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{
		"kinds", "generate", "preview", "scan", "read", "list",
		"show", "delete", "share", "export", "sync",
	}, exec.calls)
	assert.Equal(t, []string{"wifi"}, exec.args[1])
	assert.Equal(t, []string{"code.png"}, exec.args[3])
	assert.Equal(t, []string{"hello world"}, exec.args[4])
	assert.Equal(t, []string{"123"}, exec.args[6])
}

func TestRunREPL_ReadKeepsWhitespace(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("  read WIFI:S:My  Net;T:WPA;P:x;;\r\nscan my  photo.png\nread\nquit\n")))

	assert.Equal(t, []string{"read", "scan", "read"}, exec.calls)
	assert.Equal(t, []string{"WIFI:S:My  Net;T:WPA;P:x;;"}, exec.args[0])
	assert.Equal(t, []string{"my  photo.png"}, exec.args[1])
	assert.Nil(t, exec.args[2])
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" },
		bufio.NewReader(strings.NewReader("sync\nlist\nquit\n")))

	assert.Equal(t, []string{"sync", "list"}, exec.calls)
	assert.Contains(t, *lines, "Error: boom")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" },
		bufio.NewReader(strings.NewReader("kinds")))

	assert.Equal(t, []string{"kinds"}, exec.calls)
}
