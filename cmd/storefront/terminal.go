package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"petstore/internal/storefront"
)

// terminal は標準入出力を使った Prompter / Notifier / Navigator。
type terminal struct {
	in  *bufio.Scanner
	out io.Writer

	//TTYのときだけ設定。エコーせずに読む
	readPassword func() (string, error)

	mu   sync.Mutex
	path string
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	t := &terminal{in: bufio.NewScanner(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		t.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
	}
	return t
}

func (t *terminal) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

// readLine は1行読む。入力が終わったら ok=false
func (t *terminal) readLine(ctx context.Context, prompt string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	t.printf("%s", prompt)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func (t *terminal) Confirm(ctx context.Context, d storefront.ConfirmDialog) (bool, error) {
	t.printf("%s\n%s\n", d.Title, d.Message)
	line, ok := t.readLine(ctx, fmt.Sprintf("[y] %s / [n] %s: ", d.ConfirmText, d.CancelText))
	if !ok {
		return false, ctx.Err()
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// 空行で取りやめ。パイプ入力のときは通常の行読み
func (t *terminal) Secret(ctx context.Context, label string) (string, bool, error) {
	if t.readPassword == nil {
		line, ok := t.readLine(ctx, label+" (empty to cancel): ")
		if !ok {
			return "", false, ctx.Err()
		}
		return line, line != "", nil
	}

	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	t.printf("%s (empty to cancel): ", label)
	pw, err := t.readPassword()
	t.printf("\n")
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	pw = strings.TrimSpace(pw)
	return pw, pw != "", nil
}

func (t *terminal) Success(msg string, _ time.Duration) {
	t.printf("✔ %s\n", msg)
}

func (t *terminal) Error(msg string, _ time.Duration) {
	t.printf("✖ %s\n", msg)
}

func (t *terminal) Navigate(path string) {
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
	t.printf("→ %s\n", path)
}

// takePath は直前の遷移先を返して消す
func (t *terminal) takePath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.path
	t.path = ""
	return p
}

func (t *terminal) progress(pct float64) {
	bar := strings.Repeat("#", int(pct/5))
	t.printf("\r[%-20s] %3.0f%%", bar, pct)
	if pct >= 100 {
		t.printf("\n")
	}
}
