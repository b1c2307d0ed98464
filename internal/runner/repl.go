package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"

	"lysithea/internal/config"
	"lysithea/pkg/color"
	"lysithea/pkg/reader"
)

const (
	historyFile = ".lysithea_history"
	promptMain  = "lys> "
	promptCont  = "...> "
)

var ErrNotTerminal = errors.New("interactive mode needs a terminal")

// REPL reads expressions from the terminal until EOF or :quit.
func (r *Runner) REPL(cfg *config.Config) error {
	if !color.IsTerminal(os.Stdin) {
		return ErrNotTerminal
	}

	session, err := NewSession(cfg, r.stdout())
	if err != nil {
		return err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(session.Complete)

	if home, err := os.UserHomeDir(); err == nil {
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintln(r.stdout(), color.GrayText("lysithea, :quit to exit, :reset to clear definitions"))
	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(r.stdout())
			return nil
		}

		switch command := strings.TrimSpace(src); {
		case command == "":
			continue
		case command == ":quit":
			return nil
		case command == ":reset":
			session.Reset()
			continue
		case strings.HasPrefix(command, ":"):
			fmt.Fprintln(r.stderr(), color.Warning("unknown command "+command))
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		v, ok, err := session.Eval(src)
		if err != nil {
			fmt.Fprintln(r.stderr(), FormatError(err))
			continue
		}
		if ok {
			fmt.Fprintln(r.stdout(), color.GreenText(Format(v)))
		}
	}
}

// readInput keeps prompting while the text read so far is an unfinished expression.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			log.Error("Cannot read input", "error", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !reader.IsIncomplete(b.String()) {
			return b.String(), true
		}
	}
}
