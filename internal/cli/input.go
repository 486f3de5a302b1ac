// Package cli is a small interactive shell for poking at the
// suggestion engine: type a query fragment, see the completions the
// client would be offered.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aloha-chat/queryserve/pkg/directory"
	"github.com/aloha-chat/queryserve/pkg/suggest"
)

// InputHandler reads query fragments line by line and prints the
// resulting suggestions. A ":base" command sets the committed part of
// the query, mirroring how pills scope a live search box.
type InputHandler struct {
	engine *suggest.Engine
	snap   *directory.Snapshot
	in     io.Reader
	out    io.Writer
	base   string
}

func NewInputHandler(engine *suggest.Engine, snap *directory.Snapshot) *InputHandler {
	return &InputHandler{
		engine: engine,
		snap:   snap,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "queryserve interactive mode")
	fmt.Fprintln(h.out, "type a search query fragment, :base <query> to pin context, :quit to exit")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "query> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == ":quit" || line == ":q" || line == ":exit":
			return nil
		case line == ":base":
			h.base = ""
			fmt.Fprintln(h.out, "base cleared")
			continue
		case strings.HasPrefix(line, ":base "):
			h.base = strings.TrimSpace(strings.TrimPrefix(line, ":base "))
			fmt.Fprintf(h.out, "base = %q\n", h.base)
			continue
		}

		h.show(line)
	}
}

func (h *InputHandler) show(query string) {
	result := h.engine.GetSuggestions(h.snap, h.base, query)
	if len(result.Strings) == 0 {
		fmt.Fprintln(h.out, "  (no suggestions)")
		return
	}
	for i, s := range result.Strings {
		entry := result.Lookup[s]
		if entry.Description != "" {
			fmt.Fprintf(h.out, "  %2d. %-50s %s\n", i+1, s, entry.Description)
		} else {
			fmt.Fprintf(h.out, "  %2d. %s\n", i+1, s)
		}
	}
}
