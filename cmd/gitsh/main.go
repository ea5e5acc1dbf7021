package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	gitbridge "github.com/wippyai/git-bridge"
	"github.com/wippyai/git-bridge/bindings"
	"github.com/wippyai/git-bridge/script"
)

func main() {
	var (
		repoPath    = flag.String("repo", "", "Repository to open first; its handle becomes the leading call argument")
		opName      = flag.String("op", "", "Operation to call")
		argStr      = flag.String("args", "", "Call arguments (comma-separated; nil, true/false, integers, anything else is a string)")
		list        = flag.Bool("list", false, "List the operation catalogue and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose binding logs")
	)
	flag.Parse()

	if *verbose {
		log, _ := zap.NewDevelopment()
		bindings.SetLogger(log)
	}

	// With no explicit mode and a terminal attached, default to the TUI.
	if *interactive || (*opName == "" && !*list && term.IsTerminal(int(os.Stdin.Fd()))) {
		if err := runInteractive(*repoPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *opName == "" && !*list {
		fmt.Fprintln(os.Stderr, "Usage: gitsh -op <name> [-repo path] [-args a,b,...]")
		fmt.Fprintln(os.Stderr, "       gitsh -list")
		fmt.Fprintln(os.Stderr, "       gitsh -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*repoPath, *opName, *argStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(repoPath, opName, argStr string, listOnly bool) error {
	bridge, err := gitbridge.New()
	if err != nil {
		return fmt.Errorf("wire bridge: %w", err)
	}
	defer bridge.Close()

	reg := bridge.Registry()

	if listOnly {
		fmt.Printf("Operations: %d\n\n", len(reg.Names()))
		for _, name := range reg.Names() {
			op, _ := reg.Lookup(name)
			fmt.Printf("  %s(%s)  %s\n", name, arityArgs(op.Min, op.Max), op.Doc)
		}
		return nil
	}

	var args []script.Value
	if repoPath != "" {
		repo, err := bridge.Call("git-repository-open", script.String(repoPath))
		if err != nil {
			return fmt.Errorf("open %s: %w", repoPath, err)
		}
		fmt.Printf("Repository: %s\n", repoPath)
		args = append(args, repo)
	}
	if argStr != "" {
		for _, raw := range strings.Split(argStr, ",") {
			args = append(args, parseArg(raw, nil))
		}
	}

	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = a.String()
	}
	fmt.Printf("\nCalling %s(%s)...\n", opName, strings.Join(rendered, ", "))

	result, err := bridge.Call(opName, args...)
	if err != nil {
		return fmt.Errorf("call %s: %w", opName, err)
	}

	fmt.Printf("Result: %s\n", result)

	entries := bridge.Store().Snapshot()
	if len(entries) > 0 {
		fmt.Printf("\n--- live wrappers ---\n")
		for _, e := range entries {
			fmt.Printf("  %-10s refs=%d  %s\n", e.Kind, e.Refs, e.Desc)
		}
	}

	return nil
}

// arityArgs renders an arity range as a parameter list, optionals bracketed.
func arityArgs(min, max int) string {
	var params []string
	for i := 0; i < max; i++ {
		name := fmt.Sprintf("arg%d", i+1)
		if i >= min {
			name = "[" + name + "]"
		}
		params = append(params, name)
	}
	return strings.Join(params, ", ")
}

// parseArg turns one textual argument into a call value. "$N" resolves
// against history (1-based); blank and "nil" mean the absent value.
func parseArg(raw string, history []script.Value) script.Value {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "nil":
		return script.Nil
	case "true":
		return script.Bool(true)
	case "false":
		return script.Bool(false)
	}
	if strings.HasPrefix(s, "$") {
		if n, err := strconv.Atoi(s[1:]); err == nil && n >= 1 && n <= len(history) {
			return history[n-1]
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return script.Int(n)
	}
	return script.String(s)
}
