package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/corerun/memory"
	"github.com/npillmayer/corerun/script"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	interactive := flag.Bool("i", false, "Interactive mode after running the script")
	nonzero := flag.Bool("nonzero-exit", false, "Exit with status 1 on fatal errors")
	postmortem := flag.Bool("panic-on-fatal", false, "Panic on fatal errors (post-mortem debugging)")
	flag.Parse()
	memory.SetFatalPolicy(memory.FatalPolicy{
		NonzeroExit:  *nonzero,
		PanicOnFatal: *postmortem,
	})
	tracer().SetTraceLevel(traceLevel(*tlevel))
	tracing.Select("corerun.memory").SetTraceLevel(traceLevel(*tlevel))
	tracer().Infof("Trace level is %s", *tlevel)
	//
	if flag.NArg() > 0 {
		runFile(flag.Arg(0))
		if !*interactive {
			return
		}
	}
	repl, err := readline.New("core> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	pterm.Info.Println("Welcome to the Core memory shell") // colored welcome message
	tracer().Infof("Quit with <ctrl>D")
	sh := &Shell{
		intp: script.NewInterpreter(),
		repl: repl,
	}
	sh.REPL()
}

// runFile executes a script file. Fatal errors terminate the process.
func runFile(filename string) {
	input, err := ioutil.ReadFile(filename)
	if err != nil {
		tracer().Errorf("Unable to open script file: %s", filename)
		os.Exit(2)
	}
	if err = script.Run(string(input), os.Stdout); err != nil {
		memory.Fatal(err)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Shell is our interactive interpreter object.
type Shell struct {
	intp    *script.Interpreter
	repl    *readline.Instance
	pending []string // lines of an incomplete statement
}

// REPL starts interactive mode.
func (sh *Shell) REPL() {
	for {
		line, err := sh.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if len(sh.pending) == 0 && strings.HasPrefix(line, ":") {
			if quit := sh.Command(line); quit {
				break
			}
			continue
		}
		sh.pending = append(sh.pending, line)
		input := strings.Join(sh.pending, "\n")
		if strings.Count(input, "{") > strings.Count(input, "}") {
			sh.repl.SetPrompt("  ... ")
			continue
		}
		sh.pending = sh.pending[:0]
		sh.repl.SetPrompt("core> ")
		sh.Eval(input)
	}
	println("Good bye!")
}

// Eval parses and executes script input. A fatal error ends the current program
// run: global memory is reset.
func (sh *Shell) Eval(input string) {
	nodes, err := script.Parse(input)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if err = sh.intp.Exec(nodes); err != nil {
		pterm.Error.Println(err.Error())
		pterm.Info.Println("program run aborted, memory has been reset")
		sh.intp = script.NewInterpreter()
	}
}

// Command executes a shell command. Returns true if the shell should quit.
func (sh *Shell) Command(cmd string) bool {
	switch cmd {
	case ":quit", ":q":
		return true
	case ":reset":
		sh.intp.Reset()
	case ":heap":
		sh.showHeap()
	default:
		pterm.Error.Println(fmt.Sprintf("unknown command %s", cmd))
	}
	return false
}

// showHeap displays the visible scopes as a tree on a terminal.
func (sh *Shell) showHeap() {
	mem := sh.intp.Memory()
	mem.Dump(tracing.LevelDebug)
	ll := pterm.LeveledList{}
	for _, sc := range mem.Scopes() {
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: sc.Name})
		for _, nm := range sc.Names() {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: sc.Lookup(nm).String()})
		}
	}
	if names := mem.Functions().Names(); len(names) > 0 {
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: "functions"})
		for _, nm := range names {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: mem.Functions().Lookup(nm).String()})
		}
	}
	if len(ll) == 0 {
		pterm.Info.Println("no variables")
		return
	}
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
	pterm.Info.Println(fmt.Sprintf("%d reachable objects", mem.Reachable()))
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
