// Copyright 2025, agbabi contributors

// Command agbsim runs a scenario script against the simulated target.
// Scripts are starlark; the symbolic defines of the machine are
// predeclared, along with builtins that raise interrupts, install the
// user handler, create and drive coroutines, and exercise the clock
// and bootstrap link.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/asiekierka/agbabi/machine"
)

func main() {
	var verbose bool

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: usage: agbsim [-v] scenario.star", os.Args[0])
	}
	script := flag.Arg(0)

	m := machine.New()
	m.Verbose = verbose
	m.Reset()

	r := &runner{machine: m}

	predeclared := starlark.StringDict{}
	for key, value := range m.Defines() {
		value32, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			log.Fatalf("%v: define %v: %v", os.Args[0], key, err)
		}
		predeclared[key] = starlark.MakeInt(int(value32))
	}
	for name, fn := range r.builtins() {
		predeclared[name] = fn
	}

	thread := &starlark.Thread{
		Name: "agbsim",
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Println(msg)
		},
	}

	opts := syntax.FileOptions{}
	_, err := starlark.ExecFileOptions(&opts, thread, script, nil, predeclared)
	if err != nil {
		log.Fatalf("%v: %v", script, err)
	}
}
