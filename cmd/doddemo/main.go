// Command doddemo parses one or more Day of Defeat point-of-view demo
// files and prints a match report for each.
//
// Usage:
//
//	doddemo [--output-format markdown|json] demo1.dem [demo2.dem ...]
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/dodanalysis/dodrep/dem"
	"github.com/dodanalysis/dodrep/demparser"
	"github.com/dodanalysis/dodrep/render"
)

const (
	exitOK            = 0
	exitDecodeFailure = 1
	exitArgumentError = 2
)

type options struct {
	OutputFormat string `short:"f" long:"output-format" choice:"markdown" choice:"json" default:"markdown" description:"Output format"`
	Args         struct {
		Demos []string `positional-arg-name:"demo" description:"Demo files to parse" required:"true"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "doddemo"

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		return exitArgumentError
	}

	reports, errs := demparser.ParseAll(opts.Args.Demos, dem.DefaultConfig)

	exitCode := exitOK
	complete := make([]*dem.MatchReport, 0, len(reports))
	for i, err := range errs {
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", opts.Args.Demos[i], err)
			exitCode = exitDecodeFailure
			continue
		}
		complete = append(complete, reports[i])
	}

	switch opts.OutputFormat {
	case "json":
		data, err := render.JSON(complete, true)
		if err != nil {
			fmt.Fprintf(stderr, "failed to encode output: %v\n", err)
			return exitDecodeFailure
		}
		fmt.Fprintln(stdout, string(data))
	default:
		for _, r := range complete {
			fmt.Fprintln(stdout, render.Markdown(r))
		}
	}

	return exitCode
}
