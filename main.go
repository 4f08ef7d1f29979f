package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Samdami/Altsamdamiblog/service"
)

// exit is swapped out in tests.
var exit = os.Exit

func main() {
	exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run dispatches a CLI command and returns the process exit code.
func run(args []string, in io.Reader, out io.Writer) int {
	if len(args) < 1 {
		printHelp(out)
		return 1
	}

	switch strings.ToLower(args[0]) {
	case "help":
		printHelp(out)
		return 0
	case "version":
		fmt.Fprintf(out, "blog version %s\n", service.Version)
		return 0
	case "serve":
		return serve(out)
	case "db":
		return service.NewCommands(service.LoadConfig(), in, out).HandleCommand(args[1:])
	default:
		fmt.Fprintf(out, "Unknown command: %s\n\n", args[0])
		printHelp(out)
		return 1
	}
}

func printHelp(out io.Writer) {
	helpText := `Usage: blog <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the blog web server (configured from the environment).
  db <init|clean|backup|restore> Manage the database and session store. See "blog db help".
`
	fmt.Fprintln(out, helpText)
}

func serve(out io.Writer) int {
	app, err := service.New(service.LoadConfig())
	if err != nil {
		fmt.Fprintf(out, "Failed to start: %v\n", err)
		return 1
	}
	if err := app.Run(); err != nil {
		fmt.Fprintf(out, "Server error: %v\n", err)
		return 1
	}
	return 0
}
