package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/tgsim/tgsim/internal/errwrap"
)

// Args is the top-level CLI parsing structure, mirroring the teacher's
// single-struct-with-subcommand-pointers convention: exactly one of the
// subcommand fields is non-nil after a successful parse.
type Args struct {
	RunCmd  *RunArgs  `arg:"subcommand:run" help:"run one end-to-end scenario"`
	ListCmd *ListArgs `arg:"subcommand:list" help:"list available scenarios"`

	version     string `arg:"-"`
	description string `arg:"-"`
}

// Version implements go-arg's version hook.
func (a *Args) Version() string { return a.version }

// Description implements go-arg's description hook.
func (a *Args) Description() string { return a.description }

// RunArgs is the `run` subcommand: pick one named scenario and drive it to
// completion.
type RunArgs struct {
	Scenario string `arg:"positional,required" help:"scenario name (see 'tgsimctl list')"`
}

// ListArgs is the `list` subcommand: it takes no flags.
type ListArgs struct{}

// Run parses argv and dispatches to the selected subcommand. It returns an
// error for both structural CLI mistakes and scenario failures; the caller
// (main) is responsible for the process exit code.
func Run(ctx context.Context, argv []string, version string) error {
	args := &Args{version: version, description: "discrete-event task-graph simulator demo"}

	parser, err := arg.NewParser(arg.Config{Program: "tgsimctl"}, args)
	if err != nil {
		return errwrap.Wrapf(err, "cli config error")
	}
	if err := parser.Parse(argv); err != nil {
		if err == arg.ErrHelp {
			parser.WriteHelp(os.Stdout)
			return nil
		}
		if err == arg.ErrVersion {
			fmt.Println(version)
			return nil
		}
		return errwrap.Wrapf(err, "argument error")
	}

	switch {
	case args.RunCmd != nil:
		return runScenario(ctx, args.RunCmd.Scenario)
	case args.ListCmd != nil:
		listScenarios()
		return nil
	default:
		parser.WriteHelp(os.Stdout)
		return nil
	}
}

func runScenario(ctx context.Context, name string) error {
	fn, ok := scenarios[name]
	if !ok {
		return errwrap.Errorf("unknown scenario %q (run 'tgsimctl list' for the set)", name)
	}
	fmt.Printf("running %s\n", name)
	return fn(ctx)
}

func listScenarios() {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Println(strings.Join(names, "\n"))
}
