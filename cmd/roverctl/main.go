// Command roverctl runs rover instruction scripts from the command line without
// starting the server.
//
//	roverctl run mission.txt          # print the final report
//	roverctl run < mission.txt        # read instructions from stdin
//	roverctl check mission.txt        # validate only
//	roverctl scenario canonical       # run a stored scenario
//	roverctl scenarios                # list stored scenarios
//
// Skipped moves are written to stderr unless --quiet is set. Invalid input
// exits with status 2, any other failure with status 1.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/rover-arena/game/engine"
	"github.com/wricardo/rover-arena/game/scenario"
)

const version = "1.0.0"

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "roverctl: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, engine.ErrInvalidInputFormat), errors.Is(err, scenario.ErrInvalidScenario):
		return 2
	default:
		return 1
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	quiet := func() cli.Flag {
		return &cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "do not report skipped moves on stderr",
		}
	}
	dir := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Value:   "scenarios",
			Usage:   "scenario directory",
			Sources: cli.EnvVars("SCENARIO_DIR"),
		}
	}

	newArena := func(cmd *cli.Command) *engine.Arena {
		arena := engine.NewArena()
		arena.Diagnostics = nil
		if !cmd.Bool("quiet") {
			arena.Diagnostics = func(r engine.MoveRejection) {
				fmt.Fprintln(stderr, r)
			}
		}
		return arena
	}

	return &cli.Command{
		Name:      "roverctl",
		Usage:     "drive rovers across a plateau",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run an instruction script and print where every rover ended up",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{quiet()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					text, err := readInput(stdin, cmd.Args().First())
					if err != nil {
						return err
					}
					report, err := newArena(cmd).ProcessInstructions(text)
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, report)
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "validate an instruction script without printing a report",
				ArgsUsage: "[FILE]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					text, err := readInput(stdin, cmd.Args().First())
					if err != nil {
						return err
					}
					batch, err := engine.Parse(text)
					if err != nil {
						return err
					}
					arena := engine.NewArena()
					arena.Diagnostics = nil
					rejected, err := arena.Deploy(batch)
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout, "ok: %d rover(s) on plateau %s, %d skipped move(s)\n",
						len(batch.Commands), batch.Platform, len(rejected))
					return nil
				},
			},
			{
				Name:      "scenario",
				Usage:     "run a stored scenario",
				ArgsUsage: "ID",
				Flags:     []cli.Flag{dir(), quiet()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return errors.New("scenario ID is required")
					}
					m, err := scenario.NewManager(cmd.String("dir"))
					if err != nil {
						return err
					}
					s, err := m.Load(id)
					if err != nil {
						return fmt.Errorf("%s: %w", id, err)
					}
					report, err := newArena(cmd).ProcessInstructions(s.Instructions)
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, report)
					return nil
				},
			},
			{
				Name:  "scenarios",
				Usage: "list stored scenarios",
				Flags: []cli.Flag{dir()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					m, err := scenario.NewManager(cmd.String("dir"))
					if err != nil {
						return err
					}
					infos, err := m.Scan()
					for _, info := range infos {
						fmt.Fprintf(stdout, "%-20s %-30s %3d rovers  plateau %s\n", info.ID, info.Name, info.Rovers, info.Platform)
					}
					return err
				},
			},
		},
	}
}

// readInput reads path, or stdin when path is empty or "-"
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
