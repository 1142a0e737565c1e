package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/todograph/internal/config"
	"github.com/aristath/todograph/internal/engine"
	"github.com/aristath/todograph/internal/todo"
	"github.com/aristath/todograph/internal/tui"
)

// execute runs the command line args and releases what the command opened.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer, now func() time.Time) error {
	a := &app{in: in, out: out, errOut: errOut, now: now}

	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	if cerr := a.teardown(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todograph",
		Short:         "todo.txt with dependencies, cascades and recurrence",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (replaces .todograph/config.json)")

	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(doCmd(a))
	rootCmd.AddCommand(lsCmd(a))
	rootCmd.AddCommand(depsCmd(a))
	rootCmd.AddCommand(archiveCmd(a))
	rootCmd.AddCommand(configCmd(a))

	return rootCmd
}

func addCmd(a *app) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a todo",
		Long: `Add a todo. Relative dates (due:fr, t:2w) are resolved, a priority
written at the end ("Water flowers (C)") moves to the front, and
partof:N, before:N and after:N link the todo to todo number N.`,
		Example: `  todograph add "Water flowers (C) due:tomorrow"
  todograph add Paint the fence after:3
  todograph add -f ideas.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile == "" && len(args) == 0 {
				return errors.New("nothing to add")
			}

			ctx := cmd.Context()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}

			var added []*todo.Todo
			if fromFile != "" {
				lines, err := readInput(a.in, fromFile)
				if err != nil {
					return err
				}
				added, err = s.engine.AddLines(lines)
				if err != nil {
					return err
				}
			} else {
				t, err := s.engine.Add(strings.Join(args, " "))
				if err != nil {
					return err
				}
				added = append(added, t)
			}

			for _, t := range added {
				s.printer.Added(t)
			}
			return a.commit(ctx, s)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Add one todo per line of this file (- for stdin)")
	return cmd
}

// readInput reads lines from path, or from in when path is "-".
func readInput(in io.Reader, path string) ([]string, error) {
	r := in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

func doCmd(a *app) *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "do NUMBER...",
		Short: "Mark todos as done",
		Long: `Mark todos as done. Open subtasks are completed too when you confirm.
A recurring todo is followed by its next instance, and todos waiting on
nothing else any more are reported as active.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := a.load(ctx)
			if err != nil {
				return err
			}

			opts := engine.DoOptions{Force: force}
			if yes {
				opts.Decider = engine.Always(true)
			} else {
				prompter := tui.NewPrompter(a.in, a.out, func(t *todo.Todo) string {
					return s.printer.Line(t, true)
				})
				dc := engine.NewDecisionChannel(1, prompter.Confirm)
				dc.Start(ctx)
				defer func() {
					cancel()
					dc.Stop()
				}()
				opts.Decider = dc
			}

			for _, arg := range args {
				if err := complete(ctx, a, s, arg, opts); err != nil {
					return err
				}
			}

			return a.commit(ctx, s)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Don't ask about subtasks and leave them open")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Complete open subtasks without asking")
	return cmd
}

// complete runs one completion. Bad numbers and completed todos are reported
// and skipped so the remaining numbers still get processed.
func complete(ctx context.Context, a *app, s *session, arg string, opts engine.DoOptions) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(a.errOut, "Invalid todo number given: %s\n", arg)
		return nil
	}

	result, err := s.engine.Do(ctx, n, opts)
	switch {
	case errors.Is(err, engine.ErrInvalidNumber):
		fmt.Fprintf(a.errOut, "Invalid todo number given: %d\n", n)
		return nil
	case errors.Is(err, engine.ErrAlreadyCompleted):
		fmt.Fprintf(a.errOut, "Todo %d has already been completed.\n", n)
		return nil
	case err != nil:
		return err
	}

	s.printer.Completion(result)
	return nil
}

func lsCmd(a *app) *cobra.Command {
	var all, topo bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List todos",
		Long: `List open todos by priority, then number. Todos waiting on open
subtasks are marked [blocked].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			todos := s.list.Todos()
			if topo {
				todos, err = s.list.DependencyOrder()
				if err != nil {
					return err
				}
			} else {
				s.list.Sort(todos)
			}

			if !all {
				open := todos[:0]
				for _, t := range todos {
					if !t.Completed {
						open = append(open, t)
					}
				}
				todos = open
			}

			s.printer.List(todos, true)
			s.printer.Progress()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed todos")
	cmd.Flags().BoolVar(&topo, "topo", false, "Order subtasks before the todos waiting on them")
	return cmd
}

func depsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deps NUMBER",
		Short: "Show what a todo waits on and what waits on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", engine.ErrInvalidNumber, args[0])
			}

			s, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			t, err := s.list.Todo(n)
			if err != nil {
				return err
			}
			s.printer.Dependencies(t)
			return nil
		},
	}
}

func archiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move completed todos to the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			done := s.list.RemoveCompleted()
			if len(done) == 0 {
				fmt.Fprintln(a.out, "Nothing to archive.")
				return nil
			}

			// The todo file only loses its completed todos once the archive
			// holds them
			ctx := cmd.Context()
			if err := a.store.Archive(ctx, done); err != nil {
				return fmt.Errorf("archiving: %w", err)
			}
			if err := a.store.Save(ctx, s.list); err != nil {
				return fmt.Errorf("saving todos after archiving: %w", err)
			}

			fmt.Fprintf(a.out, "Archived %d todo(s).\n", len(done))
			return nil
		},
	}
}

func configCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Edit settings interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := a.configPath
			if projectPath == "" {
				projectPath = filepath.Join(".todograph", "config.json")
			}

			path, err := tui.NewSettingsForm(a.cfg, config.GlobalPath(), projectPath).Run()
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(a.out, tui.StyleHelp.Render("Settings unchanged."))
				return nil
			}
			fmt.Fprintln(a.out, tui.StyleSuccess.Render("Settings saved to "+path))
			return nil
		},
	}
}
