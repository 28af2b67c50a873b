// Command taskctl drives a taskflow server from the terminal.
//
//	taskctl list [-filter all|completed|incomplete]
//	taskctl add -title T -desc D [-due 2026-01-02]
//	taskctl done ID
//	taskctl undo ID
//	taskctl edit [-title T] [-desc D] [-due DATE | -clear-due] ID
//	taskctl rm ID
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow/internal/client/taskflow"
	"github.com/TWRT/taskflow/internal/config"
	"github.com/TWRT/taskflow/internal/logging"
	"github.com/TWRT/taskflow/internal/models"
	"github.com/TWRT/taskflow/internal/view"
)

const usage = `usage: taskctl <command> [flags]

commands:
  list   [-filter all|completed|incomplete]
  add    -title T -desc D [-due DATE]
  done   ID
  undo   ID
  edit   [-title T] [-desc D] [-due DATE | -clear-due] ID
  rm     ID
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := taskflow.NewClient(cfg.APIURL, nil)
	ctrl := view.NewController(api, view.LogNotifier{Logger: logger}, logger)

	if err := run(ctx, ctrl, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, ctrl *view.Controller, args []string, out io.Writer, logger *logrus.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return flag.ErrHelp
	}

	cmd, args := args[0], args[1:]
	flags := flag.NewFlagSet("taskctl "+cmd, flag.ContinueOnError)
	flags.SetOutput(out)

	switch cmd {
	case "list":
		filter := flags.String("filter", "all", "all, completed or incomplete")
		if err := flags.Parse(args); err != nil {
			return err
		}
		f, err := models.ParseFilter(*filter)
		if err != nil {
			return err
		}
		if err := ctrl.Load(ctx); err != nil {
			return err
		}
		ctrl.SetFilter(f)
		return renderTasks(out, ctrl.Visible(), ctrl.Counts(), time.Now())

	case "add":
		title := flags.String("title", "", "task title")
		desc := flags.String("desc", "", "task description")
		due := flags.String("due", "", "due date, YYYY-MM-DD or RFC 3339")
		if err := flags.Parse(args); err != nil {
			return err
		}
		if err := ctrl.Load(ctx); err != nil {
			return err
		}
		if err := ctrl.Create(ctx, models.CreateTaskInput{Title: *title, Description: *desc, DueDate: *due}); err != nil {
			return err
		}
		return renderTasks(out, ctrl.Visible(), ctrl.Counts(), time.Now())

	case "done", "undo":
		if err := flags.Parse(args); err != nil {
			return err
		}
		id, err := parseID(flags)
		if err != nil {
			return err
		}
		patch := models.TaskPatch{Completed: models.Bool(cmd == "done")}
		return ctrl.Update(ctx, id, patch)

	case "edit":
		title := flags.String("title", "", "new title")
		desc := flags.String("desc", "", "new description")
		due := flags.String("due", "", "new due date")
		clearDue := flags.Bool("clear-due", false, "remove the due date")
		if err := flags.Parse(args); err != nil {
			return err
		}
		id, err := parseID(flags)
		if err != nil {
			return err
		}

		var patch models.TaskPatch
		flags.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "title":
				patch.Title = models.String(*title)
			case "desc":
				patch.Description = models.String(*desc)
			case "due":
				patch.DueDateSet = true
				patch.DueDate = *due
			}
		})
		if *clearDue {
			patch.SetDueDate(nil)
		}
		if patch.IsEmpty() {
			return errors.New("edit: nothing to change")
		}
		return ctrl.Update(ctx, id, patch)

	case "rm":
		if err := flags.Parse(args); err != nil {
			return err
		}
		id, err := parseID(flags)
		if err != nil {
			return err
		}
		return ctrl.Delete(ctx, id)

	default:
		logger.WithField("command", cmd).Debug("unknown command")
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseID(flags *flag.FlagSet) (int64, error) {
	if flags.NArg() != 1 {
		return 0, fmt.Errorf("%s: expected exactly one task ID", flags.Name())
	}
	id, err := strconv.ParseInt(flags.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: invalid task ID %q", flags.Name(), flags.Arg(0))
	}
	return id, nil
}
