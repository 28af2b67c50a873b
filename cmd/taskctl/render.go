package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/TWRT/taskflow/internal/models"
)

func renderTasks(w io.Writer, tasks []models.Task, counts models.Counts, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tDONE\tTITLE\tDUE\tCREATED")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			t.ID, checkbox(t.Completed), t.Title, dueLabel(t, now), humanize.RelTime(t.CreatedAt, now, "ago", "from now"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nall %d · completed %d · incomplete %d\n", counts.All, counts.Completed, counts.Incomplete)
	return err
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func dueLabel(t models.Task, now time.Time) string {
	if t.DueDate == nil {
		return "-"
	}
	label := t.DueDate.Format("2006-01-02")
	if t.IsOverdue(now) {
		label += " OVERDUE"
	}
	return label
}
