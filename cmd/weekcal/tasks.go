package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"weekcal/internal/entry"
	"weekcal/internal/model"
	"weekcal/internal/session"
	"weekcal/internal/store"
	"weekcal/internal/timeparse"
)

// Tasks are addressed on the command line by their 1-based position in the
// day's list as printed by `show`; IDs do not survive between runs.

func (a *app) builder() *entry.Builder {
	return entry.NewBuilder(timeparse.New(a.cfg.ParseOptions()), a.cfg.DefaultColor)
}

// positions maps 1-based positions on a day to task IDs.
func positions(tasks []model.TaskItem, args []string) ([]string, error) {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(tasks) {
			return nil, fmt.Errorf("no task #%s (day has %d)", arg, len(tasks))
		}
		ids = append(ids, tasks[n-1].ID)
	}
	return ids, nil
}

func printDay(w io.Writer, d model.Date, tasks []model.TaskItem, selected bool) {
	mark := " "
	if selected {
		mark = "*"
	}
	fmt.Fprintf(w, "%s %s\n", mark, d.Label())
	if len(tasks) == 0 {
		fmt.Fprintln(w, "    (no tasks)")
		return
	}
	for i, t := range tasks {
		fmt.Fprintf(w, "  %2d. %-17s %s [%s]\n", i+1, t.TimeRange(), t.Title, t.ColorOrDefault())
		if t.Notes != "" {
			fmt.Fprintf(w, "      %s\n", t.Notes)
		}
	}
}

func showCmd(a *app) *cobra.Command {
	var dayOnly bool

	cmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Show the week containing date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args, 0)
			if err != nil {
				return err
			}
			sess, err := a.openSession()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			week := store.WeekOf(date, a.cfg.FirstWeekday())
			selected := date
			if len(args) == 0 {
				selected = week.SelectedDay(model.Today())
			}
			return sess.View(func(st *store.Store) error {
				if dayOnly {
					printDay(out, date, st.Day(date), false)
					return nil
				}
				fmt.Fprintf(out, "Week %s\n", week)
				for _, d := range week.Days() {
					printDay(out, d, st.Day(d), d == selected)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&dayOnly, "day", "d", false, "Show only the given day")
	return cmd
}

// formFlags binds the task form fields to cmd.
func formFlags(cmd *cobra.Command, f *entry.Form) {
	cmd.Flags().StringVarP(&f.Start, "start", "s", "", `Start time ("8", "8h", "930", "20:15", "8:30pm")`)
	cmd.Flags().StringVarP(&f.End, "end", "e", "", "End time; leave empty for a one-time marker")
	cmd.Flags().StringVarP(&f.Title, "title", "t", "", "Task title")
	cmd.Flags().StringVarP(&f.Notes, "notes", "n", "", "Notes (Markdown)")
	cmd.Flags().StringVar(&f.Color, "color", "", "Red, Yellow, Green, Blue, Purple, #rrggbb or a color name")
}

func addCmd(a *app) *cobra.Command {
	var form entry.Form

	cmd := &cobra.Command{
		Use:   "add <date>",
		Short: "Add a task to a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args, 0)
			if err != nil {
				return err
			}
			item, err := a.builder().Build(form)
			if err != nil {
				return err
			}
			return a.edit(func(sess *session.Session) error {
				return sess.Do(func(st *store.Store, _ *store.Clipboard) error {
					item = st.Add(date, item)
					fmt.Fprintf(cmd.OutOrStdout(), "added %s %s %s\n", date, item.TimeRange(), item.Title)
					return nil
				})
			})
		},
	}

	formFlags(cmd, &form)
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var form entry.Form

	cmd := &cobra.Command{
		Use:   "edit <date> <n>",
		Short: "Edit task #n of a day; omitted flags keep their value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args, 0)
			if err != nil {
				return err
			}
			b := a.builder()
			return a.edit(func(sess *session.Session) error {
				return sess.Do(func(st *store.Store, _ *store.Clipboard) error {
					ids, err := positions(st.Day(date), args[1:])
					if err != nil {
						return err
					}
					cur, _ := st.Find(date, ids[0])

					f := entry.FormOf(cur)
					flags := cmd.Flags()
					if flags.Changed("start") {
						f.Start = form.Start
					}
					if flags.Changed("end") {
						f.End = form.End
					}
					if flags.Changed("title") {
						f.Title = form.Title
					}
					if flags.Changed("notes") {
						f.Notes = form.Notes
					}
					if flags.Changed("color") {
						f.Color = form.Color
					}

					item, err := b.Build(f)
					if err != nil {
						return err
					}
					item, err = st.Update(date, ids[0], item)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s %s\n", date, item.TimeRange(), item.Title)
					return nil
				})
			})
		},
	}

	formFlags(cmd, &form)
	return cmd
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <date> <n>...",
		Short: "Remove tasks by position",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args, 0)
			if err != nil {
				return err
			}
			return a.edit(func(sess *session.Session) error {
				return sess.Do(func(st *store.Store, _ *store.Clipboard) error {
					ids, err := positions(st.Day(date), args[1:])
					if err != nil {
						return err
					}
					n := st.Remove(date, ids...)
					fmt.Fprintf(cmd.OutOrStdout(), "removed %d task(s) from %s\n", n, date)
					return nil
				})
			})
		},
	}
}

func clearWeekCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-week [date]",
		Short: "Remove every task of the week containing date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args, 0)
			if err != nil {
				return err
			}
			week := store.WeekOf(date, a.cfg.FirstWeekday())
			return a.edit(func(sess *session.Session) error {
				return sess.Do(func(st *store.Store, _ *store.Clipboard) error {
					n := st.ClearWeek(week)
					fmt.Fprintf(cmd.OutOrStdout(), "cleared %d day(s) in week %s\n", n, week)
					return nil
				})
			})
		},
	}
}

func copyCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "copy --from <date> --to <date> [n...]",
		Short: "Copy tasks (all, or the listed positions) from one day to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := model.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			dst, err := model.ParseDate(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			return a.edit(func(sess *session.Session) error {
				return sess.Do(func(st *store.Store, clip *store.Clipboard) error {
					items := st.Day(src)
					if len(args) > 0 {
						ids, err := positions(items, args)
						if err != nil {
							return err
						}
						picked := make([]model.TaskItem, 0, len(ids))
						for _, id := range ids {
							t, _ := st.Find(src, id)
							picked = append(picked, t)
						}
						items = picked
					}
					clip.Copy(items)
					pasted := clip.Paste(st, dst)
					fmt.Fprintf(cmd.OutOrStdout(), "copied %d task(s) from %s to %s\n", len(pasted), src, dst)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source date")
	cmd.Flags().StringVar(&to, "to", "", "Target date")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
