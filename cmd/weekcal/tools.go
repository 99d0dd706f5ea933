package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weekcal/internal/capture"
	"weekcal/internal/fsutil"
	"weekcal/internal/ics"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/session"
	"weekcal/internal/store"
	"weekcal/internal/timeparse"
	"weekcal/internal/web"
)

func parseCmd(a *app) *cobra.Command {
	var literal bool

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Show how a typed time is read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.ParseOptions()
			if literal {
				opts.PMBias = false
			}
			t, err := timeparse.New(opts).Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", timeparse.Format(t), t.Kitchen())
			return nil
		},
	}

	cmd.Flags().BoolVar(&literal, "no-pm-bias", false, "Read bare hours below 12 as morning")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		output string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "export [date]",
		Short: "Write the week containing date (or --all days) as iCalendar",
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

			week := store.WeekOf(date, a.cfg.FirstWeekday())
			name := "weekcal " + week.String()
			var days []model.TaskDay
			err = sess.View(func(st *store.Store) error {
				if all {
					days, name = st.Days(), "weekcal"
					return nil
				}
				for _, d := range week.Days() {
					if tasks := st.Day(d); len(tasks) > 0 {
						days = append(days, model.TaskDay{Date: d, Tasks: tasks})
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := ics.Write(&buf, days, ics.ExportOptions{Name: name}); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if output == "" || output == "-" {
				if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
					return fmt.Errorf("export: %w", err)
				}
			} else if err := fsutil.WriteFileAtomic(output, buf.Bytes(), ".weekcal-export-*.ics", 0o644); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			appLog.Info("ics exported", "days", len(days), "output", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&all, "all", false, "Export every stored day")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	var (
		replace  bool
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Add the timed events of an iCalendar file as tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts := ics.ImportOptions{Location: time.Local}
			if from != "" {
				if opts.From, err = model.ParseDate(from); err != nil {
					return err
				}
				opts.To = opts.From.AddDays(6)
			}
			if to != "" {
				if from == "" {
					return fmt.Errorf("--to needs --from")
				}
				if opts.To, err = model.ParseDate(to); err != nil {
					return err
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := ics.Import(f, opts)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			return a.edit(func(sess *session.Session) error {
				return sess.Do(func(st *store.Store, _ *store.Clipboard) error {
					n := 0
					for _, d := range res.Days {
						if replace {
							st.Replace(d.Date, d.Tasks)
						} else {
							st.AddAll(d.Date, d.Tasks)
						}
						n += len(d.Tasks)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %d task(s) on %d day(s), skipped %d event(s)\n", n, len(res.Days), res.Skipped)
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the tasks of imported days instead of adding")
	cmd.Flags().StringVar(&from, "from", "", "Import only from this date, expanding recurring events (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date to import, inclusive (default --from plus 6 days)")
	return cmd
}

func snapshotCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot [date]",
		Short: "Render the week timeline page to PNG with headless Chromium",
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

			// The page is served on a private loopback port, so auth is not needed.
			cfg := *a.cfg
			cfg.BasicAuth = nil
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			cfg.Listen = ln.Addr().String()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			srvDone := make(chan error, 1)
			go func() {
				srvDone <- web.NewServer(&cfg, sess).Serve(ctx, ln)
			}()

			opts := capture.Options{
				URL:        fmt.Sprintf("http://%s/timeline?date=%s", cfg.Listen, date),
				OutputPath: output,
				Width:      a.cfg.Snapshot.Width,
				Height:     a.cfg.Snapshot.Height,
				Timeout:    time.Duration(a.cfg.Snapshot.TimeoutSeconds) * time.Second,
			}
			capErr := capture.TimelinePNG(ctx, opts)

			cancel()
			if err := <-srvDone; err != nil {
				appLog.Error("snapshot server failed", err)
			}
			if capErr != nil {
				return capErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "weekcal.png", "PNG output path")
	return cmd
}
