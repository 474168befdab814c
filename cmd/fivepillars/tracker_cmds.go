package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fivepillars/internal/bootstrap"
	trackerdto "fivepillars/internal/modules/tracker/dto"
)

func newInitCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or load the data directory and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				overview, err := app.TrackerCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "data dir %s (%s backend)\n", app.Config.DataDir, app.Config.Storage.Backend)
				printOverview(cmd.OutOrStdout(), overview)
				return nil
			})
		},
	}
}

func newStatusCmd(g *globals) *cobra.Command {
	var asJSON bool
	status := &cobra.Command{
		Use:   "status",
		Short: "Show scores, streak and goal progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				overview, err := app.TrackerCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), overview)
				}
				printOverview(cmd.OutOrStdout(), overview)
				return nil
			})
		},
	}
	status.Flags().BoolVar(&asJSON, "json", false, "print the overview as JSON")
	return status
}

func newSessionCmd(g *globals) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Record and list practice sessions"}

	var kind, mood, notes string
	var minutes, quality int
	add := &cobra.Command{
		Use:   "add <pillar>",
		Short: "Record a session for body|mind|heart|spirit|diet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.AddSession(cmd.Context(), args[0], kind, minutes, quality, mood, notes)
				if err != nil {
					return err
				}
				if !out.Recorded {
					return fmt.Errorf("session not recorded: %q is not a pillar", args[0])
				}
				s := out.Session
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s %s %dmin quality=%d delta=+%d score=%d streak=%d\n",
					s.Pillar, s.Type, s.DurationMinutes, s.QualityScore, s.ScoreDelta, out.PillarScore, out.Streak)
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	}
	add.Flags().IntVar(&minutes, "minutes", 0, "duration in minutes")
	add.Flags().IntVar(&quality, "quality", 50, "self-rated quality 0..100")
	add.Flags().StringVar(&kind, "type", "", "session type (default practice)")
	add.Flags().StringVar(&mood, "mood", "", "mood after the session")
	add.Flags().StringVar(&notes, "notes", "", "free-form notes")

	var pillar string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				sessions, err := app.TrackerCLI.ListSessions(cmd.Context(), pillar, limit)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%dmin\tq=%d\t+%d\t%s\n",
						s.Timestamp.Format(time.RFC3339), s.Pillar, s.Type, s.DurationMinutes, s.QualityScore, s.ScoreDelta, s.ID)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&pillar, "pillar", "", "only this pillar")
	list.Flags().IntVar(&limit, "limit", 20, "maximum rows (0 for all)")

	session.AddCommand(add, list)
	return session
}

func newProfileCmd(g *globals) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Show or change the user profile"}

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				p, err := app.TrackerCLI.Profile(cmd.Context())
				if err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), p)
				return nil
			})
		},
	})

	var name, difficulty, reminder string
	var notifications bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; only flags given are changed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input trackerdto.ProfileInput
			flags := cmd.Flags()
			if flags.Changed("name") {
				input.DisplayName = &name
			}
			if flags.Changed("difficulty") {
				input.Difficulty = &difficulty
			}
			if flags.Changed("reminder") {
				input.ReminderTime = &reminder
			}
			if flags.Changed("notifications") {
				input.NotificationsEnabled = &notifications
			}
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.UpdateProfile(cmd.Context(), input)
				if err != nil {
					return err
				}
				if !out.Applied {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "profile unchanged")
				}
				printProfile(cmd.OutOrStdout(), out.Profile)
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name")
	set.Flags().StringVar(&difficulty, "difficulty", "", "beginner|intermediate|advanced")
	set.Flags().StringVar(&reminder, "reminder", "", "daily reminder as HH:MM")
	set.Flags().BoolVar(&notifications, "notifications", true, "enable reminders")

	profile.AddCommand(set)
	return profile
}

func newScoresCmd(g *globals) *cobra.Command {
	scores := &cobra.Command{Use: "scores", Short: "Pillar score overrides"}
	scores.AddCommand(&cobra.Command{
		Use:   "set <pillar=score>...",
		Short: "Set absolute pillar scores, e.g. body=40 mind=55",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.SetScores(cmd.Context(), args)
				if err != nil {
					return err
				}
				if !out.Applied {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no known pillars in input")
				}
				for _, p := range out.Pillars {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-7s %3d\n", p.Pillar, p.Score)
				}
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	})
	return scores
}

func newAchievementCmd(g *globals) *cobra.Command {
	achievement := &cobra.Command{Use: "achievement", Short: "Achievement commands"}

	var description, pillar, rarity string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Unlock a custom achievement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				view, added, err := app.TrackerCLI.AddAchievement(cmd.Context(), args[0], description, pillar, rarity)
				if err != nil {
					return err
				}
				if !added {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%q not added (duplicate title or invalid input)\n", args[0])
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s [%s] %s\n", view.Title, view.Rarity, view.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&description, "description", "", "achievement description")
	add.Flags().StringVar(&pillar, "pillar", "overall", "pillar or overall")
	add.Flags().StringVar(&rarity, "rarity", "common", "common|rare|epic|legendary")

	list := &cobra.Command{
		Use:   "list",
		Short: "List unlocked achievements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				views, err := app.TrackerCLI.ListAchievements(cmd.Context())
				if err != nil {
					return err
				}
				if len(views) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no achievements")
					return nil
				}
				for _, a := range views {
					marker := " "
					if a.IsNew {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\t%s\n", marker, a.Title, a.Pillar, a.Rarity, a.UnlockedAt.Format(time.DateOnly))
				}
				return nil
			})
		},
	}

	achievement.AddCommand(add, list)
	return achievement
}

func newInsightCmd(g *globals) *cobra.Command {
	insight := &cobra.Command{Use: "insight", Short: "Insight commands"}

	var input trackerdto.InsightInput
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Store an insight; an existing id is replaced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Title = args[0]
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				view, stored, err := app.TrackerCLI.AddInsight(cmd.Context(), input)
				if err != nil {
					return err
				}
				if !stored {
					return fmt.Errorf("insight %q rejected: check pillar, priority and confidence", args[0])
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored insight %s\n", view.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&input.ID, "id", "", "insight id (generated when empty)")
	add.Flags().StringVar(&input.Description, "description", "", "insight body")
	add.Flags().StringVar(&input.Pillar, "pillar", "overall", "pillar or overall")
	add.Flags().Float64Var(&input.Confidence, "confidence", 0.5, "confidence 0..1")
	add.Flags().StringVar(&input.Priority, "priority", "medium", "low|medium|high")

	var unread bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List insights, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				views, err := app.TrackerCLI.ListInsights(cmd.Context(), unread)
				if err != nil {
					return err
				}
				if len(views) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no insights")
					return nil
				}
				for _, in := range views {
					state := "read"
					if !in.Read {
						state = "unread"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%.2f\t%s\n", in.ID, in.Pillar, in.Priority, state, in.Confidence, in.Title)
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&unread, "unread", false, "only unread insights")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark an insight as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				found, err := app.TrackerCLI.MarkInsightRead(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no insight %q", args[0])
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "marked %s read\n", args[0])
				return nil
			})
		},
	}

	insight.AddCommand(add, list, read)
	return insight
}

func newStreakCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Recalculate the day streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Streak(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "streak %d (longest %d)\n", out.Current, out.Longest)
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	}
}

func newSyncCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Stamp the last sync time and flush state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				at, err := app.TrackerCLI.Sync(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced at %s\n", at.Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newClearCmd(g *globals) *cobra.Command {
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear --yes",
		Short: "Delete all stored state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				if err := app.TrackerCLI.Clear(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all data cleared")
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return clearCmd
}

func newExportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write sessions as markdown journal notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Export(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s\n", out.Written, out.Dir)
				return nil
			})
		},
	}
}

func printOverview(w io.Writer, o trackerdto.Overview) {
	_, _ = fmt.Fprintf(w, "%s  level %d  %d sessions\n", o.Profile.DisplayName, o.Profile.Level, o.Profile.TotalSessions)
	_, _ = fmt.Fprintf(w, "overall %.1f  streak %d (longest %d)\n", o.OverallScore, o.CurrentStreak, o.LongestStreak)
	for _, p := range o.Pillars {
		_, _ = fmt.Fprintf(w, "%-7s %3d  %-9s %d sessions\n", p.Pillar, p.Score, p.Trend, p.Sessions)
	}
	_, _ = fmt.Fprintf(w, "today   %d/%d sessions  %d/%d minutes\n", o.TodaySessions, o.DailySessionGoal, o.TodayMinutes, o.DailyMinuteGoal)
	_, _ = fmt.Fprintf(w, "week    %d/%d sessions\n", o.WeekSessions, o.WeeklyGoal)
	_, _ = fmt.Fprintf(w, "insights %d unread  achievements %d new\n", o.UnreadInsights, o.NewAchievements)
}

func printProfile(w io.Writer, p trackerdto.ProfileView) {
	_, _ = fmt.Fprintf(w, "name: %s\nlevel: %d\nsessions: %d\nstreak: %d (longest %d)\ndifficulty: %s\nreminder: %s\nnotifications: %t\n",
		p.DisplayName, p.Level, p.TotalSessions, p.CurrentStreak, p.LongestStreak, p.Difficulty, p.ReminderTime, p.NotificationsEnabled)
}

func printUnlocked(w io.Writer, unlocked []trackerdto.AchievementView) {
	for _, a := range unlocked {
		_, _ = fmt.Fprintf(w, "unlocked %s [%s]\n", a.Title, a.Rarity)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinOr(values []string, empty string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, ",")
}
