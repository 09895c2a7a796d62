package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quizline/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show progression stats, streak and rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, sched, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			stats := eng.Stats()
			rating := eng.Rating()
			status := sched.Status()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Progression"))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d (best %d)", ui.IconFlame, stats.CurrentStreak, stats.LongestStreak)))
			fmt.Fprintln(out, ui.LabelValue("Total XP", stats.TotalXP))
			fmt.Fprintln(out, ui.LabelValue("Points", fmt.Sprintf("%s %d", ui.IconCoin, stats.TotalPoints)))
			fmt.Fprintln(out, ui.LabelValue("Tasks completed", stats.TasksCompleted))
			fmt.Fprintln(out, ui.LabelValue("Games played", stats.GamesPlayed))
			fmt.Fprintln(out, ui.LabelValue("Rating", fmt.Sprintf("%.0f (%s)", rating.Value, eng.RatingCategory())))

			grace := ui.Bad.Render("spent")
			if stats.GraceAvailable && !stats.GraceUsed {
				grace = ui.Good.Render("ready")
			}
			fmt.Fprintln(out, ui.LabelValue("Grace period", ui.IconShield+" "+grace))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("🏅 Achievements"))
			for _, a := range eng.Achievements() {
				if a.Earned {
					fmt.Fprintf(out, "- %s %s %s\n", a.Icon, a.Name, ui.Muted.Render(a.Description))
				}
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconSave+" Persistence"))
			auto := ui.Bad.Render("off")
			if status.Enabled {
				auto = ui.Good.Render("on")
			}
			fmt.Fprintln(out, ui.LabelValue("Autosave", auto))
			if !status.LastSaved.IsZero() {
				fmt.Fprintln(out, ui.LabelValue("Last saved", status.LastSaved.Format("2006-01-02 15:04:05")))
			}
			if !status.NextSave.IsZero() {
				fmt.Fprintln(out, ui.LabelValue("Next save", status.NextSave.Format("2006-01-02 15:04:05")))
			}
			return nil
		},
	}
	return cmd
}
