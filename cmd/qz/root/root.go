package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quizline/internal/ui"
)

const Version = "0.1.0"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "qz",
	Short:         "Quizline — trivia progression & rewards engine",
	Long:          "Quizline tracks daily trivia tasks, streaks, rewards and skill rating, persisted locally.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to quizline.yaml")

	rootCmd.AddCommand(
		newStatusCmd(),
		newTasksCmd(),
		newPlayCmd(),
		newSessionCmd(),
		newSaveCmd(),
		newAutosaveCmd(),
		newClearCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
