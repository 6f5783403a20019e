package main

import (
	"os"

	"github.com/aretw0/careerpath/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Plan interactively, refining the roadmap turn by turn",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current-role")
		target, _ := cmd.Flags().GetString("target-role")
		sessionID, _ := cmd.Flags().GetString("session")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunChat(ctx, app, cli.ChatOptions{
			SessionID:   sessionID,
			CurrentRole: current,
			TargetRole:  target,
			In:          os.Stdin,
			Out:         cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("current-role", "", "Role you hold today")
	chatCmd.Flags().String("target-role", "", "Role you want to reach")
	chatCmd.Flags().StringP("session", "s", "", "Session ID to continue (a new one is created if empty)")
}
