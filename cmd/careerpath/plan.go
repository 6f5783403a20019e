package main

import (
	"strings"

	"github.com/aretw0/careerpath/internal/cli"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <message>",
	Short: "Generate a career transition plan",
	Long: `Runs the agent pipeline once for the given message and prints the roadmap.
With --session the turn is recorded and later calls refine the stored plan.`,
	Example: `  careerpath plan "I want to become a data scientist" --current-role "Accountant" --target-role "Data Scientist"
  careerpath plan "Make the timeline shorter" --session my-plan`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current-role")
		target, _ := cmd.Flags().GetString("target-role")
		sessionID, _ := cmd.Flags().GetString("session")
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunPlan(ctx, app, cli.PlanOptions{
			Message:     strings.Join(args, " "),
			CurrentRole: current,
			TargetRole:  target,
			SessionID:   sessionID,
			JSON:        asJSON,
			Out:         cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("current-role", "", "Role you hold today")
	planCmd.Flags().String("target-role", "", "Role you want to reach")
	planCmd.Flags().StringP("session", "s", "", "Session ID to continue (created if missing)")
	planCmd.Flags().Bool("json", false, "Print the structured result as JSON")
}
