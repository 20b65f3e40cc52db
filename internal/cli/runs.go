package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JulHeg/LeRobotPanorama/internal/api/util"
	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		filter := repository.RunFilter{
			ListFilter: util.ListFilter{
				Order: []util.OrderClause{
					{Field: "start_time", Direction: util.OrderDesc},
				},
				Page:    1,
				PerPage: runsLimit,
			},
		}

		runs, err := services.RunService.ListRuns(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No runs found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN ID\tSCRIPT\tSTATUS\tEXIT\tSTARTED\tENDED\tLOG FILE")
		for _, run := range runs {
			exit := "-"
			if run.ReturnCode != nil {
				exit = fmt.Sprintf("%d", *run.ReturnCode)
			}
			ended := "-"
			if run.EndTime != nil {
				ended = run.EndTime.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				run.RunID,
				run.Script,
				run.Status,
				exit,
				run.StartTime.Format("2006-01-02 15:04:05"),
				ended,
				run.LogFile,
			)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to show")
}
