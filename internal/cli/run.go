package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
)

var (
	runConfig domain.RunConfiguration
	runWait   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch robot runs",
	Long:  "Launch a panorama capture or debug movement run from the command line",
}

var runPanoramaCmd = &cobra.Command{
	Use:   "panorama",
	Short: "Launch a panorama capture run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchRun(cmd, domain.ScriptPanorama)
	},
}

var runDebugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Launch a debug movement run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchRun(cmd, domain.ScriptDebug)
	},
}

func launchRun(cmd *cobra.Command, script domain.Script) error {
	services, err := initServices(cmd.Context())
	if err != nil {
		return err
	}
	defer services.Close()

	run, done, err := services.RunService.StartRun(cmd.Context(), script, runConfig)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	fmt.Printf("Run started\n")
	fmt.Printf("Run ID: %s\n", run.RunID)
	if run.PID != nil {
		fmt.Printf("PID: %d\n", *run.PID)
	}
	fmt.Printf("Log file: %s\n", run.LogFile)

	if runWait {
		finished := <-done
		fmt.Printf("Run finished with status %s", finished.Status)
		if finished.ReturnCode != nil {
			fmt.Printf(" (exit code %d)", *finished.ReturnCode)
		}
		fmt.Println()
		if finished.Status != domain.RunStatusSuccess {
			return fmt.Errorf("run %s failed", finished.RunID)
		}
	}

	return nil
}

func addRobotFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runConfig.RobotType, "robot-type", "", "Robot type (default from config)")
	cmd.Flags().StringVar(&runConfig.RobotPort, "robot-port", "", "Robot serial port (default from config)")
	cmd.Flags().StringVar(&runConfig.RobotID, "robot-id", "", "Robot identifier (default from config)")
	cmd.Flags().StringVar(&runConfig.StepFolder, "step-folder", "", "Folder with recorded step positions (default from config)")
	cmd.Flags().IntVar(&runConfig.FPS, "fps", 0, "Control loop frames per second (default from config)")
	cmd.Flags().BoolVar(&runWait, "wait", false, "Wait for the run to finish and report its exit code")
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(runPanoramaCmd)
	runCmd.AddCommand(runDebugCmd)

	addRobotFlags(runPanoramaCmd)
	runPanoramaCmd.Flags().StringVar(&runConfig.PhotoFolder, "photo-folder", "", "Folder to write captured photos to (default from config)")
	runPanoramaCmd.Flags().Float64Var(&runConfig.SecondsPerStep, "seconds-per-step", 0, "Seconds to dwell at each step (default from config)")

	addRobotFlags(runDebugCmd)
	runDebugCmd.Flags().IntVar(&runConfig.NumSteps, "num-steps", 0, "Number of movement steps (default from config)")
	runDebugCmd.Flags().Float64Var(&runConfig.InterpSeconds, "interp-seconds", 0, "Interpolation time between steps (default from config)")
}
