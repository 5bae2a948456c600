package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pinboard"
)

const replayFrame = time.Second / 60

func newReplayCmd(a *app) *cobra.Command {
	var (
		maxFrames int
		admin     bool
		yes       bool
	)
	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Run a gesture script against the board without a window",
		Long: `Replay feeds a YAML or JSON script of pointer and key actions
through a headless session one frame at a time, then saves the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading script: %w", err)
			}
			runner, err := pinboard.LoadScript(data)
			if err != nil {
				return err
			}

			s, done, err := a.openSession(cmd.Context(), a.windowBoard(), pinboard.Options{
				Confirm: func(pinboard.Item) bool { return yes },
			})
			if err != nil {
				return err
			}
			defer done()

			s.SetAdmin(admin)
			s.SetScriptRunner(runner)
			frames := 0
			for !runner.Done() {
				if frames >= maxFrames {
					return fmt.Errorf("script did not finish within %d frames", maxFrames)
				}
				s.Update(replayFrame)
				frames++
			}
			// Let the overlay and any timers settle.
			for range int(pinboard.ModalDuration/replayFrame) + 2 {
				s.Update(replayFrame)
			}
			a.log.WithField("frames", frames).Info("replay finished")
			if err := runner.Err(); err != nil {
				return err
			}
			if !s.Save(cmd.Context()) {
				return fmt.Errorf("saving board failed")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxFrames, "max-frames", 10000, "abort after this many frames")
	cmd.Flags().BoolVar(&admin, "admin", true, "start in admin mode")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletions")
	return cmd
}
