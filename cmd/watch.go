package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"temperance/internal/cli"
	"temperance/internal/metrics"
	"temperance/internal/model"
	"temperance/internal/store"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live goal progress, refreshed on every store change",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	// The query result tracks both the gain log and the goal setting.
	type view struct {
		gains []model.Gain
		goal  *int64
	}
	q := store.NewLiveQuery(s, func() (view, error) {
		gains, err := s.GainsByCreatedAt(false)
		if err != nil {
			return view{}, err
		}
		goal, err := s.GoalAmount()
		if err != nil {
			return view{}, err
		}
		return view{gains: gains, goal: goal}, nil
	}, store.Gains, store.Settings)
	defer q.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-ticker.C:
			v, loaded := q.Result()
			if !loaded {
				continue
			}
			m := metrics.ComputeGoalMetrics(v.gains, v.goal, time.Now())
			line := fmt.Sprintf("today %s · total %s", cli.FormatYen(m.Today), cli.FormatYen(m.Cumulative))
			if m.ProgressPercent != nil {
				line += " · " + cli.RenderProgressBar(*m.ProgressPercent, 20)
			}
			fmt.Printf("\r\033[K  %s", line)
		}
	}
}
