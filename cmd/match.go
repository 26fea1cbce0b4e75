package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loadpulse/loadpulse/api/dto"
	"github.com/loadpulse/loadpulse/app"
)

var matchInput string

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compute matches for a batch of loads and trucks from a JSON file",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchInput, "input", "i", "", "JSON file with loads and trucks")
	_ = matchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(matchCmd)
}

type matchFile struct {
	Loads  []dto.Load  `json:"loads"`
	Trucks []dto.Truck `json:"trucks"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	raw, err := os.ReadFile(matchInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var in matchFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	loads, skippedLoads := dto.ConvertLoads(in.Loads)
	vehicles, skippedTrucks := dto.ConvertTrucks(in.Trucks)
	res, ev := svc.Builder.Match(ctx, loads, vehicles)

	type matchOut struct {
		LoadID     string  `json:"loadId"`
		TruckID    string  `json:"truckId"`
		MatchScore float64 `json:"matchScore"`
		Reason     string  `json:"reason"`
	}
	matches := make([]matchOut, 0, len(res.Matches))
	for _, m := range res.Matches {
		matches = append(matches, matchOut{m.LoadID, m.VehicleID, m.Score, m.Reason})
	}

	out := map[string]any{
		"matches":   matches,
		"skipped":   append(append(skippedLoads, skippedTrucks...), res.Skipped...),
		"requestId": ev.RequestID,
		"duration":  ev.Duration.String(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
