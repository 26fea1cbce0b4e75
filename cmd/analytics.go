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
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/core/snapshot"
)

var (
	analyticsInput string
	analyticsView  string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Build an analytics or dashboard snapshot from a JSON file",
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().StringVarP(&analyticsInput, "input", "i", "", "JSON file with lane volumes, counters and optional loads/trucks")
	analyticsCmd.Flags().StringVar(&analyticsView, "view", "analytics", "view to build: analytics or dashboard")
	_ = analyticsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyticsCmd)
}

type analyticsFile struct {
	Loads         []dto.Load                `json:"loads"`
	Trucks        []dto.Truck               `json:"trucks"`
	LaneVolumes   []dto.LaneVolumes         `json:"laneVolumes"`
	WeeklyVolumes []model.WeekVolume        `json:"weeklyVolumes"`
	Forecast      []model.ForecastPair      `json:"forecast"`
	Counters      model.OperationalCounters `json:"counters"`
}

func runAnalytics(cmd *cobra.Command, args []string) error {
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

	raw, err := os.ReadFile(analyticsInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var in analyticsFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	loads, _ := dto.ConvertLoads(in.Loads)
	vehicles, _ := dto.ConvertTrucks(in.Trucks)
	req := snapshot.Request{
		Loads:         loads,
		Vehicles:      vehicles,
		LaneSeries:    dto.ConvertLanes(in.LaneVolumes),
		WeeklyVolumes: in.WeeklyVolumes,
		ForecastPairs: in.Forecast,
		Counters:      in.Counters,
	}

	var out any
	switch analyticsView {
	case "analytics":
		out = svc.Builder.Analytics(ctx, req)
	case "dashboard":
		out = svc.Builder.Dashboard(ctx, req)
	default:
		return fmt.Errorf("unknown view %q", analyticsView)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
