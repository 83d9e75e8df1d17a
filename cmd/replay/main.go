// Package main replays a recorded GPX track, or a simulated walk, through the
// exploration pipeline against the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/fogtrail/internal/adapters/raster"
	"github.com/samirrijal/fogtrail/internal/adapters/track"
	"github.com/samirrijal/fogtrail/internal/bootstrap"
	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
	"github.com/samirrijal/fogtrail/internal/pkg/config"
	"github.com/samirrijal/fogtrail/internal/pkg/logging"
	"github.com/samirrijal/fogtrail/internal/workflows"
)

func main() {
	var (
		gpxPath  string
		simulate bool
		start    domain.GeoPoint
		steps    int
		stepDeg  float64
		pngPath  string
		zoom     float64
		temporal bool
	)

	flag.StringVar(&gpxPath, "gpx", "", "GPX file to replay")
	flag.BoolVar(&simulate, "simulate", false, "replay a simulated walk heading north")
	flag.Float64Var(&start.Lat, "lat", 43.2630, "simulated walk start latitude")
	flag.Float64Var(&start.Lon, "lon", -2.9350, "simulated walk start longitude")
	flag.IntVar(&steps, "steps", track.DefaultWalkSteps, "simulated walk steps")
	flag.Float64Var(&stepDeg, "step-deg", track.DefaultWalkStepDegs, "simulated walk step in degrees of latitude")
	flag.StringVar(&pngPath, "png", "", "write the fog around the last reveal to this PNG file")
	flag.Float64Var(&zoom, "zoom", 16, "zoom level for -png")
	flag.BoolVar(&temporal, "temporal", false, "run the replay as a Temporal workflow")
	flag.Parse()

	if (gpxPath == "") == !simulate {
		fmt.Fprintln(os.Stderr, "Error: pass exactly one of -gpx or -simulate")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load("fogtrail-replay")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, "text")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var points []domain.GeoPoint
	name := "simulated-walk"
	if simulate {
		points = track.SimulatedWalk(start, steps, stepDeg)
	} else {
		points, err = track.ParseGPXFile(gpxPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		name = strings.TrimSuffix(filepath.Base(gpxPath), filepath.Ext(gpxPath))
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	svc := bootstrap.NewExploration(ctx, cfg, store, nil)

	var result workflows.TrackImportResult
	if temporal {
		result, err = replayWorkflow(ctx, cfg, svc, workflows.TrackImportInput{Name: name, Points: points})
	} else {
		result, err = replayInline(ctx, svc, name, points)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Replayed %d samples from %s\n", len(points), name)
	fmt.Printf("  accepted %d, rejected %d, invalid %d, unpersisted %d\n",
		result.Accepted, result.Rejected, result.Invalid, result.Unpersisted)
	fmt.Printf("  revealed %.1f m²\n", result.AreaSquareMeters)
	for _, lu := range result.LevelUps {
		fmt.Printf("  level up: %d %s\n", lu.Level, lu.Title)
	}
	fmt.Printf("  now level %d %s (%.1f%%)\n", result.Progress.Level, result.Progress.Title, result.Progress.Percent)

	if pngPath != "" {
		if err := writePNG(ctx, svc, pngPath, zoom); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  fog written to %s\n", pngPath)
	}
}

func replayInline(ctx context.Context, svc *usecases.ExplorationService, name string, points []domain.GeoPoint) (workflows.TrackImportResult, error) {
	acts := &workflows.ImportActivities{Exploration: svc}
	batch, err := acts.ObserveBatch(ctx, points)
	if err != nil {
		return workflows.TrackImportResult{}, err
	}
	res := workflows.TrackImportResult{
		TrackID:          name,
		Accepted:         batch.Accepted,
		Rejected:         batch.Rejected,
		Invalid:          batch.Invalid,
		Unpersisted:      batch.Unpersisted,
		AreaSquareMeters: batch.AreaSquareMeters,
		LevelUps:         batch.LevelUps,
		Progress:         svc.Progression().Progress(),
	}
	return res, acts.ReportImport(ctx, res)
}

// replayWorkflow runs an in-process worker so the workflow observes into svc.
func replayWorkflow(ctx context.Context, cfg *config.Config, svc *usecases.ExplorationService, input workflows.TrackImportInput) (workflows.TrackImportResult, error) {
	var res workflows.TrackImportResult

	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return res, fmt.Errorf("temporal client: %w", err)
	}
	defer tc.Close()

	w := workflows.NewWorker(tc, cfg.Temporal.TaskQueue, svc)
	if err := w.Start(); err != nil {
		return res, fmt.Errorf("temporal worker: %w", err)
	}
	defer w.Stop()

	id, err := workflows.NewStarter(tc, cfg.Temporal.TaskQueue).StartImport(ctx, input)
	if err != nil {
		return res, err
	}
	fmt.Printf("Started workflow %s\n", id)

	if err := tc.GetWorkflow(ctx, id, "").Get(ctx, &res); err != nil {
		return res, fmt.Errorf("workflow %s: %w", id, err)
	}
	return res, nil
}

func writePNG(ctx context.Context, svc *usecases.ExplorationService, path string, zoom float64) error {
	last, ok := svc.Reveals().Last()
	if !ok {
		return fmt.Errorf("no reveals to draw")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	vp := domain.Viewport{Center: last.Point, Zoom: zoom, PixelWidth: 512, PixelHeight: 512}
	return svc.Draw(ctx, vp, raster.NewPNGDrawer(f, raster.DefaultFog))
}
