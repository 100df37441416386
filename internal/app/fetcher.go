package app

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/radiation-belts/rbamlib/internal/archive"
	"github.com/radiation-belts/rbamlib/internal/database"
	"github.com/radiation-belts/rbamlib/internal/log"
	"github.com/radiation-belts/rbamlib/internal/omniweb"
	"github.com/radiation-belts/rbamlib/pkg/config"
	"github.com/radiation-belts/rbamlib/pkg/storms"
)

// Fetcher periodically pulls recent index data from OMNIWeb into the local
// archive and, when a database is configured, mirrors the observations and
// the detected storm catalog there.
type Fetcher struct {
	cfg     *config.Config
	client  *omniweb.Client
	archive *archive.Archive
	db      *database.Client
}

func NewFetcher(cfg *config.Config, arc *archive.Archive, db *database.Client) *Fetcher {
	client := omniweb.NewClient()
	if cfg.Fetch.BaseURLOverride != "" {
		client = omniweb.NewClientWithURL(cfg.Fetch.BaseURLOverride)
	}
	return &Fetcher{
		cfg:     cfg,
		client:  client,
		archive: arc,
		db:      db,
	}
}

// Start launches the fetch loop. One fetch runs immediately, then one per
// configured interval until the context is cancelled.
func (f *Fetcher) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		f.fetchOnce(ctx)
		ticker := time.NewTicker(f.cfg.Fetch.Interval.Value())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f.fetchOnce(ctx)
			}
		}
	}()
}

func (f *Fetcher) fetchOnce(ctx context.Context) {
	end := time.Now().UTC().Truncate(time.Hour)
	start := end.AddDate(0, 0, -f.cfg.Fetch.LookbackDays)

	result, err := f.client.Fetch(ctx, start, end, f.cfg.Fetch.Parameters)
	if err != nil {
		log.Errorf("fetch failed: %v", err)
		return
	}

	for _, name := range result.Names {
		s, err := result.Series(name)
		if err != nil {
			log.Errorf("extracting %s: %v", name, err)
			continue
		}
		if err := f.archive.Store(ctx, name, s); err != nil {
			log.Errorf("archiving %s: %v", name, err)
		}
	}
	log.Infof("archived %d rows for %d parameters", len(result.Times), len(result.Names))

	if f.db != nil {
		f.mirror(result)
	}
}

// mirror pushes the fetched observations and the storms detected in the Dst
// column to PostgreSQL.
func (f *Fetcher) mirror(result *omniweb.Result) {
	var obs []database.IndexObservation
	for ci, name := range result.Names {
		for i, t := range result.Times {
			o := database.IndexObservation{Parameter: name, ObservedAt: t}
			if v := result.Columns[ci][i]; !math.IsNaN(v) {
				val := v
				o.Value = &val
			}
			obs = append(obs, o)
		}
	}
	if err := f.db.StoreObservations(obs); err != nil {
		log.Errorf("mirroring observations: %v", err)
	}

	dst, err := result.Series("Dst")
	if err != nil {
		return
	}
	params := storms.Params{
		Threshold: f.cfg.Storms.Threshold,
		Gap:       f.cfg.Storms.Gap.Value(),
	}
	regions, err := storms.Detect(dst.Times, dst.Values, params)
	if err != nil {
		log.Errorf("detecting storms: %v", err)
		return
	}

	events := make([]database.StormEvent, 0, len(regions))
	for _, r := range regions {
		events = append(events, database.StormEvent{
			OnsetAt:     dst.Times[r.Onset],
			MinimumAt:   dst.Times[r.Minimum],
			MinimumDst:  dst.Values[r.Minimum],
			Threshold:   params.Threshold,
			SampleCount: len(r.Indices),
		})
	}
	if err := f.db.StoreStormEvents(events); err != nil {
		log.Errorf("mirroring storm events: %v", err)
	}
}
