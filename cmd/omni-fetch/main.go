// omni-fetch is a one-shot retrieval tool: it pulls hourly OMNI data for a
// date range and either prints it as CSV or stores it into a local archive
// database.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/radiation-belts/rbamlib/internal/archive"
	"github.com/radiation-belts/rbamlib/internal/log"
	"github.com/radiation-belts/rbamlib/internal/omniweb"
	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

func main() {
	startArg := flag.String("start", "", "Start of the range (e.g. 2005-01-01 or 2005-01-01T06:00:00Z)")
	endArg := flag.String("end", "", "End of the range, exclusive (defaults to now)")
	paramsArg := flag.String("params", "Kp,Dst,AE", "Comma-separated parameter names (see -list)")
	archivePath := flag.String("archive", "", "Store into this archive database instead of printing CSV")
	list := flag.Bool("list", false, "List supported parameter names and exit")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if *list {
		for _, name := range omniweb.KnownParams() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *startArg == "" {
		fmt.Fprintln(os.Stderr, "omni-fetch: -start is required")
		flag.Usage()
		os.Exit(1)
	}
	start, err := timeseries.ParseTimestamp(*startArg)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	end := time.Now().UTC()
	if *endArg != "" {
		end, err = timeseries.ParseTimestamp(*endArg)
		if err != nil {
			log.Fatalf("invalid -end: %v", err)
		}
	}

	names := strings.Split(*paramsArg, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := omniweb.NewClient().Fetch(ctx, start, end, names)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}

	if *archivePath != "" {
		store(ctx, *archivePath, result)
		return
	}
	printCSV(result)
}

func store(ctx context.Context, path string, result *omniweb.Result) {
	arc, err := archive.Open(path)
	if err != nil {
		log.Fatalf("opening archive: %v", err)
	}
	defer arc.Close()

	for _, name := range result.Names {
		s, err := result.Series(name)
		if err != nil {
			log.Fatalf("extracting %s: %v", name, err)
		}
		if err := arc.Store(ctx, name, s); err != nil {
			log.Fatalf("storing %s: %v", name, err)
		}
	}
	log.Infof("stored %d rows for %d parameters in %s", len(result.Times), len(result.Names), path)
}

func printCSV(result *omniweb.Result) {
	fmt.Printf("time,%s\n", strings.Join(result.Names, ","))
	for i, t := range result.Times {
		fields := make([]string, 0, len(result.Columns)+1)
		fields = append(fields, t.Format(time.RFC3339))
		for _, col := range result.Columns {
			if math.IsNaN(col[i]) {
				fields = append(fields, "")
			} else {
				fields = append(fields, fmt.Sprintf("%g", col[i]))
			}
		}
		fmt.Println(strings.Join(fields, ","))
	}
}
