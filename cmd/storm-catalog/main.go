// storm-catalog summarizes the storm events rbamd has catalogued in
// PostgreSQL: counts, intensity statistics and a per-storm listing, with
// optional CSV export.
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	_ "github.com/lib/pq"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StormRow is one catalogued storm event.
type StormRow struct {
	OnsetAt     time.Time
	MinimumAt   time.Time
	MinimumDst  float64
	Threshold   float64
	SampleCount int
}

// CatalogStats summarizes the intensity distribution of a set of storms.
type CatalogStats struct {
	Count          int
	MeanMinimum    float64
	StdDevMinimum  float64
	DeepestMinimum float64
	MedianMinimum  float64
	MeanMainPhase  time.Duration
}

func main() {
	var (
		dbHost = flag.String("db-host", "localhost", "Database host")
		dbPort = flag.Int("db-port", 5432, "Database port")
		dbUser = flag.String("db-user", "postgres", "Database user")
		dbPass = flag.String("db-pass", "", "Database password")
		dbName = flag.String("db-name", "rbam", "Database name")
		since  = flag.String("since", "", "Only storms with onset at or after this date (e.g. 2005-01-01)")
		until  = flag.String("until", "", "Only storms with onset before this date")
		csvOut = flag.String("csv", "", "Optional CSV output file path")
	)
	flag.Parse()

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Error pinging database: %v\n", err)
		os.Exit(1)
	}

	rows, err := queryStorms(db, *since, *until)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying storms: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("No storms catalogued in the selected range.")
		return
	}

	stats := summarize(rows)

	fmt.Printf("Storm Catalog Summary\n")
	fmt.Printf("=====================\n\n")
	fmt.Printf("Storms:            %d\n", stats.Count)
	fmt.Printf("Mean minimum Dst:  %.1f nT\n", stats.MeanMinimum)
	fmt.Printf("Std deviation:     %.1f nT\n", stats.StdDevMinimum)
	fmt.Printf("Median minimum:    %.1f nT\n", stats.MedianMinimum)
	fmt.Printf("Deepest minimum:   %.1f nT\n", stats.DeepestMinimum)
	fmt.Printf("Mean main phase:   %s\n\n", stats.MeanMainPhase.Round(time.Minute))

	fmt.Printf("%-22s %-22s %10s %8s\n", "ONSET", "MINIMUM", "DST (nT)", "SAMPLES")
	for _, r := range rows {
		fmt.Printf("%-22s %-22s %10.1f %8d\n",
			r.OnsetAt.Format("2006-01-02 15:04"),
			r.MinimumAt.Format("2006-01-02 15:04"),
			r.MinimumDst, r.SampleCount)
	}

	if *csvOut != "" {
		if err := writeCSV(*csvOut, rows); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %d storms to %s\n", len(rows), *csvOut)
	}
}

func queryStorms(db *sql.DB, since, until string) ([]StormRow, error) {
	query := `
		SELECT onset_at, minimum_at, minimum_dst, threshold, sample_count
		FROM storm_events
		WHERE ($1 = '' OR onset_at >= $1::timestamptz)
		  AND ($2 = '' OR onset_at < $2::timestamptz)
		ORDER BY onset_at
	`
	rows, err := db.Query(query, since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StormRow
	for rows.Next() {
		var r StormRow
		if err := rows.Scan(&r.OnsetAt, &r.MinimumAt, &r.MinimumDst, &r.Threshold, &r.SampleCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func summarize(rows []StormRow) CatalogStats {
	minima := make([]float64, len(rows))
	var mainPhase time.Duration
	for i, r := range rows {
		minima[i] = r.MinimumDst
		mainPhase += r.MinimumAt.Sub(r.OnsetAt)
	}

	sorted := append([]float64(nil), minima...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(minima, nil)
	return CatalogStats{
		Count:          len(rows),
		MeanMinimum:    mean,
		StdDevMinimum:  std,
		DeepestMinimum: floats.Min(minima),
		MedianMinimum:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		MeanMainPhase:  mainPhase / time.Duration(len(rows)),
	}
}

func writeCSV(path string, rows []StormRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"onset_at", "minimum_at", "minimum_dst", "threshold", "sample_count"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.OnsetAt.Format(time.RFC3339),
			r.MinimumAt.Format(time.RFC3339),
			fmt.Sprintf("%.1f", r.MinimumDst),
			fmt.Sprintf("%.1f", r.Threshold),
			fmt.Sprintf("%d", r.SampleCount),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
