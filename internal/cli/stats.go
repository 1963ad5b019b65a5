package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/lucaskjaero/casia/internal/dataset"
	"github.com/lucaskjaero/casia/internal/gnt"
	"github.com/spf13/cobra"
)

var statsLenient bool

var statsCmd = &cobra.Command{
	Use:   "stats [dataset...]",
	Short: "Count records and distinct characters in cached datasets",
	Long: `Walk the GNT files of the given datasets and report, per file, the
number of records and the number of distinct character labels. Decoding stops
at the first structural error in a file and reports it.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsLenient, "lenient", false, "do not validate declared record sizes")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	targets, err := selectDatasets(cfg, args)
	if err != nil {
		return err
	}

	opts := gnt.DefaultOptions()
	if statsLenient {
		opts.TrustDeclaredLength = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "DATASET\tFILE\tRECORDS\tLABELS")

	var badFiles int
	for _, d := range targets {
		src, err := store.Source(d.Name)
		if err != nil {
			return err
		}
		names, err := src.Names()
		if err != nil {
			return err
		}

		totalRecords := 0
		totalLabels := make(map[string]struct{})
		for _, name := range names {
			records, labels, err := countStream(src, name, opts)
			totalRecords += records
			for label := range labels {
				totalLabels[label] = struct{}{}
			}
			if err != nil {
				badFiles++
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\terror: %v\n", d.Name, name, records, len(labels), err)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", d.Name, name, records, len(labels))
		}
		fmt.Fprintf(w, "%s\t(total)\t%d\t%d\n", d.Name, totalRecords, len(totalLabels))
	}

	if badFiles > 0 {
		return fmt.Errorf("%d file(s) failed to decode cleanly", badFiles)
	}
	return nil
}

// countStream decodes one GNT stream, keeping only counts. Partial counts
// are returned alongside the decode error, the caller decides what to do
// with them.
func countStream(src dataset.Source, name string, opts gnt.Options) (int, map[string]struct{}, error) {
	rc, err := src.Open(name)
	if err != nil {
		return 0, nil, err
	}
	defer rc.Close()

	labels := make(map[string]struct{})
	records := 0
	reader := gnt.NewReaderOptions(rc, opts)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return records, labels, nil
		}
		if err != nil {
			return records, labels, err
		}
		records++
		labels[rec.Label] = struct{}{}
	}
}
