package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lucaskjaero/casia/internal/dataset"
	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the known CASIA datasets",
	Long: `List the datasets in the catalog along with their local cache status.

A dataset shows as "present" once it has been downloaded and extracted into
the cache directory. Use "casia fetch" to retrieve missing datasets.`,
	RunE: runDatasets,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "DATASET\tKIND\tSTATUS\tDESCRIPTION")
	for _, d := range dataset.Catalog() {
		status := "missing"
		if store.IsPresent(d.Name) {
			status = "present"
		} else if _, err := os.Stat(store.ArchivePath(d.Name)); err == nil {
			status = "downloaded"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Kind, status, d.Description)
	}
	return nil
}
