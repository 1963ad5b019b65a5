package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/lucaskjaero/casia/internal/archive"
	"github.com/lucaskjaero/casia/internal/fetch"
	"github.com/spf13/cobra"
)

var (
	fetchAttempts int
	fetchQuiet    bool
	fetchForce    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [dataset...]",
	Short: "Download and extract datasets into the local cache",
	Long: `Download dataset archives and extract them into the cache directory.

With no arguments, all datasets from the configuration (or the whole catalog)
are fetched. Datasets that are already extracted are skipped unless --force
is given.

The NLPR file hosting is unreliable; each archive is retried several times.
If downloads keep failing, fetch the archive manually from the catalog URL
(see "casia datasets") and place it in the cache directory as <dataset>.zip.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchAttempts, "attempts", 0, "download attempts per archive (default: from config)")
	fetchCmd.Flags().BoolVarP(&fetchQuiet, "quiet", "q", false, "suppress progress output")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "re-extract datasets that are already present")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	attempts := cfg.Download.Attempts
	if fetchAttempts > 0 {
		attempts = fetchAttempts
	}
	var progress io.Writer
	if !fetchQuiet {
		progress = cmd.ErrOrStderr()
	}
	dl := fetch.New(fetch.Config{
		Attempts: attempts,
		Timeout:  cfg.DownloadTimeout(),
		Progress: progress,
	})

	var failed []string
	for _, d := range targets {
		if store.IsPresent(d.Name) && !fetchForce {
			if !fetchQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: already present\n", d.Name)
			}
			continue
		}

		archivePath := store.ArchivePath(d.Name)
		url := cfg.MirrorURL(d.Name, d.URL)
		if !fetchQuiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: downloading %s\n", d.Name, url)
		}
		if err := dl.Download(cmd.Context(), url, archivePath); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", d.Name, err)
			failed = append(failed, d.Name)
			continue
		}

		if !fetchQuiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: extracting\n", d.Name)
		}
		if err := archive.ExtractZip(archivePath, store.Dir(d.Name)); err != nil {
			// A bad archive usually means the download page served an
			// error body. Drop it so the next run downloads again.
			os.Remove(archivePath)
			os.RemoveAll(store.Dir(d.Name))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", d.Name, err)
			failed = append(failed, d.Name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to fetch %d dataset(s): %v", len(failed), failed)
	}
	return nil
}
