package cmd

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// fetch command flags.
var (
	// fetchURL is the Cricsheet archive to download.
	fetchURL string
	// fetchDir is where extracted match JSON files land.
	fetchDir string
	// fetchCount caps how many match files to extract (0 = all).
	fetchCount int
	// fetchIngest runs ingestion on the extracted files afterwards.
	fetchIngest bool
)

const defaultFetchURL = "https://cricsheet.org/downloads/t20s_male_json.zip"

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a Cricsheet match archive and extract its JSON files",
	Long: `Downloads a Cricsheet zip archive of ball-by-ball match JSON and
extracts the match files into a local directory, ready for ingestion.

Examples:
  cricmetrics fetch --count 50
  cricmetrics fetch --url https://cricsheet.org/downloads/ipl_json.zip --ingest`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", defaultFetchURL, "archive URL to download")
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "extraction directory (default: ~/.cricmetrics/matches)")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 0, "max match files to extract (0 = all)")
	fetchCmd.Flags().BoolVar(&fetchIngest, "ingest", false, "ingest the extracted files afterwards")
}

func runFetch(cmd *cobra.Command, args []string) error {
	dir := fetchDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".cricmetrics", "matches")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	fmt.Fprintf(os.Stdout, "Downloading %s...\n", fetchURL)
	archivePath, err := downloadArchive(fetchURL)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}
	defer os.Remove(archivePath)

	extracted, err := extractMatches(archivePath, dir, fetchCount)
	if err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Extracted %d match files to %s\n", extracted, dir)

	if fetchIngest {
		return runIngest(cmd, []string{dir})
	}
	fmt.Fprintf(os.Stdout, "Run 'cricmetrics ingest %s' to store them.\n", dir)
	return nil
}

// downloadArchive downloads the archive to a temp file and returns its path.
func downloadArchive(url string) (string, error) {
	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	f, err := os.CreateTemp("", "cricmetrics-*.zip")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write: %w", err)
	}
	return f.Name(), nil
}

// extractMatches extracts up to count .json entries from the zip into dir.
// Non-JSON entries (the archive README) are skipped.
func extractMatches(archivePath, dir string, count int) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	extracted := 0
	for _, zf := range zr.File {
		if count > 0 && extracted >= count {
			break
		}
		name := filepath.Base(zf.Name)
		if !strings.HasSuffix(name, ".json") || zf.FileInfo().IsDir() {
			continue
		}

		src, err := zf.Open()
		if err != nil {
			return extracted, fmt.Errorf("open %s: %w", zf.Name, err)
		}
		dst, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			src.Close()
			return extracted, fmt.Errorf("create %s: %w", name, err)
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return extracted, fmt.Errorf("write %s: %w", name, err)
		}
		extracted++
	}
	return extracted, nil
}
