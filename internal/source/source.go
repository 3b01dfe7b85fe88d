// Package source implements the match record source: discovery and
// decoding of Cricsheet-style match JSON files. Plain .json files are
// read directly; .json.gz and .json.zst are decompressed on the fly.
package source

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

// ErrNotFound is returned when no file exists for a match id.
var ErrNotFound = errors.New("match not found")

// ErrMalformedRecord is returned when a match file cannot be decoded or
// lacks the required info/innings sections. Callers skip the file and
// continue the batch.
var ErrMalformedRecord = errors.New("malformed match record")

// suffixes a match file may carry, in lookup order.
var suffixes = []string{".json", ".json.gz", ".json.zst"}

// DirSource reads match records from a directory of JSON files.
type DirSource struct {
	dir string
}

// NewDirSource returns a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// ListMatches returns the ids of all match files in the directory,
// sorted. The id is the file name without its .json[.gz|.zst] suffix.
func (s *DirSource) ListMatches() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, suf := range suffixes {
			if strings.HasSuffix(name, suf) {
				id := strings.TrimSuffix(name, suf)
				if _, ok := seen[id]; !ok {
					seen[id] = struct{}{}
					ids = append(ids, id)
				}
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ReadMatch reads and decodes one match by id.
func (s *DirSource) ReadMatch(id string) (*model.Match, error) {
	for _, suf := range suffixes {
		path := filepath.Join(s.dir, id+suf)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		r, err := readerFor(f, suf)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, id, err)
		}
		return DecodeMatch(r, id)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// readerFor wraps f in the decompressor the suffix calls for.
func readerFor(f *os.File, suffix string) (io.Reader, error) {
	switch suffix {
	case ".json.gz":
		return gzip.NewReader(f)
	case ".json.zst":
		return zstd.NewReader(f)
	default:
		return f, nil
	}
}

// matchFile is the wire shape of a match JSON file.
type matchFile struct {
	Info    *infoSection    `json:"info"`
	Innings []model.Innings `json:"innings"`
}

// infoSection covers the metadata fields the pipeline consumes. Absent
// nested fields decode to zero values and flow through as defined
// defaults, never as errors.
type infoSection struct {
	Dates []string `json:"dates"`
	Event struct {
		Name        string `json:"name"`
		MatchNumber int    `json:"match_number"`
	} `json:"event"`
	Teams []string `json:"teams"`
	Venue string   `json:"venue"`
	City  string   `json:"city"`
	Toss  struct {
		Winner   string `json:"winner"`
		Decision string `json:"decision"`
	} `json:"toss"`
	Outcome struct {
		Winner string         `json:"winner"`
		Result string         `json:"result"`
		By     map[string]int `json:"by"`
	} `json:"outcome"`
	PlayerOfMatch []string `json:"player_of_match"`
}

// DecodeMatch decodes one match record from r. A record missing its
// info or innings sections is malformed.
func DecodeMatch(r io.Reader, id string) (*model.Match, error) {
	var mf matchFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, id, err)
	}
	if mf.Info == nil || mf.Innings == nil {
		return nil, fmt.Errorf("%w: %s: missing info or innings section", ErrMalformedRecord, id)
	}

	info := model.MatchInfo{
		EventName:    mf.Info.Event.Name,
		MatchNumber:  mf.Info.Event.MatchNumber,
		Teams:        mf.Info.Teams,
		Venue:        mf.Info.Venue,
		City:         mf.Info.City,
		TossWinner:   mf.Info.Toss.Winner,
		TossDecision: mf.Info.Toss.Decision,
		ResultWinner: mf.Info.Outcome.Winner,
		ResultBy:     formatResultBy(mf.Info.Outcome.By, mf.Info.Outcome.Result),
	}
	if len(mf.Info.Dates) > 0 {
		info.Date = mf.Info.Dates[0]
	}
	if len(mf.Info.PlayerOfMatch) > 0 {
		info.PlayerOfMatch = strings.Join(mf.Info.PlayerOfMatch, ", ")
	}

	return &model.Match{
		ID:      id,
		Info:    info,
		Innings: mf.Innings,
	}, nil
}

// formatResultBy renders outcome.by ({"runs": 20} or {"wickets": 5})
// as a margin string; a bare result ("tie", "no result") passes through.
func formatResultBy(by map[string]int, result string) string {
	if n, ok := by["runs"]; ok {
		return fmt.Sprintf("%d runs", n)
	}
	if n, ok := by["wickets"]; ok {
		return fmt.Sprintf("%d wickets", n)
	}
	return result
}
