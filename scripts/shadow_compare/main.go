package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillnaav/skillnaav-api/internal/models"
	"github.com/skillnaav/skillnaav-api/internal/service"
)

type target struct {
	InternshipID string `json:"internshipId"`
	PartnerID    string `json:"partnerId"`
	Critical     bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type fetched struct {
	status    int
	timetable models.Timetable
	duration  time.Duration
}

type comparison struct {
	Target       target
	LegacyStatus int
	GoStatus     int
	StatusMatch  bool
	EntryDiffs   []string
	Error        error
	DurationGo   time.Duration
	DurationOld  time.Duration
}

func (c comparison) matches() bool {
	return c.Error == nil && c.StatusMatch && len(c.EntryDiffs) == 0
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:5000", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5001", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON file listing internship/partner pairs")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	ctx := context.Background()
	var (
		results      []comparison
		breaking     int
		optionalDiff int
	)
	for _, t := range targets {
		res := compareTarget(ctx, client, goBase, legacyBase, t)
		if !res.matches() {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		results = append(results, res)
	}

	printReport(os.Stdout, results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg targetFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(ctx context.Context, client *http.Client, goBase, legacyBase string, tgt target) comparison {
	res := comparison{Target: tgt}
	goSide, err := fetchSchedule(ctx, client, goBase, tgt)
	if err != nil {
		res.Error = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacySide, err := fetchSchedule(ctx, client, legacyBase, tgt)
	if err != nil {
		res.Error = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.GoStatus, res.LegacyStatus = goSide.status, legacySide.status
	res.DurationGo, res.DurationOld = goSide.duration, legacySide.duration
	res.StatusMatch = res.GoStatus == res.LegacyStatus
	res.EntryDiffs = diffTimetables(legacySide.timetable, goSide.timetable)
	return res
}

func fetchSchedule(ctx context.Context, client *http.Client, base string, tgt target) (*fetched, error) {
	if client == nil {
		return nil, errors.New("nil client")
	}
	q := url.Values{}
	q.Set("internshipId", tgt.InternshipID)
	q.Set("partnerId", tgt.PartnerID)
	endpoint := strings.TrimRight(base, "/") + "/api/schedule/get-schedule?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	out := &fetched{status: resp.StatusCode, duration: time.Since(start)}
	if resp.StatusCode != http.StatusOK {
		return out, nil
	}
	timetable, err := extractTimetable(body)
	if err != nil {
		return nil, err
	}
	out.timetable = timetable
	return out, nil
}

// extractTimetable accepts the enveloped {"data": {...}} form as well as a bare or
// {"schedule": {...}} wrapped document.
func extractTimetable(body []byte) (models.Timetable, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	doc := body
	for _, key := range []string{"data", "schedule"} {
		if raw, ok := root[key]; ok && len(raw) > 0 && raw[0] == '{' {
			doc = raw
			break
		}
	}
	var schedule struct {
		Timetable models.Timetable `json:"timetable"`
	}
	if err := json.Unmarshal(doc, &schedule); err != nil {
		return nil, fmt.Errorf("decode timetable: %w", err)
	}
	return schedule.Timetable, nil
}

func entryKey(e models.ScheduleEntry) string {
	sessionType := e.Type
	if sessionType == "" {
		sessionType = models.SessionOnline
	}
	return strings.Join([]string{service.NormalizeDate(e.Date), e.StartTime, e.EndTime, string(sessionType), e.EventLink}, "|")
}

// diffTimetables compares entries position by position on the fields that reach the calendar.
func diffTimetables(legacy, current models.Timetable) []string {
	var diffs []string
	if len(legacy) != len(current) {
		diffs = append(diffs, fmt.Sprintf("entry count: legacy=%d go=%d", len(legacy), len(current)))
	}
	n := len(legacy)
	if len(current) < n {
		n = len(current)
	}
	for i := 0; i < n; i++ {
		if a, b := entryKey(legacy[i]), entryKey(current[i]); a != b {
			diffs = append(diffs, fmt.Sprintf("entry %d: legacy=%s go=%s", i, a, b))
		}
	}
	return diffs
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Schedule Shadow Compare Report")
	fmt.Fprintln(w, "==============================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.matches() {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] internship=%s partner=%s\n", status, res.Target.InternshipID, res.Target.PartnerID)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationOld)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Status match: %t | Entry diffs: %d | Critical: %t\n", res.StatusMatch, len(res.EntryDiffs), res.Target.Critical)
		for _, d := range res.EntryDiffs {
			fmt.Fprintf(w, "    %s\n", d)
		}
	}
}
