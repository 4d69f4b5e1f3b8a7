// Command shadow_compare replays read-only analytics requests against this
// service and the legacy analyzer it replaces, and reports response diffs.
// Metric payloads are compared with a small float tolerance; response
// metadata (timings, cache flags) is ignored.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

const floatTolerance = 1e-6

func main() {
	var (
		goBase     string
		legacyBase string
		employeeID string
		date       string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "Legacy analyzer base URL")
	flag.StringVar(&employeeID, "employee", "", "Employee ID to query (required)")
	flag.StringVar(&date, "date", "", "Date (YYYY-MM-DD) for metrics/assessment targets")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	if employeeID == "" {
		log.Fatal("-employee is required")
	}

	targets := buildTargets(employeeID, date)
	client := &http.Client{Timeout: timeout}

	var (
		comparisons []comparison
		breaking    int
	)
	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, t)
		if comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch {
			if t.Critical {
				breaking++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)
	fmt.Printf("Breaking diffs: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func buildTargets(employeeID, date string) []target {
	prefix := "/api/v1/employees/" + employeeID
	targets := []target{
		{Method: http.MethodGet, Path: prefix + "/dates", Critical: true},
		{Method: http.MethodGet, Path: prefix + "/summary", Critical: true},
	}
	if date != "" {
		targets = append(targets,
			target{Method: http.MethodGet, Path: prefix + "/metrics?date=" + date, Critical: true},
			target{Method: http.MethodGet, Path: prefix + "/assessment?date=" + date, Critical: true},
		)
	}
	return targets
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}
	goStatus, goBody, goDur, goErr := performRequest(client, goBase, tgt)
	legacyStatus, legacyBody, legacyDur, legacyErr := performRequest(client, legacyBase, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = bodiesEqual(goBody, legacyBody)
	return comp
}

func performRequest(client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	url := strings.TrimRight(base, "/") + tgt.Path
	req, err := http.NewRequest(tgt.Method, url, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// bodiesEqual compares the data portion of both envelopes. The legacy
// analyzer returns bare payloads, so a missing envelope falls back to the
// whole document.
func bodiesEqual(a, b []byte) bool {
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	return deepEqual(extractData(aj), extractData(bj))
}

func extractData(doc interface{}) interface{} {
	if m, ok := doc.(map[string]interface{}); ok {
		if data, exists := m["data"]; exists {
			return data
		}
	}
	return doc
}

func deepEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, exists := bv[k]
			if !exists || !deepEqual(v, other) {
				return false
			}
		}
		return true
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		return math.Abs(av-bv) <= floatTolerance
	default:
		return a == b
	}
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Printf("  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Printf("  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}
