// Command sweep drives a running planner server through its REST API. It
// selects every origin of the session's map at every offered speed and
// checks each report the server returns against a planner evaluated locally
// from the same map, which makes it a quick end-to-end smoke test for a
// deployment.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/wricardo/fleetreach/game/engine"
	"github.com/wricardo/fleetreach/game/service"
)

// Client talks to the planner REST API on behalf of one session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends a request and decodes a successful JSON response into out
func (c *Client) do(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) CreateSession(mapID string) (*service.SessionInfo, error) {
	var req interface{}
	if mapID != "" {
		req = map[string]string{"map_id": mapID}
	}

	var session service.SessionInfo
	if err := c.do(http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return &session, nil
}

func (c *Client) GetSession() (*service.SessionInfo, error) {
	var session service.SessionInfo
	if err := c.do(http.MethodGet, c.sessionPath(""), nil, &session); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (c *Client) Reset() (*service.Report, error) {
	var resp struct {
		Message string          `json:"message"`
		Report  *service.Report `json:"report"`
	}
	if err := c.do(http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.Report, nil
}

func (c *Client) Query(update service.QueryUpdate) (*service.Report, error) {
	var report service.Report
	if err := c.do(http.MethodPost, c.sessionPath("/query"), update, &report); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &report, nil
}

func (c *Client) GetMap(mapID string) (*engine.MapConfig, error) {
	var config engine.MapConfig
	if err := c.do(http.MethodGet, "/api/maps/"+url.PathEscape(mapID), nil, &config); err != nil {
		return nil, fmt.Errorf("get map: %w", err)
	}
	return &config, nil
}

// Result tallies a sweep
type Result struct {
	Checked    int
	Mismatches []string
}

// expectedReport evaluates state against a local planner
func expectedReport(catalog *engine.Catalog, state engine.PlannerState) (int, []engine.Row, error) {
	planner, err := engine.NewPlanner(catalog)
	if err != nil {
		return 0, nil, err
	}
	if err := planner.SetState(state); err != nil {
		return 0, nil, err
	}
	rows, err := planner.Table()
	if err != nil {
		return 0, nil, err
	}
	return planner.Answer().ReachableCount(), rows, nil
}

// sweep queries every origin at every speed with the given energy
func sweep(client *Client, catalog *engine.Catalog, speeds []uint32, energy uint32, delay time.Duration, verbose bool) (*Result, error) {
	result := &Result{}
	mode := engine.ModePlanet

	for _, speed := range speeds {
		for src := 0; src < catalog.Count(); src++ {
			update := service.QueryUpdate{Speed: &speed, Mode: &mode, Source: &src, Energy: &energy}
			report, err := client.Query(update)
			if err != nil {
				return result, err
			}
			result.Checked++

			count, rows, err := expectedReport(catalog, report.State)
			if err != nil {
				return result, err
			}
			if report.ReachableCount != count || !slices.Equal(report.Rows, rows) {
				result.Mismatches = append(result.Mismatches, fmt.Sprintf(
					"speed=%d source=%d (%s): server reachable=%d rows=%d, local reachable=%d rows=%d",
					speed, src, catalog.Name(src), report.ReachableCount, len(report.Rows), count, len(rows)))
			}

			if verbose {
				log.Printf("speed=%d source=%d (%s) reachable=%d", speed, src, catalog.Name(src), report.ReachableCount)
			}
			if delay > 0 {
				time.Sleep(delay)
			}
		}
	}

	return result, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Planner server URL")
	mapID := flag.String("map", "", "Map for a new session (default: server default)")
	continueSession := flag.String("continue", "", "Sweep an existing session by ID")
	energy := flag.Uint("energy", uint(engine.DefaultEnergy), "Energy for every query")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between queries in milliseconds (0 = no delay)")
	flag.Parse()

	if *energy > uint(engine.MaxEnergy) {
		log.Fatalf("Energy must be at most %d", engine.MaxEnergy)
	}

	log.Printf("Connecting to planner server at %s", *serverURL)
	client := NewClient(*serverURL)

	var session *service.SessionInfo
	var err error
	if *continueSession != "" {
		client.sessionID = *continueSession
		session, err = client.GetSession()
		if err != nil {
			log.Fatalf("Failed to resume session: %v", err)
		}
		log.Printf("🔄 Resuming session: %s", client.sessionID)
	} else {
		session, err = client.CreateSession(*mapID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)
	}

	mapConfig, err := client.GetMap(session.MapID)
	if err != nil {
		log.Fatalf("Failed to load map %s: %v", session.MapID, err)
	}
	catalog, err := mapConfig.Catalog()
	if err != nil {
		log.Fatalf("Map %s is invalid: %v", session.MapID, err)
	}
	log.Printf("Map: %s, Locations: %d", session.MapID, catalog.Count())

	result, err := sweep(client, catalog, engine.Speeds, uint32(*energy), time.Duration(*delayMs)*time.Millisecond, *verbose)
	if err != nil {
		log.Fatalf("Sweep failed after %d queries: %v", result.Checked, err)
	}

	if _, err := client.Reset(); err != nil {
		log.Printf("Warning: Failed to reset session: %v", err)
	}

	for _, m := range result.Mismatches {
		log.Printf("❌ %s", m)
	}
	log.Printf("Checked %d queries, %d mismatches", result.Checked, len(result.Mismatches))
	log.Printf("Session: %s", client.sessionID)
	if len(result.Mismatches) > 0 {
		os.Exit(1)
	}
}
