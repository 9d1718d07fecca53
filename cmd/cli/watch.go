package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	synchub "mangaparsers/internal/sync"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream crawl events from the API server",
	RunE:  runWatch,
}

var watchArgs struct {
	runID string
}

func init() {
	watchCmd.Flags().StringVar(&watchArgs.runID, "run", "", "only show events of this crawl run")
	RootCmd.AddCommand(watchCmd)
}

func wsURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/ws")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	target, err := wsURL(rootArgs.apiURL)
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	ws, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), target, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", target, err)
	}
	defer ws.Close()

	out := cmd.OutOrStdout()
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		var ev synchub.CrawlEvent
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Type == "" || ev.Type == "welcome" {
			continue
		}
		if watchArgs.runID != "" && ev.RunID != watchArgs.runID {
			continue
		}
		if rootArgs.asJSON {
			fmt.Fprint(out, string(msg))
			continue
		}
		fmt.Fprintln(out, formatEvent(ev))
	}
}

func formatEvent(ev synchub.CrawlEvent) string {
	ts := ev.At.Local().Format("15:04:05")
	switch ev.Type {
	case synchub.EventCrawlManga:
		return fmt.Sprintf("%s %s  %s (%d chapters)", ts, ev.Source, ev.Title, ev.Chapters)
	case synchub.EventCrawlFailed:
		return fmt.Sprintf("%s %s  FAILED %s: %s", ts, ev.Source, ev.Title, ev.Error)
	case synchub.EventCrawlFinished:
		return fmt.Sprintf("%s %s  finished, %d series", ts, ev.Source, ev.Total)
	default:
		return fmt.Sprintf("%s %s  %s", ts, ev.Source, ev.Type)
	}
}
