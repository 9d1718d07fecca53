package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	synchub "mangaparsers/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9100", "TCP event feed address")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	runID := flag.String("run", "", "only show events of this crawl run")
	flag.Parse()

	for {
		if err := run(*addr, *pretty, *runID); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, pretty bool, runID string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var ev synchub.CrawlEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			// not JSON? print raw
			fmt.Println(string(line))
			continue
		}
		if runID != "" && ev.RunID != runID {
			continue
		}

		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		_ = json.Unmarshal(line, &obj)
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
