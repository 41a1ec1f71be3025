package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// Cron helper that flips en_lectiva for fichas whose productive stage has
// started. Intended to run daily against the API.

func main() {
	var (
		base    string
		token   string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", os.Getenv("HORARIOS_API_TOKEN"), "Bearer token")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	if token == "" {
		log.Fatal("missing API token: pass -token or set HORARIOS_API_TOKEN")
	}

	url := strings.TrimRight(base, "/") + "/api/v1/fichas/refresh-states"
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("refresh request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("refresh rejected: status %d body %s", resp.StatusCode, body)
	}

	var envelope struct {
		Data struct {
			Actualizadas int64 `json:"actualizadas"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Fatalf("decode response: %v", err)
	}

	fmt.Printf("fichas updated: %d\n", envelope.Data.Actualizadas)
}
