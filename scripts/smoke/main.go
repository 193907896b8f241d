// Command smoke logs in as each demo role and walks the read endpoints,
// checking that every module answers with the status its policy predicts.
package main

import (
	"bytes"
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

type target struct {
	Role   string
	Method string
	Path   string
	Want   int
}

var targets = []target{
	{Role: "admin", Method: http.MethodGet, Path: "/dashboard", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/students", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/teachers", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/courses", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/attendance", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/fees", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/fees/summary", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/examinations", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/library/books", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/settings", Want: http.StatusOK},
	{Role: "admin", Method: http.MethodGet, Path: "/navigation", Want: http.StatusOK},
	{Role: "teacher", Method: http.MethodGet, Path: "/students", Want: http.StatusOK},
	{Role: "teacher", Method: http.MethodGet, Path: "/fees", Want: http.StatusForbidden},
	{Role: "student", Method: http.MethodGet, Path: "/fees", Want: http.StatusOK},
	{Role: "student", Method: http.MethodGet, Path: "/students", Want: http.StatusForbidden},
	{Role: "student", Method: http.MethodGet, Path: "/courses", Want: http.StatusOK},
}

func main() {
	var (
		base    string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	tokens := map[string]string{}
	for _, role := range []string{"student", "teacher", "admin"} {
		token, err := login(client, base, role)
		if err != nil {
			log.Fatalf("login as %s failed: %v", role, err)
		}
		tokens[role] = token
	}

	var failures int
	for _, t := range targets {
		status, err := perform(client, base, tokens[t.Role], t)
		switch {
		case err != nil:
			failures++
			fmt.Printf("FAIL %-7s %-6s %-20s error: %v\n", t.Role, t.Method, t.Path, err)
		case status != t.Want:
			failures++
			fmt.Printf("FAIL %-7s %-6s %-20s got %d want %d\n", t.Role, t.Method, t.Path, status, t.Want)
		default:
			fmt.Printf("ok   %-7s %-6s %-20s %d\n", t.Role, t.Method, t.Path, status)
		}
	}

	fmt.Printf("Failures: %d of %d\n", failures, len(targets))
	if failures > 0 {
		os.Exit(1)
	}
}

func login(client *http.Client, base, role string) (string, error) {
	body, _ := json.Marshal(map[string]string{"role": role})
	resp, err := client.Post(strings.TrimRight(base, "/")+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", err
	}
	if envelope.Data.Token == "" {
		return "", fmt.Errorf("no token in response")
	}
	return envelope.Data.Token, nil
}

func perform(client *http.Client, base, token string, tgt target) (int, error) {
	url := strings.TrimRight(base, "/") + tgt.Path
	req, err := http.NewRequest(tgt.Method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
