// Command cofounder is the Cofounder CLI client.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cofounder-os/cofounder/internal/version"
)

const defaultServer = "http://localhost:8000"

var titler = cases.Title(language.English)

func main() {
	var (
		serverURL = flag.String("server", defaultServer, "cofounder server URL")
		token     = flag.String("token", os.Getenv("COFOUNDER_TOKEN"), "JWT auth token")
		email     = flag.String("email", os.Getenv("COFOUNDER_EMAIL"), "your email, used for claiming and chat")
	)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cli := &Client{
		BaseURL:    strings.TrimRight(*serverURL, "/"),
		Token:      *token,
		Email:      *email,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}

	cmd := args[0]
	rest := args[1:]

	var err error
	switch cmd {
	case "version":
		err = cmdVersion(rest)
	case "status":
		err = cli.cmdStatus(rest)
	case "login":
		err = cli.cmdLogin(rest)
	case "tasks":
		err = cli.cmdTasks(rest)
	case "task":
		err = cli.cmdTask(rest)
	case "next":
		err = cli.cmdNext(rest)
	case "chat":
		err = cli.cmdChat(rest)
	case "messages":
		err = cli.cmdMessages(rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `cofounder — Cofounder CLI

Usage:
  cofounder [flags] <command> [args]

Flags:
  --server <url>    server URL (default: http://localhost:8000)
  --token  <token>  JWT auth token (or $COFOUNDER_TOKEN)
  --email  <email>  your email (or $COFOUNDER_EMAIL)

Commands:
  version                  print version
  status                   show server status
  login <user> <pass>      obtain an auth token
  tasks [status]           list tasks ranked by score
  task create <title>      create a task
  task status <id> <st>    set a task's status
  next                     recommend (and claim, with --email) the next task
  chat <text>              message the assistant
  messages [topic]         show the conversation
`)
}

// --- version ---

func cmdVersion(_ []string) error {
	fmt.Printf("cofounder %s (commit %s, built %s)\n",
		version.Version, version.Commit, version.BuildDate)
	return nil
}

// Client holds HTTP client state for CLI commands.
type Client struct {
	BaseURL    string
	Token      string
	Email      string
	HTTPClient *http.Client
}

// get performs a GET and decodes JSON into v.
func (c *Client) get(path string, v any) error {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// post performs a POST and decodes JSON response into v (may be nil).
func (c *Client) post(path string, body io.Reader, v any) error {
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if v != nil && resp.ContentLength != 0 {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

// --- status ---

func (c *Client) cmdStatus(_ []string) error {
	var result map[string]string
	if err := c.get("/api/status", &result); err != nil {
		return err
	}
	fmt.Printf("status:  %s\n", result["status"])
	fmt.Printf("version: %s\n", result["version"])
	return nil
}

// --- login ---

func (c *Client) cmdLogin(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: cofounder login <user> <pass>")
	}
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, args[0], args[1])
	var result map[string]string
	if err := c.post("/api/auth/login", strings.NewReader(body), &result); err != nil {
		return err
	}
	fmt.Println(result["token"])
	return nil
}

// --- tasks ---

func (c *Client) cmdTasks(args []string) error {
	path := "/api/tasks"
	if len(args) > 0 {
		path += "?status=" + url.QueryEscape(args[0])
	}
	var result struct {
		Items []map[string]any `json:"items"`
	}
	if err := c.get(path, &result); err != nil {
		return err
	}
	if len(result.Items) == 0 {
		fmt.Println("no tasks")
		return nil
	}
	fmt.Printf("%-36s %-30s %-6s %-12s %-10s\n", "ID", "TITLE", "SCORE", "STATUS", "DOMAIN")
	fmt.Println(strings.Repeat("-", 98))
	for _, t := range result.Items {
		fmt.Printf("%-36s %-30s %-6s %-12s %-10s\n",
			strVal(t["id"]),
			truncate(strVal(t["title"]), 29),
			strVal(t["score"]),
			label(strVal(t["status"])),
			label(strVal(t["domain"])),
		)
	}
	return nil
}

// --- task subcommands ---

func (c *Client) cmdTask(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cofounder task <create|status> ...")
	}
	sub := args[0]
	switch sub {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: cofounder task create <title>")
		}
		title := strings.Join(args[1:], " ")
		body := fmt.Sprintf(`{"title":%q}`, title)
		var result map[string]any
		if err := c.post("/api/tasks", strings.NewReader(body), &result); err != nil {
			return err
		}
		fmt.Printf("created task %s\n", strVal(result["id"]))
	case "status":
		if len(args) < 3 {
			return fmt.Errorf("usage: cofounder task status <id> <status>")
		}
		body := fmt.Sprintf(`{"status":%q}`, args[2])
		if err := c.post("/api/tasks/"+args[1]+"/status", strings.NewReader(body), nil); err != nil {
			return err
		}
		fmt.Printf("task %s is now %s\n", args[1], label(args[2]))
	default:
		return fmt.Errorf("unknown task subcommand: %s", sub)
	}
	return nil
}

// --- next ---

func (c *Client) cmdNext(_ []string) error {
	path := "/api/tasks/next"
	if c.Email != "" {
		path += "?user_email=" + url.QueryEscape(c.Email)
	}
	var result struct {
		Task    map[string]any `json:"task"`
		Message string         `json:"message"`
	}
	if err := c.get(path, &result); err != nil {
		return err
	}
	if result.Task == nil {
		fmt.Println(result.Message)
		return nil
	}
	fmt.Printf("next: %s (score %s)\n", strVal(result.Task["title"]), strVal(result.Task["score"]))
	fmt.Printf("  id:     %s\n", strVal(result.Task["id"]))
	fmt.Printf("  status: %s\n", label(strVal(result.Task["status"])))
	if a := strVal(result.Task["assignee"]); a != "" {
		fmt.Printf("  owner:  %s\n", a)
	}
	return nil
}

// --- chat ---

func (c *Client) cmdChat(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cofounder chat <text>")
	}
	text := strings.Join(args, " ")
	body := fmt.Sprintf(`{"sender":"user","text":%q,"user_email":%q}`, text, c.Email)
	if err := c.post("/api/messages", strings.NewReader(body), nil); err != nil {
		return err
	}
	// Show the thread tail so the assistant reply is visible immediately.
	return c.cmdMessages(nil)
}

func (c *Client) cmdMessages(args []string) error {
	q := url.Values{}
	if c.Email != "" {
		q.Set("user_email", c.Email)
	}
	if len(args) > 0 {
		q.Set("topic", args[0])
	}
	path := "/api/messages"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var result struct {
		Items []map[string]any `json:"items"`
	}
	if err := c.get(path, &result); err != nil {
		return err
	}
	for _, m := range result.Items {
		fmt.Printf("[%s] %s\n", strVal(m["sender"]), strVal(m["text"]))
	}
	return nil
}

// --- helpers ---

// label renders an enum value like "in_progress" as "In Progress".
func label(s string) string {
	return titler.String(strings.ReplaceAll(s, "_", " "))
}

func strVal(v any) string {
	if v == nil {
		return ""
	}
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int(n))
	default:
		return fmt.Sprint(v)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
