// The agent is the worker-side desktop client: it clocks the worker in,
// sends heartbeats and periodic screen captures while working, and pauses
// both during breaks. Breaks are purely local, the server only ever sees
// the absence of heartbeats.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/pixelforge-digital/team-portal/backend/internal/agent"
	"github.com/pixelforge-digital/team-portal/backend/internal/config"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// client talks to the portal API reusing the login cookie for every call.
type client struct {
	base string
	http *http.Client
}

func newClient(base string) (*client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

func (c *client) post(ctx context.Context, path string, body any) (*apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	apiResp := &apiResponse{}
	if err := json.NewDecoder(resp.Body).Decode(apiResp); err != nil {
		return nil, err
	}
	if !apiResp.Success {
		return apiResp, fmt.Errorf("%s: %s", path, apiResp.Message)
	}

	return apiResp, nil
}

func (c *client) login(ctx context.Context, username, password string) error {
	_, err := c.post(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	return err
}

func (c *client) clockIn(ctx context.Context) error {
	_, err := c.post(ctx, "/clock/in", struct{}{})
	return err
}

func (c *client) clockOut(ctx context.Context) error {
	_, err := c.post(ctx, "/clock/out", struct{}{})
	return err
}

func (c *client) heartbeat(ctx context.Context) error {
	_, err := c.post(ctx, "/heartbeats", map[string]string{
		"appName": "team-portal-agent",
	})
	return err
}

func (c *client) Upload(ctx context.Context, frame []byte, capturedAt time.Time) error {
	_, err := c.post(ctx, "/screenshots", map[string]any{
		"image":      base64.StdEncoding.EncodeToString(frame),
		"capturedAt": capturedAt,
	})
	return err
}

// displaySource captures the primary display as PNG.
type displaySource struct{}

func (displaySource) Frame() ([]byte, error) {
	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (displaySource) Close() error { return nil }

func newDisplaySource() (agent.Source, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active display found")
	}
	return displaySource{}, nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	username := os.Getenv("AGENT_USERNAME")
	password := os.Getenv("AGENT_PASSWORD")
	if username == "" || password == "" {
		logger.Error("AGENT_USERNAME and AGENT_PASSWORD must be set")
		return
	}

	api, err := newClient(cfg.Agent.ServerURL)
	if err != nil {
		logger.Error("failed to create api client", "error", err)
		return
	}

	ctx := context.Background()

	if err := api.login(ctx, username, password); err != nil {
		logger.Error("login failed", "error", err)
		return
	}
	logger.Info("logged in", "server", cfg.Agent.ServerURL)

	if err := api.clockIn(ctx); err != nil {
		logger.Error("clock-in failed", "error", err)
		return
	}
	logger.Info("clocked in")

	session := agent.NewSession(
		agent.Config{
			HeartbeatInterval: time.Duration(cfg.Presence.HeartbeatInterval) * time.Second,
			CaptureInterval:   time.Duration(cfg.Capture.Interval) * time.Second,
			UploadTimeout:     time.Duration(cfg.Capture.UploadTimeout) * time.Second,
		},
		newDisplaySource,
		api,
		api.heartbeat,
		logger,
	)

	if err := session.Start(); err != nil {
		logger.Error("failed to start session", "error", err)
		return
	}

	clockOut := func() {
		session.Stop()
		if err := api.clockOut(ctx); err != nil {
			logger.Error("clock-out failed", "error", err)
			return
		}
		logger.Info("clocked out")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	commands := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			commands <- strings.TrimSpace(strings.ToLower(scanner.Text()))
		}
		close(commands)
	}()

	fmt.Println("commands: break, resume, out")
	for {
		select {
		case <-sigChan:
			clockOut()
			return
		case cmd, ok := <-commands:
			if !ok {
				clockOut()
				return
			}
			switch cmd {
			case "break":
				if !session.Active() {
					fmt.Println("already on break")
					continue
				}
				session.Stop()
				fmt.Println("on break, capture and heartbeats paused")
			case "resume":
				if session.Active() {
					fmt.Println("not on break")
					continue
				}
				if err := session.Start(); err != nil {
					logger.Error("failed to resume session", "error", err)
					continue
				}
				fmt.Println("back to work")
			case "out":
				clockOut()
				return
			case "":
			default:
				fmt.Println("unknown command, use: break, resume, out")
			}
		}
	}
}
