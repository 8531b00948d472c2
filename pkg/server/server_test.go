package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"qqr-hq/qqr/pkg/config"
	"qqr-hq/qqr/pkg/netcore"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Telemetry.Logging.Level = "error"
	return cfg
}

// startServer runs a server until the test ends and returns it with the
// function that initiates shutdown and reports Run's result.
func startServer(t *testing.T, cfg *config.Config) (*Server, func() error) {
	t.Helper()

	s, err := New(cfg, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for s.Addr() == "" {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("server did not bind in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var stopOnce sync.Once
	var stopErr error
	stop := func() error {
		stopOnce.Do(func() {
			cancel()
			select {
			case stopErr = <-runErr:
			case <-time.After(10 * time.Second):
				t.Fatal("Run did not return after cancellation")
			}
		})
		return stopErr
	}
	t.Cleanup(func() { stop() })
	return s, stop
}

func roundTrip(t *testing.T, addr, raw string) *http.Response {
	t.Helper()
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { nc.Close() })
	nc.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := nc.Write([]byte(raw)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	resp, err := http.ReadResponse(bufio.NewReader(nc), nil)
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_ServesIndexPage(t *testing.T) {
	s, _ := startServer(t, testConfig())

	resp := roundTrip(t, s.Addr(), "GET / HTTP/1.1\r\nHost: qqr\r\nConnection: close\r\n\r\n")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	if !strings.Contains(string(body), "<form") {
		t.Error("index page does not contain the input form")
	}
}

func TestServer_RendersQRCode(t *testing.T) {
	s, _ := startServer(t, testConfig())

	body := "input=hello"
	raw := "POST / HTTP/1.1\r\nHost: qqr\r\n" +
		"Content-Type: application/x-www-form-urlencoded\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n" +
		"Connection: close\r\n\r\n" + body
	resp := roundTrip(t, s.Addr(), raw)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	png, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("response body is not a PNG image")
	}
}

func TestServer_PathIsEncoded(t *testing.T) {
	s, _ := startServer(t, testConfig())

	resp := roundTrip(t, s.Addr(), "GET /some-text HTTP/1.1\r\nHost: qqr\r\nConnection: close\r\n\r\n")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
}

func TestServer_CleanShutdown(t *testing.T) {
	_, stop := startServer(t, testConfig())

	if err := stop(); err != nil {
		t.Errorf("Run returned %v, want nil on a clean shutdown", err)
	}
}

func TestServer_BindConflict(t *testing.T) {
	s, _ := startServer(t, testConfig())

	cfg := testConfig()
	cfg.Server.ListenAddress = s.Addr()
	other, err := New(cfg, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = other.Run(context.Background())
	var be *netcore.BindError
	if !errors.As(err, &be) {
		t.Errorf("Run error = %v, want a *netcore.BindError", err)
	}
}
