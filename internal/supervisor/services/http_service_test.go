// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

// serveAsync starts svc and waits until it has bound a socket.
func serveAsync(t *testing.T, svc *HTTPServerService, ctx context.Context) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not bind")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return errCh
}

func waitErr(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return")
		return nil
	}
}

func TestNewHTTPServerService_Defaults(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		if svc := NewHTTPServerService(&http.Server{}, ":0", timeout); svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout %v: expected default 10s, got %v", timeout, svc.shutdownTimeout)
		}
	}
	svc := NewHTTPServerService(&http.Server{}, ":0", time.Second)
	if svc.String() != "http-server" {
		t.Errorf("unexpected name %q", svc.String())
	}
	if svc.Addr() != "" {
		t.Errorf("Addr before Serve = %q, want empty", svc.Addr())
	}
}

func TestHTTPServerService_ServesAndDrains(t *testing.T) {
	t.Parallel()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(server, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(t, svc, ctx)

	resp, err := http.Get("http://" + svc.Addr() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	cancel()
	if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if svc.Addr() != "" {
		t.Errorf("Addr after stop = %q, want empty", svc.Addr())
	}
}

func TestHTTPServerService_PortInUse(t *testing.T) {
	t.Parallel()

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	svc := NewHTTPServerService(&http.Server{ReadHeaderTimeout: time.Second}, taken.Addr().String(), time.Second)
	err = svc.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "listen on") {
		t.Errorf("expected a listen error, got %v", err)
	}
}

func TestHTTPServerService_ClosedElsewhereIsNotRestarted(t *testing.T) {
	t.Parallel()

	server := &http.Server{ReadHeaderTimeout: time.Second}
	svc := NewHTTPServerService(server, "127.0.0.1:0", time.Second)

	errCh := serveAsync(t, svc, context.Background())
	if err := server.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := waitErr(t, errCh); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("expected ErrDoNotRestart, got %v", err)
	}
}

// stuckServer never finishes draining before the deadline.
type stuckServer struct {
	release chan struct{}
}

func (s *stuckServer) Serve(ln net.Listener) error {
	<-s.release
	ln.Close()
	return http.ErrServerClosed
}

func (s *stuckServer) Shutdown(ctx context.Context) error {
	<-ctx.Done()
	close(s.release)
	return ctx.Err()
}

func TestHTTPServerService_ShutdownTimeout(t *testing.T) {
	t.Parallel()

	svc := NewHTTPServerService(&stuckServer{release: make(chan struct{})}, "127.0.0.1:0", 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(t, svc, ctx)
	cancel()

	if err := waitErr(t, errCh); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected shutdown deadline error, got %v", err)
	}
}
