package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Defaults(t *testing.T) {
	s := New(http.NotFoundHandler(), Options{Port: 9090, Logger: discardLogger()})

	if s.Addr() != ":9090" {
		t.Errorf("expected addr :9090, got %s", s.Addr())
	}
	if s.httpServer.ReadTimeout != DefaultReadTimeout {
		t.Errorf("expected default read timeout, got %v", s.httpServer.ReadTimeout)
	}
	if s.httpServer.ReadHeaderTimeout != DefaultReadHeaderTimeout {
		t.Errorf("expected default read header timeout, got %v", s.httpServer.ReadHeaderTimeout)
	}
	if s.shutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout, got %v", s.shutdownTimeout)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	s := New(handler, Options{ShutdownTimeout: time.Second, Logger: discardLogger()})

	var order []string
	s.OnShutdown("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	s.OnShutdown("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("expected body ok, got %q", body)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if strings.Join(order, ",") != "second,first" {
		t.Errorf("expected LIFO shutdown order, got %v", order)
	}
}

func TestServer_ShutdownErrorsAreJoined(t *testing.T) {
	s := New(http.NotFoundHandler(), Options{ShutdownTimeout: time.Second, Logger: discardLogger()})

	errRedis := errors.New("redis close failed")
	s.OnShutdown("redis", func(ctx context.Context) error { return errRedis })
	s.OnShutdown("noop", func(ctx context.Context) error { return nil })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Serve(ctx, ln)
	if !errors.Is(err, errRedis) {
		t.Fatalf("expected wrapped redis error, got %v", err)
	}
	if !strings.Contains(err.Error(), "redis:") {
		t.Errorf("expected component name in error, got %v", err)
	}
}
