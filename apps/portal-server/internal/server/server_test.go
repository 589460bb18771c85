package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/config"
	"github.com/oyaguma3/hr-portal/apps/portal-server/internal/handler"
	"github.com/oyaguma3/hr-portal/pkg/logging"
	"github.com/oyaguma3/hr-portal/pkg/routes"
	"github.com/redis/go-redis/v9"
)

func init() {
	// テスト時はGinをテストモードに設定
	gin.SetMode(gin.TestMode)
}

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := handler.New(client, routes.Default(), nil, handler.Options{KeepAlive: time.Second})
	return NewEngine(h, OriginCookie{})
}

func TestTraceIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(TraceIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s", c.GetString(handler.TraceIDKey), logging.TraceIDFromContext(c.Request.Context()))
	})

	t.Run("header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Trace-ID", "abc")
		router.ServeHTTP(w, req)

		if w.Body.String() != "abc|abc" {
			t.Errorf("body = %q, want %q", w.Body.String(), "abc|abc")
		}
		if got := w.Header().Get("X-Trace-ID"); got != "abc" {
			t.Errorf("X-Trace-ID = %q, want %q", got, "abc")
		}
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		parts := strings.Split(w.Body.String(), "|")
		if len(parts) != 2 || parts[0] != parts[1] {
			t.Fatalf("body = %q", w.Body.String())
		}
		if err := uuid.Validate(parts[0]); err != nil {
			t.Errorf("generated trace id %q is not a UUID", parts[0])
		}
	})
}

func TestOriginMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(OriginMiddleware(OriginCookie{}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(handler.OriginKey))
	})

	tests := []struct {
		name      string
		cookie    string
		wantIssue bool
	}{
		{"no cookie", "", true},
		{"invalid cookie", "not-a-uuid", true},
		{"valid cookie", "11111111-1111-1111-1111-111111111111", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: config.OriginCookieName, Value: tt.cookie})
			}
			router.ServeHTTP(w, req)

			setCookie := w.Header().Get("Set-Cookie")
			if tt.wantIssue {
				if !strings.HasPrefix(setCookie, config.OriginCookieName+"=") {
					t.Fatalf("Set-Cookie = %q, want new origin", setCookie)
				}
				if !strings.Contains(setCookie, "HttpOnly") {
					t.Errorf("Set-Cookie = %q, want HttpOnly", setCookie)
				}
				if err := uuid.Validate(w.Body.String()); err != nil {
					t.Errorf("origin %q is not a UUID", w.Body.String())
				}
				return
			}
			if setCookie != "" {
				t.Errorf("Set-Cookie = %q, want none", setCookie)
			}
			if w.Body.String() != tt.cookie {
				t.Errorf("origin = %q, want %q", w.Body.String(), tt.cookie)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestNoRoute(t *testing.T) {
	router := setupEngine(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payroll", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusNotFound)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/problem+json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "/payroll") {
		t.Errorf("body = %s", w.Body.String())
	}
}

// ブラウザ相当のクライアントで2タブの挙動を確認する
func TestPortalFlow(t *testing.T) {
	ts := httptest.NewServer(setupEngine(t))
	defer ts.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	// 1. 初回アクセスでオリジンが発行される
	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("GET / = %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	// 2. 別タブ相当のイベント購読
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events", nil)
	stream, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET events error = %v", err)
	}
	defer stream.Body.Close()

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(stream.Body)
		for scanner.Scan() {
			if name, ok := strings.CutPrefix(scanner.Text(), "event:"); ok {
				events <- name
			}
		}
		close(events)
	}()
	waitEvent(t, events, "ready")

	// 3. ログイン
	resp, err = client.Post(ts.URL+"/api/v1/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"pw","role":"employee"}`))
	if err != nil {
		t.Fatalf("POST login error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST login status = %d", resp.StatusCode)
	}
	waitEvent(t, events, "session_changed")

	// 4. ロールに応じたガード
	assertStatus(t, client, ts.URL+"/employee", http.StatusOK)
	assertStatus(t, client, ts.URL+"/hr", http.StatusSeeOther)

	// 5. ログアウトで他タブへ通知される
	resp, err = client.Post(ts.URL+"/api/v1/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST logout error = %v", err)
	}
	resp.Body.Close()
	waitEvent(t, events, "session_changed")
	assertStatus(t, client, ts.URL+"/employee", http.StatusSeeOther)
}

func TestServer_ShutdownEndsEventStreams(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{ListenAddr: "127.0.0.1:0", GinMode: gin.TestMode}
	srv := New(cfg, handler.New(client, routes.Default(), nil, handler.Options{KeepAlive: time.Minute}))

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	stream, err := http.Get("http://" + ln.Addr().String() + "/api/v1/events")
	if err != nil {
		t.Fatalf("GET events error = %v", err)
	}
	defer stream.Body.Close()

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(stream.Body)
		for scanner.Scan() {
			if name, ok := strings.CutPrefix(scanner.Text(), "event:"); ok {
				events <- name
			}
		}
		close(events)
	}()
	waitEvent(t, events, "ready")

	// 開いたままのストリームがあってもタイムアウト前に終了する
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Serve() error = %v, want ErrServerClosed", err)
	}

	timeout := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("event stream still open after Shutdown")
		}
	}
}

func waitEvent(t *testing.T, events <-chan string, want string) {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case got, ok := <-events:
			if !ok {
				t.Fatalf("stream closed while waiting for %q", want)
			}
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func assertStatus(t *testing.T, client *http.Client, url string, want int) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	resp.Body.Close()
	if resp.StatusCode != want {
		t.Errorf("GET %s status = %d, want %d", url, resp.StatusCode, want)
	}
	if want == http.StatusSeeOther && resp.Header.Get("Location") != "/login" {
		t.Errorf("GET %s Location = %q, want /login", url, resp.Header.Get("Location"))
	}
}
