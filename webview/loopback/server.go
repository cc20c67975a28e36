package loopback

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-socialconnect/core"
)

// Opener shows the authorization URL to the user.
type Opener func(authorizationURL string) error

type Option func(*Server)

func WithOpener(opener Opener) Option {
	return func(s *Server) {
		if opener != nil {
			s.opener = opener
		}
	}
}

func WithLogger(logger core.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithListenAddress overrides the host:port derived from the redirect URI.
func WithListenAddress(addr string) Option {
	return func(s *Server) {
		if strings.TrimSpace(addr) != "" {
			s.addr = strings.TrimSpace(addr)
		}
	}
}

// Server is a core.WebView backed by a local HTTP listener. Only requests to
// the redirect URI path are forwarded, and only while the view is active.
type Server struct {
	redirect *url.URL
	addr     string
	opener   Opener
	logger   core.Logger

	mu       sync.Mutex
	active   bool
	lastURL  string
	handler  func(string)
	listener net.Listener
	server   *http.Server
}

func New(redirectURI string, opts ...Option) (*Server, error) {
	parsed, err := url.Parse(strings.TrimSpace(redirectURI))
	if err != nil || parsed.Scheme != "http" || parsed.Host == "" {
		return nil, loopbackBadInput("loopback: redirect uri must be an absolute http url", map[string]any{
			"redirect_uri": redirectURI,
		})
	}
	host := parsed.Hostname()
	if host != "localhost" && net.ParseIP(host) == nil {
		return nil, loopbackBadInput("loopback: redirect uri must point at a loopback host", map[string]any{
			"host": host,
		})
	}
	if ip := net.ParseIP(host); ip != nil && !ip.IsLoopback() {
		return nil, loopbackBadInput("loopback: redirect uri must point at a loopback host", map[string]any{
			"host": host,
		})
	}
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	addr := parsed.Host
	if parsed.Port() == "" {
		addr = net.JoinHostPort(host, "80")
	}

	s := &Server{
		redirect: parsed,
		addr:     addr,
		opener:   func(string) error { return nil },
		logger:   glog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Start binds the listener and serves callbacks until ctx is done or Close is
// called.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.listener != nil {
		s.mu.Unlock()
		return loopbackInternal(nil, "loopback: server already started", nil)
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return loopbackInternal(err, "loopback: listen failed", map[string]any{"addr": s.addr})
	}
	mux := http.NewServeMux()
	mux.HandleFunc(s.redirect.Path, s.handleCallback)
	s.listener = listener
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	server := s.server
	s.mu.Unlock()

	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("loopback server stopped", "error", serveErr)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	s.logger.Debug("loopback server listening", "addr", listener.Addr().String())
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Close() error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func (s *Server) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

// SetURL hands the authorization URL to the opener. Opener failures are
// logged; the user can still paste the URL from the log.
func (s *Server) SetURL(rawURL string) {
	s.mu.Lock()
	s.lastURL = rawURL
	opener := s.opener
	s.mu.Unlock()
	if err := opener(rawURL); err != nil {
		s.logger.Warn("loopback opener failed", "error", err, "url", rawURL)
	}
}

func (s *Server) OnURLChanged(handler func(url string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

func (s *Server) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Server) LastURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastURL
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != s.redirect.Path {
		http.NotFound(w, r)
		return
	}
	// Token mode callbacks carry the token in the fragment, which the browser
	// never sends. The relay page moves it into the query.
	if r.URL.RawQuery == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = relayPage.Execute(w, nil)
		return
	}

	s.mu.Lock()
	active := s.active
	handler := s.handler
	s.mu.Unlock()
	if !active || handler == nil {
		w.WriteHeader(http.StatusGone)
		_ = donePage.Execute(w, "No sign-in is in progress.")
		return
	}

	callback := *s.redirect
	callback.RawQuery = r.URL.RawQuery
	callback.Fragment = ""
	handler(callback.String())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = donePage.Execute(w, "Sign-in received. You can close this window.")
}

var relayPage = template.Must(template.New("relay").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Signing in</title></head>
<body><script>
var fragment = window.location.hash.substring(1);
window.location.replace(window.location.pathname + "?" + (fragment || "error=missing_fragment"));
</script></body></html>
`))

var donePage = template.Must(template.New("done").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Sign-in</title></head>
<body><p>{{.}}</p></body></html>
`))

// ListenURL rewrites the redirect URI to the bound address. Useful when the
// redirect names port 0 in tests.
func (s *Server) ListenURL() (string, error) {
	addr := s.Addr()
	if addr == "" {
		return "", loopbackInternal(nil, "loopback: server not started", nil)
	}
	out := *s.redirect
	out.Host = addr
	return out.String(), nil
}

func (s *Server) String() string {
	return fmt.Sprintf("loopback(%s)", s.redirect.String())
}

var _ core.WebView = (*Server)(nil)
