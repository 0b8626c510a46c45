package oauth

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// CallbackServer is the loopback listener that receives the OAuth redirect.
// It forwards every callback URL to the handler as-is; buffering and code
// extraction belong to the controller that owns the flow state machine.
type CallbackServer struct {
	listener  net.Listener
	server    *http.Server
	closeOnce sync.Once
}

func StartCallbackServer(listenAddr string, handler func(rawURL string)) (*CallbackServer, error) {
	if handler == nil {
		return nil, errors.New("callback handler is required")
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	cb := &CallbackServer{listener: listener}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		handler(cb.RedirectURI() + "?" + r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Authentication complete. You can close this window and return to the terminal."))
	})

	cb.server = &http.Server{Handler: mux}

	go func() {
		_ = cb.server.Serve(cb.listener)
	}()

	return cb, nil
}

func (c *CallbackServer) RedirectURI() string {
	if tcpAddr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d/oauth/callback", tcpAddr.Port)
	}
	return "http://localhost/oauth/callback"
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}
