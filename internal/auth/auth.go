package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/hibiki-app/hibiki/internal/log"
	"github.com/hibiki-app/hibiki/internal/spotify"
)

// authTimeout bounds how long we wait for the user to finish in the browser
const authTimeout = 5 * time.Minute

// Result represents the outcome of an authentication attempt
type Result struct {
	Token *spotify.Token
	Error error
}

// Flow manages one run of the authorization code flow with Spotify.  It owns the
// local HTTP server that catches the redirect back from the accounts service and
// hands the resulting code to the token exchange.
type Flow struct {
	Auth       *spotify.Auth
	exchanger  *spotify.Exchanger
	callbackCh chan *spotify.Callback
	httpServer *http.Server
}

// NewFlow creates a flow for the given authorize request
func NewFlow(a *spotify.Auth) *Flow {
	return &Flow{
		Auth:       a,
		exchanger:  spotify.NewExchanger(),
		callbackCh: make(chan *spotify.Callback, 1),
	}
}

// StartCallbackServer starts the HTTP server listening for the redirect from Spotify.
// It binds to the host and port of the configured redirect URI, so that URI must point
// at an address this process can listen on.
func (f *Flow) StartCallbackServer() error {
	log.Info("Starting auth callback server", "addr", f.Auth.RedirectURI.Host)

	callbackPath := f.Auth.RedirectURI.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, f.handleCallback)

	// Create the listener early so we can report an error if we can't secure the port
	listener, err := net.Listen("tcp", f.Auth.RedirectURI.Host)
	if err != nil {
		log.Error("Could not listen on redirect URI address", "addr", f.Auth.RedirectURI.Host, "error", err)
		return err
	}

	f.httpServer = &http.Server{
		Handler: mux,
	}

	go func() {
		if err := f.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Callback server error", "error", err)
		}
	}()

	return nil
}

// DoAuth performs the entire authorization flow and returns the result
func (f *Flow) DoAuth() Result {
	authURL, err := f.Auth.AuthorizeURL()
	if err != nil {
		return Result{Error: err}
	}

	if err := f.StartCallbackServer(); err != nil {
		return Result{Error: err}
	}

	// Open the browser with the authorize URL
	if err := OpenBrowser(authURL); err != nil {
		log.Warn("Failed to open browser automatically", "error", err)
		// Note: We continue the flow even if browser opening fails,
		// as the user can manually navigate to the URL
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	token, err := f.WaitForToken(ctx)
	if err != nil {
		return Result{Error: err}
	}

	return Result{Token: token}
}

// WaitForToken waits for the redirect to arrive, then completes the flow by verifying
// the callback state and exchanging the code for a token.
func (f *Flow) WaitForToken(ctx context.Context) (*spotify.Token, error) {
	log.Debug("Waiting for callback from Spotify")
	// Ensure the callback server is stopped after we finish waiting
	defer f.StopCallbackServer()

	select {
	case <-ctx.Done():
		log.Debug("WaitForToken exiting because context is done")
		return nil, ctx.Err()
	case cb, ok := <-f.callbackCh:
		if !ok || cb == nil {
			log.Warn("Callback channel closed without a callback")
			return nil, errors.New("failed to receive callback")
		}
		return f.Complete(ctx, cb)
	}
}

// Complete verifies the callback and exchanges its code for a token.  The state check
// is unconditional: a mismatch aborts the flow with spotify.ErrStateMismatch.
func (f *Flow) Complete(ctx context.Context, cb *spotify.Callback) (*spotify.Token, error) {
	if cb.Failed() {
		log.Warn("Authorization was not granted", "error", cb.ErrorCode)
		return nil, fmt.Errorf("authorization failed: %s", cb.ErrorCode)
	}

	if err := cb.VerifyState(f.Auth.State); err != nil {
		log.Error("Callback state verification failed.  Discarding callback", "error", err)
		return nil, err
	}

	return f.exchanger.Exchange(ctx, cb, f.Auth.ClientID, f.Auth.ClientSecret, f.Auth.RedirectURI)
}

// CompleteRaw parses a manually supplied callback URL and completes the flow with it.
// This path exists for setups where the redirect cannot reach the local server, for
// example when authorizing from another machine.
func (f *Flow) CompleteRaw(ctx context.Context, rawURL string) (*spotify.Token, error) {
	cb, err := spotify.ParseCallback(rawURL)
	if err != nil {
		return nil, err
	}
	return f.Complete(ctx, cb)
}

// StopCallbackServer stops the HTTP server
func (f *Flow) StopCallbackServer() {
	if f.httpServer == nil {
		log.Warn("Call to StopCallbackServer when server was not started")
		return
	}
	log.Debug("Stopping callback server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.httpServer.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	log.Debug("Callback server shutdown successfully")
}

// handleCallback parses the redirect request and hands it to the waiting flow
func (f *Flow) handleCallback(w http.ResponseWriter, r *http.Request) {
	log.Debug("Received callback request")

	raw := f.Auth.RedirectURI.String() + "?" + r.URL.RawQuery
	cb, err := spotify.ParseCallback(raw)
	if err != nil {
		log.Error("Invalid callback received", "error", err)
		http.Error(w, "Invalid callback", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if cb.Failed() {
		fmt.Fprint(w, deniedPage)
	} else {
		fmt.Fprint(w, successPage)
	}

	// Buffered channel, and only the first callback matters
	select {
	case f.callbackCh <- cb:
	default:
		log.Warn("Discarding extra callback request")
	}
}

const successPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Hibiki Auth</title></head>
<body>
<h1>Authentication successful!</h1>
<p>You can close this window and return to Hibiki.</p>
</body>
</html>`

const deniedPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Hibiki Auth</title></head>
<body>
<h1>Authorization was not granted</h1>
<p>You can close this window.  Hibiki will not be able to access your Spotify account.</p>
</body>
</html>`

// OpenBrowser opens the specified URL in the default browser
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin": // macOS
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default: // Linux and others
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
