package core

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-querystring/query"
)

const (
	credentialFieldAccessToken = "access_token"
	grantTypeAuthorizationCode = "authorization_code"
)

type authorizeQuery struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	ResponseType string `url:"response_type"`
	Scope        string `url:"scope"`
}

type tokenExchangeForm struct {
	ClientID     string `url:"client_id"`
	ClientSecret string `url:"client_secret"`
	GrantType    string `url:"grant_type"`
	RedirectURI  string `url:"redirect_uri"`
	Code         string `url:"code"`
	Scope        string `url:"scope"`
}

// Authenticate starts the redirect login and reports whether it was accepted.
// It is rejected without side effects when the client is busy, already
// authenticated or not logged out.
func (c *Client) Authenticate(ctx context.Context) bool {
	return c.StartAuthentication(ctx) == nil
}

// StartAuthentication is Authenticate with the rejection reason. ctx scopes the
// whole authorization session, including the token exchange.
func (c *Client) StartAuthentication(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	if err := c.authenticatePreconditionLocked(); err != nil {
		c.mu.Unlock()
		c.rejected(ctx, "authenticate", err)
		return err
	}

	c.state, _ = Transition(c.state, EventBegin)
	authURL, err := c.authorizationURLLocked()
	if err != nil {
		c.state, _ = Transition(c.state, EventFailed)
		c.mu.Unlock()
		c.logError(ctx, "authenticate failed", map[string]any{"error": err.Error()})
		return err
	}
	mode := c.config.Mode()
	c.session = &authorizationSession{
		ctx:       ctx,
		mode:      mode,
		url:       authURL,
		startedAt: time.Now(),
	}
	c.state, _ = Transition(c.state, EventURLReady)
	c.busy = true
	c.transmitting = false
	c.mu.Unlock()

	c.webView.SetActive(true)
	c.webView.SetURL(authURL)
	c.logDebug(ctx, "authorization started", map[string]any{
		"provider":           c.provider.Name(),
		"authorization_mode": string(mode),
	})
	return nil
}

// AuthorizationURL builds the provider login URL for the current
// configuration without starting a session.
func (c *Client) AuthorizationURL() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authorizationURLLocked()
}

func (c *Client) authenticatePreconditionLocked() error {
	metadata := map[string]any{
		"state":         c.state.String(),
		"busy":          c.busy,
		"authenticated": c.authenticated,
	}
	switch {
	case c.closed:
		return preconditionError("core: client is closed", goerrors.CategoryConflict, metadata)
	case c.authenticated:
		return preconditionError("core: client is already authenticated", goerrors.CategoryConflict, metadata)
	case c.busy || c.dispatcher.busy():
		return preconditionError("core: client is busy", goerrors.CategoryConflict, metadata)
	case c.state != StateNotLogged:
		return preconditionError("core: authentication requires the not logged state", goerrors.CategoryConflict, metadata)
	case strings.TrimSpace(c.config.ClientID) == "":
		return badInputError("core: client_id is required to authenticate", metadata)
	case strings.TrimSpace(c.config.RedirectURI) == "":
		return badInputError("core: redirect_uri is required to authenticate", metadata)
	}
	return nil
}

func (c *Client) authorizationURLLocked() (string, error) {
	values, err := query.Values(authorizeQuery{
		ClientID:     c.config.ClientID,
		RedirectURI:  c.config.RedirectURI,
		ResponseType: c.config.Mode().ResponseType(),
		Scope:        c.config.ResolvedScope(c.provider.DefaultScope()),
	})
	if err != nil {
		return "", err
	}
	return appendQuery(c.provider.AuthorizeURL(), values), nil
}

// NotifyURLChanged reports a web view navigation. The URL is inspected on the
// client loop; navigations outside an authorization session or not under the
// redirect URI are ignored.
func (c *Client) NotifyURLChanged(rawURL string) {
	c.loop.Post(func() { c.handleNavigation(rawURL) })
}

func (c *Client) handleNavigation(rawURL string) {
	c.mu.Lock()
	session := c.session
	if session == nil || !c.busy || c.state != StateAuthorizing {
		c.mu.Unlock()
		return
	}
	redirect := strings.TrimSpace(c.config.RedirectURI)
	if redirect == "" || !strings.HasPrefix(rawURL, redirect) {
		c.mu.Unlock()
		return
	}

	switch session.mode {
	case AuthorizationModeToken:
		token := extractAccessToken(rawURL)
		if token == "" {
			c.failAuthorizationLocked()
			c.mu.Unlock()
			c.webView.SetActive(false)
			c.observeOperation(session.ctx, session.startedAt, "authenticate", authorizationDeniedError(rawURL), nil)
			return
		}
		c.state, _ = Transition(c.state, EventTokenReceived)
		c.completeAuthorizationLocked(token, nil)
		c.mu.Unlock()
		c.webView.SetActive(false)
		c.observeOperation(session.ctx, session.startedAt, "authenticate", nil, map[string]any{"authorization_mode": "token"})
	default:
		code := extractAuthorizationCode(rawURL)
		if code == "" {
			c.failAuthorizationLocked()
			c.mu.Unlock()
			c.webView.SetActive(false)
			c.observeOperation(session.ctx, session.startedAt, "authenticate", authorizationDeniedError(rawURL), nil)
			return
		}
		c.setRequestTokenLocked(code)
		c.state, _ = Transition(c.state, EventCodeReceived)
		c.transmitting = true
		req, err := c.tokenExchangeRequestLocked(code)
		if err == nil {
			err = c.dispatcher.dispatch(session.ctx, req, func(result TransportResult) {
				c.completeTokenExchange(session, result)
			})
		}
		if err != nil {
			c.failAuthorizationLocked()
		}
		c.mu.Unlock()
		c.webView.SetActive(false)
		if err != nil {
			c.observeOperation(session.ctx, session.startedAt, "authenticate", err, nil)
		}
	}
}

func (c *Client) tokenExchangeRequestLocked(code string) (Request, error) {
	values, err := query.Values(tokenExchangeForm{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		GrantType:    grantTypeAuthorizationCode,
		RedirectURI:  c.config.RedirectURI,
		Code:         code,
		Scope:        c.config.ResolvedScope(c.provider.DefaultScope()),
	})
	if err != nil {
		return Request{}, err
	}
	return Request{
		Endpoint: Endpoint{
			Name:         OperationAuthorization,
			Method:       http.MethodPost,
			URLTemplate:  c.provider.TokenURL(),
			Mapper:       OperationAuthorization,
			Notification: NotificationAuthorization,
		},
		URL:    c.provider.TokenURL(),
		Method: http.MethodPost,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": formContentType,
		},
		Body: []byte(values.Encode()),
	}, nil
}

func (c *Client) completeTokenExchange(session *authorizationSession, result TransportResult) {
	c.mu.Lock()
	if c.session != session || c.state != StateAcquiringAccessToken {
		c.mu.Unlock()
		return
	}
	c.transmitting = false

	if apiErr := c.responseError(result); apiErr != nil {
		c.emitLocked(errorEvent(OperationAuthorization, apiErr))
		c.failAuthorizationLocked()
		c.mu.Unlock()
		c.observeOperation(session.ctx, session.startedAt, "authenticate", apiErr, map[string]any{"status_code": result.StatusCode})
		return
	}

	records, err := c.mapper.Map(OperationAuthorization, result.Body)
	if err != nil {
		apiErr := malformedAPIError(result, err)
		c.emitLocked(errorEvent(OperationAuthorization, apiErr))
		c.failAuthorizationLocked()
		c.mu.Unlock()
		c.observeOperation(session.ctx, session.startedAt, "authenticate", apiErr, nil)
		return
	}
	token := ""
	if len(records) > 0 {
		token = strings.TrimSpace(records[0].Get(PropertyAccessToken))
	}
	if token == "" {
		c.failAuthorizationLocked()
		c.mu.Unlock()
		c.observeOperation(session.ctx, session.startedAt, "authenticate", authorizationDeniedError(c.provider.TokenURL()), nil)
		return
	}

	c.state, _ = Transition(c.state, EventTokenReceived)
	c.completeAuthorizationLocked(token, records)
	c.mu.Unlock()
	c.observeOperation(session.ctx, session.startedAt, "authenticate", nil, map[string]any{"authorization_mode": "code"})
}

// completeAuthorizationLocked finishes a successful session. records is the
// mapped token exchange response, nil in token mode.
func (c *Client) completeAuthorizationLocked(token string, records []Record) {
	c.setAccessTokenLocked(token)
	c.authenticated = true
	c.busy = false
	c.transmitting = false
	c.session = nil
	if records != nil {
		c.emitLocked(Event{
			Kind:         EventOperationCompleted,
			Operation:    OperationAuthorization,
			Notification: NotificationAuthorization,
			Success:      true,
			Records:      records,
		})
	}
	c.emitLocked(Event{Kind: EventAuthenticateCompleted, Success: true})
}

func (c *Client) failAuthorizationLocked() {
	c.state, _ = Transition(c.state, EventFailed)
	c.busy = false
	c.transmitting = false
	c.session = nil
	c.setRequestTokenLocked("")
	c.emitLocked(Event{Kind: EventAuthenticateCompleted, Success: false})
}

// Cancel aborts the outstanding request and clears the busy flags. Inside an
// authorization session it also drops the session, hides the web view and
// reports a failed authentication.
func (c *Client) Cancel() bool {
	c.mu.Lock()
	aborted := c.dispatcher.abort()
	inSession := c.session != nil || c.state.InSession()
	wasBusy := c.busy || c.transmitting
	c.busy = false
	c.transmitting = false
	c.activeCall = 0
	var session *authorizationSession
	if inSession {
		session = c.session
		c.state, _ = Transition(c.state, EventCancelled)
		c.session = nil
		c.setRequestTokenLocked("")
		c.emitLocked(Event{Kind: EventAuthenticateCompleted, Success: false})
	}
	state := c.state
	c.mu.Unlock()

	if inSession {
		c.webView.SetActive(false)
	}
	if aborted || inSession || wasBusy {
		ctx := context.Background()
		if session != nil {
			ctx = session.ctx
		}
		c.logInfo(ctx, "operation cancelled", map[string]any{
			"aborted_request": aborted,
			"in_session":      inSession,
			"state":           state.String(),
		})
	}
	return aborted || inSession || wasBusy
}

// Deauthenticate forgets the in-memory credential and returns to the logged
// out state. It always succeeds; the completion event is delivered after the
// call returns.
func (c *Client) Deauthenticate() bool {
	c.mu.Lock()
	c.dispatcher.abort()
	hadSession := c.session != nil
	c.session = nil
	c.busy = false
	c.transmitting = false
	c.activeCall = 0
	c.setAccessTokenLocked("")
	c.setRequestTokenLocked("")
	c.state, _ = Transition(c.state, EventDeauthenticated)
	c.authenticated = false
	c.emitLocked(Event{Kind: EventDeauthenticateCompleted, Success: true})
	c.mu.Unlock()

	if hadSession {
		c.webView.SetActive(false)
	}
	c.logInfo(context.Background(), "deauthenticated", map[string]any{"provider": c.provider.Name()})
	return true
}

// StoreCredentials saves the current access token under the client id.
func (c *Client) StoreCredentials(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	scope := strings.TrimSpace(c.config.ClientID)
	token := c.credential.AccessToken
	c.mu.Unlock()
	if scope == "" {
		err := badInputError("core: client_id is required to store credentials", nil)
		c.rejected(ctx, "store_credentials", err)
		return err
	}
	if err := c.credentials.Set(ctx, scope, credentialFieldAccessToken, token); err != nil {
		return credentialStoreError(err, "core: store credentials", map[string]any{"scope_key": scope})
	}
	return nil
}

// RestoreCredentials loads a stored access token and, when one is found,
// moves straight to the logged state.
//
// Restored tokens are trusted: they are not validated against the provider,
// so a revoked or expired token surfaces only on the first resource call.
func (c *Client) RestoreCredentials(ctx context.Context) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	if err := c.restorePreconditionLocked(); err != nil {
		c.mu.Unlock()
		c.rejected(ctx, "restore_credentials", err)
		return false, err
	}
	scope := strings.TrimSpace(c.config.ClientID)
	c.mu.Unlock()
	if scope == "" {
		err := badInputError("core: client_id is required to restore credentials", nil)
		c.rejected(ctx, "restore_credentials", err)
		return false, err
	}

	token, err := c.credentials.Get(ctx, scope, credentialFieldAccessToken)
	if err != nil {
		return false, credentialStoreError(err, "core: restore credentials", map[string]any{"scope_key": scope})
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.restorePreconditionLocked(); err != nil {
		c.rejected(ctx, "restore_credentials", err)
		return false, err
	}
	next, ok := Transition(c.state, EventRestored)
	if !ok {
		err := preconditionError("core: credentials cannot be restored in the current state", goerrors.CategoryConflict, map[string]any{"state": c.state.String()})
		c.rejected(ctx, "restore_credentials", err)
		return false, err
	}
	c.state = next
	c.setAccessTokenLocked(token)
	c.authenticated = true
	return true, nil
}

func (c *Client) restorePreconditionLocked() error {
	if c.closed {
		return preconditionError("core: client is closed", goerrors.CategoryConflict, map[string]any{
			"state": c.state.String(),
		})
	}
	if c.busy || c.session != nil || c.state.InSession() || c.dispatcher.busy() {
		return preconditionError("core: credentials cannot be restored while an operation is outstanding", goerrors.CategoryConflict, map[string]any{
			"state": c.state.String(),
			"busy":  c.busy,
		})
	}
	return nil
}

// RemoveCredentials deletes the stored access token. The in-memory credential
// is left untouched.
func (c *Client) RemoveCredentials(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	scope := strings.TrimSpace(c.config.ClientID)
	c.mu.Unlock()
	if scope == "" {
		err := badInputError("core: client_id is required to remove credentials", nil)
		c.rejected(ctx, "remove_credentials", err)
		return err
	}
	if err := c.credentials.Remove(ctx, scope, credentialFieldAccessToken); err != nil {
		return credentialStoreError(err, "core: remove credentials", map[string]any{"scope_key": scope})
	}
	return nil
}

func (c *Client) setAccessTokenLocked(token string) {
	if c.credential.AccessToken == token {
		return
	}
	c.credential.AccessToken = token
	c.emitLocked(propertyEvent(PropertyAccessToken, token))
}

func (c *Client) setRequestTokenLocked(token string) {
	if c.credential.RequestToken == token {
		return
	}
	c.credential.RequestToken = token
	c.emitLocked(propertyEvent(PropertyRequestToken, token))
}

func errorEvent(operation string, apiErr *APIError) Event {
	return Event{Kind: EventError, Operation: operation, Err: apiErr}
}

func authorizationDeniedError(callback string) error {
	return goerrors.New("core: authorization callback carried no usable credential", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorAuthorizationDenied).
		WithMetadata(map[string]any{"callback": redactCallback(callback)})
}

// extractAccessToken reads access_token from the fragment or query of a token
// mode callback. Callbacks that do not name the parameter fall back to the
// value after the first '=' up to the next '&'.
func extractAccessToken(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil {
		if fragment, err := url.ParseQuery(parsed.Fragment); err == nil {
			if fragment.Get("error") != "" {
				return ""
			}
			if token := strings.TrimSpace(fragment.Get("access_token")); token != "" {
				return token
			}
		}
		values := parsed.Query()
		if values.Get("error") != "" {
			return ""
		}
		if token := strings.TrimSpace(values.Get("access_token")); token != "" {
			return token
		}
	}
	_, after, found := strings.Cut(rawURL, "=")
	if !found {
		return ""
	}
	token, _, _ := strings.Cut(after, "&")
	return strings.TrimSpace(token)
}

// extractAuthorizationCode reads the code query parameter. A callback that
// reports an error yields no code.
func extractAuthorizationCode(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	values := parsed.Query()
	if values.Get("error") != "" {
		return ""
	}
	return strings.TrimSpace(values.Get("code"))
}

func redactCallback(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}
