package core

import (
	"context"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Call dispatches the named catalog operation and reports whether it was
// accepted. The outcome arrives later as an operation_completed event,
// preceded by an error event when the call failed.
func (c *Client) Call(ctx context.Context, operation string, params Params) bool {
	return c.Invoke(ctx, operation, params) == nil
}

// Invoke is Call with the rejection reason.
func (c *Client) Invoke(ctx context.Context, operation string, params Params) error {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint, ok := c.catalog.Lookup(operation)
	if !ok {
		err := goerrors.New("core: unknown operation", goerrors.CategoryNotFound).
			WithCode(http.StatusNotFound).
			WithTextCode(ErrorUnknownOperation).
			WithMetadata(map[string]any{"operation": operation, "provider": c.provider.Name()})
		c.rejected(ctx, operation, err)
		return err
	}

	c.mu.Lock()
	if err := c.callPreconditionLocked(endpoint); err != nil {
		c.mu.Unlock()
		c.rejected(ctx, endpoint.Name, err)
		return err
	}
	req, err := buildRequest(endpoint, c.credential.AccessToken, params)
	if err != nil {
		c.mu.Unlock()
		c.rejected(ctx, endpoint.Name, err)
		return err
	}

	c.callSeq++
	seq := c.callSeq
	startedAt := time.Now()
	err = c.dispatcher.dispatch(ctx, req, func(result TransportResult) {
		c.completeCall(ctx, seq, endpoint, startedAt, result)
	})
	if err != nil {
		c.mu.Unlock()
		c.rejected(ctx, endpoint.Name, err)
		return err
	}
	c.activeCall = seq
	c.busy = true
	c.transmitting = true
	c.mu.Unlock()

	c.logDebug(ctx, "operation dispatched", map[string]any{
		"operation": endpoint.Name,
		"method":    req.Method,
	})
	return nil
}

func (c *Client) callPreconditionLocked(endpoint Endpoint) error {
	metadata := map[string]any{
		"operation":     endpoint.Name,
		"state":         c.state.String(),
		"busy":          c.busy,
		"authenticated": c.authenticated,
	}
	switch {
	case c.closed:
		return preconditionError("core: client is closed", goerrors.CategoryConflict, metadata)
	case !c.authenticated:
		return preconditionError("core: client is not authenticated", goerrors.CategoryAuth, metadata)
	case c.state != StateLogged:
		return preconditionError("core: calls require the logged state", goerrors.CategoryConflict, metadata)
	case c.busy || c.dispatcher.busy():
		return preconditionError("core: client is busy", goerrors.CategoryConflict, metadata)
	}
	return nil
}

func (c *Client) completeCall(ctx context.Context, seq uint64, endpoint Endpoint, startedAt time.Time, result TransportResult) {
	c.mu.Lock()
	if c.activeCall != seq {
		c.mu.Unlock()
		return
	}
	c.activeCall = 0
	c.busy = false
	c.transmitting = false

	fields := map[string]any{
		"operation":   endpoint.Name,
		"status_code": result.StatusCode,
	}
	if apiErr := c.responseError(result); apiErr != nil {
		c.failCallLocked(endpoint, apiErr)
		if apiErr.IsUnauthorized() && c.state == StateLogged {
			c.state, _ = Transition(c.state, EventUnauthorized)
			c.authenticated = false
			c.setAccessTokenLocked("")
			fields["unauthorized"] = true
		}
		c.mu.Unlock()
		c.observeOperation(ctx, startedAt, endpoint.Name, apiErr, fields)
		return
	}

	records, err := c.mapper.Map(endpoint.Mapper, result.Body)
	if err != nil {
		apiErr := malformedAPIError(result, err)
		c.failCallLocked(endpoint, apiErr)
		c.mu.Unlock()
		c.observeOperation(ctx, startedAt, endpoint.Name, apiErr, fields)
		return
	}
	c.emitLocked(Event{
		Kind:         EventOperationCompleted,
		Operation:    endpoint.Name,
		Notification: endpoint.Notification,
		Success:      true,
		Records:      records,
	})
	c.mu.Unlock()
	fields["records"] = len(records)
	c.observeOperation(ctx, startedAt, endpoint.Name, nil, fields)
}

func (c *Client) failCallLocked(endpoint Endpoint, apiErr *APIError) {
	c.emitLocked(
		errorEvent(endpoint.Name, apiErr),
		Event{
			Kind:         EventOperationCompleted,
			Operation:    endpoint.Name,
			Notification: endpoint.Notification,
			Success:      false,
			Records:      []Record{},
		},
	)
}

// responseError classifies a finished transport result. The provider envelope
// wins whenever one can be parsed; otherwise failures are reported as
// synthesized transport errors.
func (c *Client) responseError(result TransportResult) *APIError {
	if apiErr, ok := c.mapper.ParseError(result.StatusCode, result.Body); ok {
		if apiErr.StatusCode == 0 {
			apiErr.StatusCode = result.StatusCode
		}
		return apiErr
	}
	if result.Err != nil || result.StatusCode < 200 || result.StatusCode >= 300 {
		return transportAPIError(result)
	}
	return nil
}
