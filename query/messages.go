package query

import (
	"net/http"
	"strings"
)

const (
	TypeGetStatus      = "socialconnect.query.status.get"
	TypeListOperations = "socialconnect.query.operations.list"
)

type GetStatusMessage struct{}

func (GetStatusMessage) Type() string { return TypeGetStatus }

// ListOperationsMessage filters the catalog by HTTP method. An empty method
// lists every operation.
type ListOperationsMessage struct {
	Method string
}

func (ListOperationsMessage) Type() string { return TypeListOperations }

func (m ListOperationsMessage) Validate() error {
	switch strings.ToUpper(strings.TrimSpace(m.Method)) {
	case "", http.MethodGet, http.MethodPost, http.MethodDelete:
		return nil
	default:
		return queryValidationError("method", "method must be GET, POST or DELETE")
	}
}
