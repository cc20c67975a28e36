package query

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-socialconnect/core"
)

type StatusReader interface {
	Status() core.Status
}

type CatalogReader interface {
	Catalog() core.Catalog
}

// StatusView is the serializable form of core.Status.
type StatusView struct {
	State         string `json:"state"`
	Busy          bool   `json:"busy"`
	Transmitting  bool   `json:"transmitting"`
	Authenticated bool   `json:"authenticated"`
}

type OperationView struct {
	Name         string   `json:"name"`
	Method       string   `json:"method"`
	URLTemplate  string   `json:"url_template"`
	Required     []string `json:"required,omitempty"`
	Optional     []string `json:"optional,omitempty"`
	Mapper       string   `json:"mapper"`
	Notification string   `json:"notification"`
}

type GetStatusQuery struct {
	reader StatusReader
}

func NewGetStatusQuery(reader StatusReader) *GetStatusQuery {
	return &GetStatusQuery{reader: reader}
}

func (q *GetStatusQuery) Query(_ context.Context, _ GetStatusMessage) (StatusView, error) {
	if q == nil || q.reader == nil {
		return StatusView{}, queryDependencyError("query: status reader is required")
	}
	status := q.reader.Status()
	return StatusView{
		State:         status.State.String(),
		Busy:          status.Busy,
		Transmitting:  status.Transmitting,
		Authenticated: status.Authenticated,
	}, nil
}

type ListOperationsQuery struct {
	reader CatalogReader
}

func NewListOperationsQuery(reader CatalogReader) *ListOperationsQuery {
	return &ListOperationsQuery{reader: reader}
}

// Query returns the matching operations sorted by name.
func (q *ListOperationsQuery) Query(_ context.Context, msg ListOperationsMessage) ([]OperationView, error) {
	if q == nil || q.reader == nil || q.reader.Catalog() == nil {
		return nil, queryDependencyError("query: catalog reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	method := strings.ToUpper(strings.TrimSpace(msg.Method))
	out := []OperationView{}
	for _, endpoint := range q.reader.Catalog().Endpoints() {
		if method != "" && endpoint.Method != method {
			continue
		}
		out = append(out, OperationView{
			Name:         endpoint.Name,
			Method:       endpoint.Method,
			URLTemplate:  endpoint.URLTemplate,
			Required:     append([]string(nil), endpoint.Required...),
			Optional:     append([]string(nil), endpoint.Optional...),
			Mapper:       endpoint.Mapper,
			Notification: endpoint.Notification,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
