package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-socialconnect/core"
)

var (
	_ gocmd.Querier[GetStatusMessage, StatusView]           = (*GetStatusQuery)(nil)
	_ gocmd.Querier[ListOperationsMessage, []OperationView] = (*ListOperationsQuery)(nil)

	_ StatusReader  = (*core.Client)(nil)
	_ CatalogReader = (*core.Client)(nil)
)
