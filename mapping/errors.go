package mapping

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-socialconnect/core"
)

var errTrailingData = errors.New("mapping: unexpected data after JSON value")

func malformedError(source error, kind string) error {
	message := "mapping: malformed response"
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, goerrors.CategoryExternal)
	} else {
		err = goerrors.Wrap(source, goerrors.CategoryExternal, message)
	}
	return err.
		WithCode(http.StatusBadGateway).
		WithTextCode(core.ErrorMalformedResponse).
		WithMetadata(map[string]any{"kind": kind})
}

func unknownKindError(kind string) error {
	return goerrors.New("mapping: unknown record kind", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ErrorInternal).
		WithMetadata(map[string]any{"kind": kind})
}

// IsMalformed reports whether err marks a body that could not be mapped.
func IsMalformed(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == core.ErrorMalformedResponse
}
