package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput            = "SOCIAL_BAD_INPUT"
	ErrorPreconditionFailed  = "SOCIAL_PRECONDITION_FAILED"
	ErrorUnknownOperation    = "SOCIAL_UNKNOWN_OPERATION"
	ErrorTransport           = "SOCIAL_TRANSPORT_ERROR"
	ErrorMalformedResponse   = "SOCIAL_MALFORMED_RESPONSE"
	ErrorAuthorizationDenied = "SOCIAL_AUTHORIZATION_DENIED"
	ErrorProvider            = "SOCIAL_PROVIDER_ERROR"
	ErrorCredentialStore     = "SOCIAL_CREDENTIAL_STORE_ERROR"
	ErrorInternal            = "SOCIAL_INTERNAL_ERROR"
)

// Synthesized error types used when a failure carries no provider envelope.
const (
	ErrorTypeTransport         = "TransportError"
	ErrorTypeMalformedResponse = "MalformedResponse"
	ErrorTypeAuthorization     = "AuthorizationDenied"
)

func preconditionError(message string, category goerrors.Category, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(clientHTTPStatus(category)).
		WithTextCode(ErrorPreconditionFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func badInputError(message string, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func credentialStoreError(source error, message string, metadata map[string]any) *goerrors.Error {
	err := goerrors.Wrap(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorCredentialStore)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// IsPrecondition reports whether err is a local precondition rejection.
func IsPrecondition(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == ErrorPreconditionFailed || rich.TextCode == ErrorBadInput || rich.TextCode == ErrorUnknownOperation
}

// ToServiceError converts the provider envelope into a go-errors envelope so
// hosts can route it with the same mappers as any other failure.
func (e *APIError) ToServiceError() *goerrors.Error {
	if e == nil {
		return nil
	}
	category := apiErrorCategory(e)
	textCode := ErrorProvider
	switch e.Type {
	case ErrorTypeTransport:
		textCode = ErrorTransport
	case ErrorTypeMalformedResponse:
		textCode = ErrorMalformedResponse
	case ErrorTypeAuthorization:
		textCode = ErrorAuthorizationDenied
	}
	status := e.StatusCode
	if status == 0 {
		status = clientHTTPStatus(category)
	}
	return goerrors.New(e.Error(), category).
		WithCode(status).
		WithTextCode(textCode).
		WithMetadata(map[string]any{
			"error_type":    e.Type,
			"error_code":    e.Code,
			"error_message": e.Message,
		})
}

// IsUnauthorized reports whether the provider rejected the access token.
func (e *APIError) IsUnauthorized() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == http.StatusUnauthorized {
		return true
	}
	return e.Type == "OAuthAccessTokenException"
}

func apiErrorCategory(e *APIError) goerrors.Category {
	switch {
	case e.IsUnauthorized():
		return goerrors.CategoryAuth
	case e.StatusCode == http.StatusForbidden:
		return goerrors.CategoryAuthz
	case e.StatusCode == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case e.StatusCode == http.StatusTooManyRequests, strings.Contains(e.Type, "RateLimit"):
		return goerrors.CategoryRateLimit
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return goerrors.CategoryBadInput
	default:
		return goerrors.CategoryExternal
	}
}

func transportAPIError(result TransportResult) *APIError {
	code := "0"
	if result.StatusCode > 0 {
		code = fmt.Sprint(result.StatusCode)
	}
	message := result.ErrorString()
	if message == "" {
		message = http.StatusText(result.StatusCode)
	}
	return &APIError{
		Type:       ErrorTypeTransport,
		Code:       code,
		Message:    message,
		StatusCode: result.StatusCode,
	}
}

func malformedAPIError(result TransportResult, cause error) *APIError {
	message := "response body is not valid JSON"
	if cause != nil {
		message = cause.Error()
	}
	return &APIError{
		Type:       ErrorTypeMalformedResponse,
		Code:       fmt.Sprint(result.StatusCode),
		Message:    message,
		StatusCode: result.StatusCode,
	}
}

func clientHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
