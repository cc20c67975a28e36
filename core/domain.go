package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type AuthorizationMode string

const (
	AuthorizationModeCode  AuthorizationMode = "code"
	AuthorizationModeToken AuthorizationMode = "token"
)

// ParseAuthorizationMode accepts "code" or "token" in any case. An empty value
// resolves to code mode.
func ParseAuthorizationMode(value string) (AuthorizationMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", string(AuthorizationModeCode):
		return AuthorizationModeCode, nil
	case string(AuthorizationModeToken):
		return AuthorizationModeToken, nil
	default:
		return "", fmt.Errorf("core: unsupported authorization mode %q", value)
	}
}

// ResponseType is the response_type query value sent to the authorization
// endpoint for the mode.
func (m AuthorizationMode) ResponseType() string {
	if m == AuthorizationModeToken {
		return "token"
	}
	return "code"
}

type Credential struct {
	AccessToken  string
	RequestToken string
}

func (c Credential) Empty() bool {
	return strings.TrimSpace(c.AccessToken) == "" && strings.TrimSpace(c.RequestToken) == ""
}

type Params map[string]string

func (p Params) Get(name string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p[name])
}

type Endpoint struct {
	Name         string
	Method       string
	URLTemplate  string
	Required     []string
	Optional     []string
	Mapper       string
	Notification string
}

// PathParams returns the placeholder names referenced by the URL template in
// the order they appear.
func (e Endpoint) PathParams() []string {
	var names []string
	rest := e.URLTemplate
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return names
		}
		names = append(names, rest[start+1:start+end])
		rest = rest[start+end+1:]
	}
}

func (e Endpoint) Accepts(name string) bool {
	for _, candidate := range e.Required {
		if candidate == name {
			return true
		}
	}
	for _, candidate := range e.Optional {
		if candidate == name {
			return true
		}
	}
	return false
}

type Request struct {
	Endpoint Endpoint
	URL      string
	Method   string
	Headers  map[string]string
	Body     []byte
}

// Field is one entry of a Record. Scalar fields carry Value; sub-list fields
// carry Items and report IsList.
type Field struct {
	Key    string
	Value  string
	Items  []Record
	IsList bool
}

// Record is a normalized, provider-agnostic view of one API entity. Field order
// is the order of insertion and is preserved by JSON encoding.
type Record struct {
	fields []Field
}

func NewRecord(capacity int) Record {
	return Record{fields: make([]Field, 0, capacity)}
}

func (r *Record) Set(key string, value string) {
	if idx := r.index(key); idx >= 0 {
		r.fields[idx] = Field{Key: key, Value: value}
		return
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

func (r *Record) SetList(key string, items []Record) {
	if items == nil {
		items = []Record{}
	}
	if idx := r.index(key); idx >= 0 {
		r.fields[idx] = Field{Key: key, Items: items, IsList: true}
		return
	}
	r.fields = append(r.fields, Field{Key: key, Items: items, IsList: true})
}

func (r Record) Get(key string) string {
	if idx := r.index(key); idx >= 0 {
		return r.fields[idx].Value
	}
	return ""
}

func (r Record) List(key string) []Record {
	if idx := r.index(key); idx >= 0 {
		return r.fields[idx].Items
	}
	return nil
}

func (r Record) Has(key string) bool {
	return r.index(key) >= 0
}

func (r Record) Len() int {
	return len(r.fields)
}

func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for _, field := range r.fields {
		keys = append(keys, field.Key)
	}
	return keys
}

func (r Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

func (r Record) index(key string) int {
	for i := range r.fields {
		if r.fields[i].Key == key {
			return i
		}
	}
	return -1
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var value []byte
		if field.IsList {
			items := field.Items
			if items == nil {
				items = []Record{}
			}
			value, err = json.Marshal(items)
		} else {
			value, err = json.Marshal(field.Value)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// APIError is the provider error envelope of a failed response.
type APIError struct {
	Type       string
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("%s (%s)", e.Type, e.Code)
	}
	return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
}

type EventKind string

const (
	EventAuthenticateCompleted   EventKind = "authenticate_completed"
	EventDeauthenticateCompleted EventKind = "deauthenticate_completed"
	EventOperationCompleted      EventKind = "operation_completed"
	EventError                   EventKind = "error"
	EventPropertyChanged         EventKind = "property_changed"
)

// Event is an outbound notification. Operation events carry the catalog name
// and notification of the endpoint; the token exchange reports as
// OperationAuthorization.
type Event struct {
	Kind         EventKind
	Operation    string
	Notification string
	Success      bool
	Records      []Record
	Err          *APIError
	Property     string
	Value        string
}

type EventHandler func(Event)

const (
	OperationAuthorization    = "authorization"
	NotificationAuthorization = "retrieveAuthorizationCompleted"
)

const (
	PropertyClientID          = "client_id"
	PropertyClientSecret      = "client_secret"
	PropertyRedirectURI       = "redirect_uri"
	PropertyScope             = "scope"
	PropertyAuthorizationMode = "authorization_mode"
	PropertyAccessToken       = "access_token"
	PropertyRequestToken      = "request_token"
)
