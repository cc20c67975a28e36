// Package providers groups the social network definitions a client can be
// built on. Each subpackage exposes a core.Provider: authorization endpoints,
// an endpoint catalog and a response mapper. The devkit subpackage holds the
// fakes and conformance checks shared by provider and client tests.
package providers
