// Package loopback implements core.WebView for hosts without an embedded
// browser. The authorization URL is handed to an Opener (a system browser or
// a terminal prompt) and the provider redirect is received by a local HTTP
// listener bound to the redirect URI.
package loopback
