// Package core contains the social connect client: the authorization state
// machine, the single-slot request dispatcher, the endpoint catalog contract and
// the client facade that ties them together. Provider packs, transports,
// credential stores and web views plug in through the contracts declared here;
// core must not depend on any of them.
package core
