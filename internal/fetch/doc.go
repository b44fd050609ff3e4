// Package fetch is the HTTP layer of the registry builder. It performs
// content GETs and HEAD existence probes against GitHub and its raw content
// host, applying a per-request timeout, the builder's User-Agent, and an
// optional GitHub token.
package fetch
