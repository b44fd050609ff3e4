// Package aggregate reads a list of repository URLs and collects the module
// metadata of every entry into one manifest. Fetches run under a concurrency
// limit that defaults to one, so a list is walked sequentially unless the
// caller opts in to more; the upstream host rate-limits anonymous clients.
package aggregate
