// Package registry builds, writes, loads, and compares the aggregated
// wcms-modules.json registry. A build runs the plugin and theme list
// aggregations concurrently and only produces a Registry once both succeed;
// writes replace the destination atomically.
package registry
