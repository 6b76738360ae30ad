// Package timezone keeps the application clock and location.
//
// Stored instants are UTC. The configured APP_TIMEZONE only affects how
// timestamps are rendered in responses and how naive inputs are parsed.
// The location is resolved lazily on first use so importing the package
// never reads configuration.
package timezone
