// Package pricing provides market price sources. Table is a fixed
// in-memory symbol-to-price map; Default returns the built-in demo
// listing.
package pricing
