// Package server holds the HTTP server configuration.
//
// The Fiber application itself is assembled in the start command; features
// register their routes through the loader package. This package only carries
// the settings the server and its middleware need (listen port and API key).
package server
