// Package handler serves a rendered diagram over HTTP.
//
// The diagram page is served at the root, next to the files/ and icons/
// directories it links to, so a diagram written with local assets works
// from a browser without a web server of its own. When a topology export
// is configured it is also available as JSON under /api/topology. With
// live reload enabled, served pages reload when /events announces a change.
//
// Errors are returned as JSON with {error, details} structure.
package handler
