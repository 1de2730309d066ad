// Package application provides application initialization and dependency wiring.
// It builds the value storage, the lookup chain used for training
// resolution, handlers, routers and the HTTP server, keeping the main
// package focused on CLI parsing and orchestration.
package application
