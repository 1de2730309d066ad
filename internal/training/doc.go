// Package training resolves the environment-sourced settings of a DROP
// semantic parser training run into a typed Config. Every key is read once,
// parsed with the parser package, and validated before the Config is
// returned, so a run never starts with a missing or malformed value.
package training
