// Package config loads the service's runtime configuration from multiple
// sources (YAML files, environment variables, CLI flags) with precedence:
// CLI flags > Environment variables > YAML config > Defaults. Numeric and
// boolean environment values go through the parser package, the same
// grammar applied to training values.
package config
