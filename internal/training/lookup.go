package training

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Lookup resolves a raw configuration value by key.
type Lookup interface {
	Lookup(key string) (string, bool)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(key string) (string, bool)

func (f LookupFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// EnvLookup reads values from the process environment.
var EnvLookup Lookup = LookupFunc(os.LookupEnv)

// MapLookup serves values from a static map.
type MapLookup map[string]string

func (m MapLookup) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Chain consults each Lookup in order and returns the first non-empty hit.
// An empty value counts as unset so it cannot shadow a later source.
func Chain(lookups ...Lookup) Lookup {
	return LookupFunc(func(key string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l.Lookup(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	})
}

// DotenvLookup reads a dotenv file without touching the process environment.
func DotenvLookup(path string) (MapLookup, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return MapLookup(values), nil
}
