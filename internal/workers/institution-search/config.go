package institutionsearch

import "time"

type Config struct {
	Timeout   time.Duration
	Namespace string
}

// LoadConfig derives the worker config from the cache generation tag.
func LoadConfig(cacheNamespace string) *Config {
	return &Config{
		Timeout:   2 * time.Minute,
		Namespace: Namespace(cacheNamespace),
	}
}

// Namespace is the cache namespace for institution records. Institutions
// use the generation tag as is.
func Namespace(base string) string {
	return base
}
