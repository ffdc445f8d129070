package companyleads

import "time"

type Config struct {
	Timeout   time.Duration
	Namespace string
}

func LoadConfig(cacheNamespace string) *Config {
	return &Config{
		Timeout:   2 * time.Minute,
		Namespace: Namespace(cacheNamespace),
	}
}

func Namespace(base string) string {
	return base + "_hr"
}
