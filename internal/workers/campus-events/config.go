package campusevents

import "time"

type Config struct {
	Timeout   time.Duration
	Namespace string
	// Now supplies the reference date for event status and the default year.
	Now func() time.Time
}

func LoadConfig(cacheNamespace string) *Config {
	return &Config{
		Timeout:   2 * time.Minute,
		Namespace: Namespace(cacheNamespace),
		Now:       time.Now,
	}
}

func Namespace(base string) string {
	return base + "_events"
}
