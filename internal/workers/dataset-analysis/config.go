package datasetanalysis

import "time"

type Config struct {
	Timeout    time.Duration
	Namespace  string
	SampleRows int
}

func LoadConfig(cacheNamespace string) *Config {
	return &Config{
		Timeout:    2 * time.Minute,
		Namespace:  Namespace(cacheNamespace),
		SampleRows: 10,
	}
}

func Namespace(base string) string {
	return base + "_analysis"
}
