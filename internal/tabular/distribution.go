package tabular

import (
	"sort"
	"strings"
)

const notSpecified = "Not Specified"

type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Distribution counts the values of the first column whose header contains
// any keyword. Blank cells count as "Not Specified". The top limit buckets
// are returned by descending count; limit <= 0 returns all.
func Distribution(t *Table, keywords []string, limit int) (string, []Bucket) {
	column := ""
	for _, h := range t.Headers {
		lower := strings.ToLower(h)
		for _, k := range keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				column = h
				break
			}
		}
		if column != "" {
			break
		}
	}
	if column == "" || len(t.Rows) == 0 {
		return "", []Bucket{}
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[column])
		if v == "" {
			v = notSpecified
		}
		counts[v]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for v, c := range counts {
		buckets = append(buckets, Bucket{Value: v, Count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Value < buckets[j].Value
	})
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return column, buckets
}
