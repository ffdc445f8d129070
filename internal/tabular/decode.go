package tabular

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	apperrors "college-finder/internal/common/errors"
	"college-finder/internal/models"
)

var (
	nameAliases     = []string{"College Name", "CollegeName", "Name", "College", "Institution", "Institution Name"}
	stateAliases    = []string{"State", "College State"}
	districtAliases = []string{"District", "College District"}
)

const missingColumnsMessage = "Could not find 'College Name' and 'State' columns. Please check your file headers."

// headerKey folds a header for alias matching: NFKC, lower case, without
// spaces, underscores or hyphens.
func headerKey(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, s)
}

// findColumn returns the first header matching any alias, in alias order.
func findColumn(headers []string, aliases []string) string {
	byKey := make(map[string]string, len(headers))
	for _, h := range headers {
		k := headerKey(h)
		if _, seen := byKey[k]; !seen {
			byKey[k] = h
		}
	}
	for _, a := range aliases {
		if h, ok := byKey[headerKey(a)]; ok {
			return h
		}
	}
	return ""
}

// Decode reads an uploaded file into row queries.
func Decode(filename string, data []byte) ([]models.RowQuery, error) {
	t, err := ReadTable(filename, data)
	if err != nil {
		return nil, err
	}
	return DecodeTable(t)
}

// DecodeTable keeps rows that have both a name and a state.
func DecodeTable(t *Table) ([]models.RowQuery, error) {
	nameCol := findColumn(t.Headers, nameAliases)
	stateCol := findColumn(t.Headers, stateAliases)
	districtCol := findColumn(t.Headers, districtAliases)

	var out []models.RowQuery
	if nameCol != "" && stateCol != "" {
		for _, row := range t.Rows {
			q := models.RowQuery{Name: row[nameCol], State: row[stateCol]}
			if districtCol != "" {
				q.District = row[districtCol]
			}
			if q.Name == "" || q.State == "" {
				continue
			}
			out = append(out, q)
		}
	}

	if len(out) == 0 {
		return nil, apperrors.NewFileFormatError(missingColumnsMessage, nil)
	}
	return out, nil
}
