package pipeline

import "strings"

// FieldMap is the reconciliation table between registry fields and the
// header names the upstream dataset has used for them. The portal renames
// columns without notice, so every field except the identifier carries an
// ordered list of accepted names; the first one present in the header wins.
type FieldMap struct {
	// ID has exactly one accepted header name. A dataset without it
	// produces zero importable rows rather than guessing at a key.
	ID string

	Name    []string
	Owner   []string
	Phone   []string
	Address []string
	Email   []string
}

// DefaultFieldMap returns the reconciliation table for the municipal
// business-registry dataset, including historical header spellings.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		ID:      "統一編號",
		Name:    []string{"公司商號名稱", "商號名稱", "公司名稱", "名稱"},
		Owner:   []string{"負責人", "負責人姓名"},
		Phone:   []string{"電話", "聯絡電話", "電話號碼"},
		Address: []string{"地址", "營業地址", "公司地址"},
		Email:   []string{"電子郵件", "電子信箱", "Email", "email"},
	}
}

// columns holds the resolved header position of each field, -1 when no
// accepted name is present. Resolution happens once per sync cycle.
type columns struct {
	id      int
	name    int
	owner   int
	phone   int
	address int
	email   int
}

// resolve matches the field map against a parsed header row. Header names
// are compared after trimming since the upstream export pads them
// inconsistently.
func (m FieldMap) resolve(header []string) columns {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, seen := pos[h]; !seen {
			pos[h] = i
		}
	}

	find := func(candidates []string) int {
		for _, c := range candidates {
			if i, ok := pos[c]; ok {
				return i
			}
		}
		return -1
	}

	return columns{
		id:      find([]string{m.ID}),
		name:    find(m.Name),
		owner:   find(m.Owner),
		phone:   find(m.Phone),
		address: find(m.Address),
		email:   find(m.Email),
	}
}

// cell returns the trimmed value of row[idx], or the empty string when the
// column is unresolved or the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// orSentinel substitutes the fallback for empty values.
func orSentinel(v, sentinel string) string {
	if v == "" {
		return sentinel
	}
	return v
}
