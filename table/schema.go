package table

// Kind is the coarse type of a column.
type Kind int

const (
	KindOther Kind = iota
	KindNumeric
	KindText
	KindDate
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "other"
	}
}

// Schema is the set of column facts of a loaded table. It is built once
// per render pass and handed to every report section, so that sections
// decide what they can show without touching the data.
type Schema struct {
	kinds map[string]Kind
	order []string
}

// Has reports whether every one of cols is present.
func (s Schema) Has(cols ...string) bool {
	for _, c := range cols {
		if _, ok := s.kinds[c]; !ok {
			return false
		}
	}
	return true
}

// Present returns the subset of cols that exist, in the order given.
func (s Schema) Present(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if _, ok := s.kinds[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Kind returns the kind of col, KindOther if it is absent.
func (s Schema) Kind(col string) Kind {
	return s.kinds[col]
}

// Columns returns all column names in header order.
func (s Schema) Columns() []string {
	return s.order
}

// Numeric returns the numeric (int or float) columns in header order.
func (s Schema) Numeric() []string {
	return s.ofKind(KindNumeric)
}

// Text returns the text columns in header order.
func (s Schema) Text() []string {
	return s.ofKind(KindText)
}

func (s Schema) ofKind(k Kind) []string {
	var out []string
	for _, c := range s.order {
		if s.kinds[c] == k {
			out = append(out, c)
		}
	}
	return out
}
