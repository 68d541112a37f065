package taxonomy

// Field is the persisted classification on one axis.
// When Code is OtherCode, Label equals FreeText. Otherwise FreeText is empty
// and Label is the table label for Code, or empty for codes not in the table.
type Field struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	FreeText string `json:"free_text"`
}

// Resolution is the outcome of resolving one axis. Changed is false when no
// code was supplied; the stored Field must then be left untouched.
type Resolution struct {
	Field   Field
	Changed bool
}

// Resolve computes the Field to persist for code and freeText against t.
//
// A nil code means the axis was not supplied (partial update) and yields an
// unchanged Resolution. An empty code is present: it resolves like any code
// missing from the table, to an empty label. freeText is ignored unless code
// is OtherCode; an empty freeText then produces an empty label.
func Resolve(t Table, code *string, freeText string) Resolution {
	if code == nil {
		return Resolution{}
	}

	if *code == OtherCode {
		return Resolution{
			Field:   Field{Code: OtherCode, Label: freeText, FreeText: freeText},
			Changed: true,
		}
	}

	label, _ := t.Label(*code)
	return Resolution{
		Field:   Field{Code: *code, Label: label},
		Changed: true,
	}
}
