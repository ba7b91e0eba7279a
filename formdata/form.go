package formdata

// Form collects text values and uploads in the order they are added, the
// way a browser submits them. Files sent under the same field name, with or
// without a trailing "[]", share one group.
type Form struct {
	pairs  []FormPair
	groups []FileGroup
	index  map[string]int
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{index: make(map[string]int)}
}

// AddValue appends a text value.
func (f *Form) AddValue(name, value string) {
	f.pairs = append(f.pairs, FormPair{Name: name, Value: value})
}

// AddFile appends an upload to the group of name.
func (f *Form) AddFile(name string, file File) {
	field := FieldName(name)
	i, ok := f.index[field]
	if !ok {
		i = len(f.groups)
		f.index[field] = i
		f.groups = append(f.groups, FileGroup{Field: field})
	}
	f.groups[i].Files = append(f.groups[i].Files, file)
}

// Input rebuilds the nested text input.
func (f *Form) Input() Value {
	return ParsePairs(f.pairs)
}

// Files returns the upload groups in first-seen order.
func (f *Form) Files() []FileGroup {
	return f.groups
}

// Fields flattens the form into multipart fields, text first.
func (f *Form) Fields() []Field {
	return Build(f.Input(), f.groups)
}
