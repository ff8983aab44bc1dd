package xl

// SharedStrings is a deduplicated string table that keeps first-seen
// order.
type SharedStrings struct {
	list  []string
	index map[string]int // 0-based index into list
}

// NewSharedStrings returns an empty table.
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{index: map[string]int{}}
}

// Intern returns the index of s, appending it when unseen.
func (t *SharedStrings) Intern(s string) int {
	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.list)
	t.list = append(t.list, s)
	t.index[s] = i
	return i
}

// Index returns the index of s if it was interned.
func (t *SharedStrings) Index(s string) (int, bool) {
	i, ok := t.index[s]
	return i, ok
}

// Len returns the number of distinct strings.
func (t *SharedStrings) Len() int { return len(t.list) }

// At returns the string at index i.
func (t *SharedStrings) At(i int) string { return t.list[i] }
