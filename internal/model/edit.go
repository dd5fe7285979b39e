package model

// Edit is a byte-range replacement against the current text of a file.
// Deletion is an edit with empty Text. Edits produced by one pass walk must
// not overlap; they are applied from the highest start offset down so earlier
// offsets stay valid.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}

// Len returns the number of bytes the edit removes.
func (e Edit) Len() uint32 {
	return e.End - e.Start
}
