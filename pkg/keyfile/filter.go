package keyfile

// Keep reports whether a deck line survives a rewrite. A line is kept
// unless it is empty or its first byte is the comment sentinel '$'.
// Lines include their terminators, so blank lines in a deck arrive here
// as "\n" and are kept.
//
// A nil line is a caller bug and fails with ErrNilLine rather than
// being treated as either kept or dropped.
func Keep(line []byte) (bool, error) {
	if line == nil {
		return false, ErrNilLine
	}

	if len(line) == 0 {
		return false, nil
	}

	return line[0] != sentinel, nil
}
