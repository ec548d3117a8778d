package form

// updateItem replaces s[i] in place
func updateItem[T any](s []T, i int, v T, collection string) error {
	if i < 0 || i >= len(s) {
		return &IndexError{Collection: collection, Index: i, Len: len(s)}
	}
	s[i] = v
	return nil
}

// removeItem returns s without element i. When s is already at floor the
// original slice is returned unchanged with removed=false.
func removeItem[T any](s []T, i, floor int, collection string) (out []T, removed bool, err error) {
	if i < 0 || i >= len(s) {
		return s, false, &IndexError{Collection: collection, Index: i, Len: len(s)}
	}
	if len(s) <= floor {
		return s, false, nil
	}
	out = make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, true, nil
}

func checkIndex(i, n int, collection string) error {
	if i < 0 || i >= n {
		return &IndexError{Collection: collection, Index: i, Len: n}
	}
	return nil
}
