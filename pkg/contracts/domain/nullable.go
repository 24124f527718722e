package domain

// Ptr returns a pointer to v. Nullable columns are modelled as pointers:
// nil is the null marker written as an empty cell.
func Ptr[T any](v T) *T {
	return &v
}
