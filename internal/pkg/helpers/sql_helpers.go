package helpers

// NullableID converts an optional id to a value for a nullable column.
// nil and non-positive ids become NULL.
func NullableID(id *int64) interface{} {
	if id == nil || *id <= 0 {
		return nil
	}
	return *id
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
