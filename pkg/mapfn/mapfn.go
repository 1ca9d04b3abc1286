package mapfn

import "iter"

// Collect drains a fallible sequence into a slice. It stops at the first
// error; the result is never nil on success.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	result := make([]T, 0)
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// CollectLimit is Collect bounded to at most limit elements. The sequence is
// not consumed past the limit.
func CollectLimit[T any](seq iter.Seq2[T, error], limit int) ([]T, error) {
	result := make([]T, 0)
	if limit <= 0 {
		return result, nil
	}
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		result = append(result, v)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}
