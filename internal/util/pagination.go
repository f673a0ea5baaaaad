package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate clamps page/size and converts them to offset/limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return (page - 1) * size, size
}
