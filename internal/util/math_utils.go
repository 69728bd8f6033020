package util

// CeilDiv returns ceil(a / b) for positive b.
func CeilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// SplitIntoBatches splits total into ceil(total/size) batches, all of size `size` except
// possibly the last one.
func SplitIntoBatches(total, size int) []int {
	if total <= 0 || size <= 0 {
		return nil
	}
	batches := make([]int, 0, CeilDiv(total, size))
	for remaining := total; remaining > 0; remaining -= size {
		batches = append(batches, min(size, remaining))
	}
	return batches
}
