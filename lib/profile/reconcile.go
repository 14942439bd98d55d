package profile

// WindowedSums turns a cumulative sum into per-window sums.
//
// cumsum[j] holds the running total of some sequence through index j, m is
// the window length and length is the number of windows the caller needs
// (the length of a valid-mode convolution). Entry i of the result is the
// sum of the sequence over [i, i+m).
//
// The first m-1 cumulative entries are dropped so that index i holds the
// running total through the end of window i. That shifted sequence is
// truncated to length, or padded with zeroes at the tail if it is shorter.
// The padded tail is not a true window sum. It only occurs when length
// exceeds len(cumsum)-m+1.
func WindowedSums(cumsum []float64, m int, length int) []float64 {
	ret := make([]float64, length)
	if m < 1 {
		m = 1
	}
	shifted := cumsum[min(m-1, len(cumsum)):]
	copy(ret, shifted)

	// Subtract the running total up to, not including, the window start.
	for i := 1; i < length && i-1 < len(cumsum); i++ {
		ret[i] -= cumsum[i-1]
	}
	return ret
}
