package idgen

// Alphabet is the URL-safe 64 character set. Index i encodes the 6-bit
// group value i. The order is part of the ID format and must not change.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// inAlphabet is a byte lookup table built once from Alphabet.
var inAlphabet = func() [256]bool {
	var t [256]bool
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = true
	}
	return t
}()

// InAlphabet reports whether c is one of the 64 ID characters.
func InAlphabet(c byte) bool {
	return inAlphabet[c]
}

// Valid reports whether s looks like an ID of width w: exact length and
// every character drawn from Alphabet. It does not decode s.
func Valid(s string, w Width) bool {
	if w.Validate() != nil || len(s) != w.Len() {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet[s[i]] {
			return false
		}
	}
	return true
}
