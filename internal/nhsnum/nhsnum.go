// Package nhsnum implements Modulus 11 validation of 10-digit NHS numbers.
//
// The first nine digits are weighted 10 down to 2, summed, and reduced
// mod 11. A computed check digit of 11 maps to 0; a computed check digit
// of 10 means the nine-digit prefix has no valid NHS number at all, so
// any identifier built on it is rejected outright.
package nhsnum

// Valid reports whether s is a well-formed NHS number with a correct
// check digit. Inputs of the wrong length or containing non-digit
// characters are invalid, never an error.
func Valid(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < 10; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	check, ok := CheckDigit(s[:9])
	if !ok {
		return false
	}
	return s[9] == check
}

// CheckDigit computes the Modulus 11 check digit for a nine-digit prefix.
// ok is false when the prefix is not nine digits or when the computed
// digit is 10, in which case no tenth digit can make the number valid.
func CheckDigit(firstNine string) (digit byte, ok bool) {
	if len(firstNine) != 9 {
		return 0, false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		c := firstNine[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		sum += int(c-'0') * (10 - i)
	}
	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		return 0, false
	}
	return byte('0' + check), true
}
