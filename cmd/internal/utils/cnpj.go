package utils

import "strings"

const CNPJLength = 14

// StripCNPJ removes the usual mask: "12.345.678/0001-95" -> "12345678000195".
func StripCNPJ(cnpj string) string {
	r := strings.NewReplacer(".", "", "/", "", "-", "", " ", "")
	return r.Replace(strings.TrimSpace(cnpj))
}

// IsCNPJValid checks length and both verifying digits. Masked input is accepted.
func IsCNPJValid(cnpj string) bool {
	cnpj = StripCNPJ(cnpj)
	if len(cnpj) != CNPJLength {
		return false
	}

	if !isOnlyNumbers(cnpj) {
		return false
	}

	// Reject known invalid patterns that trick the math algorithm
	if hasAllSameDigits(cnpj) {
		return false
	}
	return validateCNPJDigits(cnpj)
}

func isOnlyNumbers(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func hasAllSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func validateCNPJDigits(cnpj string) bool {
	// RFB weights for the first verifying digit
	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	// RFB weights for the second verifying digit
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	digit1 := calculateCNPJDigit(cnpj[:12], weights1)
	digit2 := calculateCNPJDigit(cnpj[:13], weights2)

	actualDigit1 := int(cnpj[12] - '0')
	actualDigit2 := int(cnpj[13] - '0')

	return digit1 == actualDigit1 && digit2 == actualDigit2
}

func calculateCNPJDigit(base string, weights []int) int {
	sum := 0
	for i, weight := range weights {
		digit := int(base[i] - '0')
		sum += digit * weight
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
