package errors

import (
	"fmt"
	"strings"
)

// SuggestKey suggests the closest valid key for an unknown one, using
// Levenshtein distance.
func SuggestKey(unknown string, validKeys []string) string {
	if len(validKeys) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, key := range validKeys {
		dist := levenshteinDistance(unknown, key)
		if dist < minDistance {
			minDistance = dist
			bestMatch = key
		}
	}

	// Only suggest if the distance is reasonable (< 5 edits)
	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	return fmt.Sprintf("Valid keys: %s", strings.Join(validKeys, ", "))
}

// SuggestMissingField suggests adding a required field.
func SuggestMissingField(fieldName string, exampleValue string) string {
	if exampleValue != "" {
		return fmt.Sprintf("Add '%s: %s'", fieldName, exampleValue)
	}
	return fmt.Sprintf("Add '%s' field", fieldName)
}

func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
