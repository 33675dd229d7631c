package services

import (
	"strings"
	"unicode"
)

// maxTitleEditDistance is the Levenshtein threshold under which two
// normalized meeting titles fall into the same recurrence bucket
const maxTitleEditDistance = 3

type TitleSimilarityService struct{}

func NewTitleSimilarityService() *TitleSimilarityService {
	return &TitleSimilarityService{}
}

// NormalizeTitle normalizes a meeting title for comparison
func (s *TitleSimilarityService) NormalizeTitle(title string) string {
	title = strings.ToLower(title)

	// Keep only alphanumeric characters
	var result strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SameBucket reports whether two titles belong to the same recurrence bucket:
// one is an exact prefix of the other, or they are within the edit-distance threshold
func (s *TitleSimilarityService) SameBucket(title1, title2 string) bool {
	normalized1 := s.NormalizeTitle(title1)
	normalized2 := s.NormalizeTitle(title2)

	if normalized1 == "" || normalized2 == "" {
		return false
	}

	if strings.HasPrefix(normalized1, normalized2) || strings.HasPrefix(normalized2, normalized1) {
		return true
	}

	return s.LevenshteinDistance(normalized1, normalized2) <= maxTitleEditDistance
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *TitleSimilarityService) LevenshteinDistance(str1, str2 string) int {
	len1, len2 := len(str1), len(str2)

	// Create matrix
	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	// Initialize first row and column
	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			if str1[i-1] == str2[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
			} else {
				matrix[i][j] = minOf3(
					matrix[i-1][j]+1,   // deletion
					matrix[i][j-1]+1,   // insertion
					matrix[i-1][j-1]+1, // substitution
				)
			}
		}
	}

	return matrix[len1][len2]
}

func minOf3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= a && b <= c {
		return b
	}
	return c
}
