/*
 * @module service/search/relevance
 * @description 搜索相关度辅助函数，包括编辑距离相似度计算和命中片段截取
 * @architecture 工具函数层
 * @documentReference dev_docs/universal_search_req.md
 * @stateFlow 无状态纯函数
 * @rules 相关度使用简单的子串与编辑距离启发式，设计明确不引入分词或词干化
 * @dependencies 无
 * @refs service/search/adapter.go
 */

package search

import (
	"strings"
	"unicode/utf8"
)

// highlightWindow 命中片段向前后各扩展的字符数
const highlightWindow = 20

// fuzzySimilarityThreshold 归一化编辑距离相似度达到该值视为FUZZY匹配
const fuzzySimilarityThreshold = 0.80

// levenshteinDistance 计算两个字符串的编辑距离
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		previous[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		current[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			current[j] = minInt(previous[j]+1, minInt(current[j-1]+1, previous[j-1]+cost))
		}
		previous, current = current, previous
	}
	return previous[len(rb)]
}

// normalizedSimilarity 归一化编辑距离相似度，1.0为完全相同
func normalizedSimilarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// buildHighlight 截取首个匹配位置前后各20字符的命中片段，无匹配时返回空串。
// 窗口按rune计算，保证多字节文本不会在片段边界被截断成非法UTF-8
func buildHighlight(value, query string) string {
	lowerValue := strings.ToLower(value)
	lowerQuery := strings.ToLower(query)
	index := strings.Index(lowerValue, lowerQuery)
	if index < 0 {
		return ""
	}

	runes := []rune(value)
	matchStart := utf8.RuneCountInString(lowerValue[:index])
	matchLen := utf8.RuneCountInString(lowerQuery)

	start := matchStart - highlightWindow
	if start < 0 {
		start = 0
	}
	end := matchStart + matchLen + highlightWindow
	if end > len(runes) {
		end = len(runes)
	}

	fragment := string(runes[start:end])
	if start > 0 {
		fragment = "..." + fragment
	}
	if end < len(runes) {
		fragment = fragment + "..."
	}
	return fragment
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
