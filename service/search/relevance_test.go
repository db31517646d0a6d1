/*
 * @module service/search/relevance_test
 * @description 搜索相关度辅助函数的单元测试
 * @architecture 单元测试 - 纯函数验证
 * @documentReference dev_docs/universal_search_req.md
 * @stateFlow 输入构造 -> 函数调用 -> 结果验证
 * @rules 覆盖编辑距离、归一化相似度和命中片段截取的边界
 * @dependencies testing, testify
 * @refs relevance.go
 */

package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{name: "完全相同", a: "acme", b: "acme", expected: 0},
		{name: "均为空串", a: "", b: "", expected: 0},
		{name: "一侧为空串", a: "acme", b: "", expected: 4},
		{name: "单字符替换", a: "acme", b: "acne", expected: 1},
		{name: "插入一个字符", a: "acme", b: "acmes", expected: 1},
		{name: "经典案例", a: "kitten", b: "sitting", expected: 3},
		{name: "中文字符按rune计算", a: "基金", b: "基金会", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestNormalizedSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{name: "完全相同", a: "acme", b: "acme", expected: 1.0},
		{name: "均为空串", a: "", b: "", expected: 1.0},
		{name: "五分之一差异", a: "acmes", b: "acmez", expected: 0.8},
		{name: "完全不同", a: "ab", b: "xy", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, normalizedSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestBuildHighlight(t *testing.T) {
	t.Run("无匹配返回空串", func(t *testing.T) {
		assert.Equal(t, "", buildHighlight("some value", "missing"))
	})

	t.Run("短文本整体返回", func(t *testing.T) {
		assert.Equal(t, "Acme Corp", buildHighlight("Acme Corp", "acme"))
	})

	t.Run("长文本前后各扩展20字符并加省略号", func(t *testing.T) {
		prefix := strings.Repeat("a", 50)
		suffix := strings.Repeat("b", 50)
		value := prefix + "TARGET" + suffix

		fragment := buildHighlight(value, "target")

		assert.True(t, strings.HasPrefix(fragment, "..."))
		assert.True(t, strings.HasSuffix(fragment, "..."))
		assert.Contains(t, fragment, "TARGET")
		// 片段 = 20 + len("target") + 20 + 两端省略号
		assert.Len(t, fragment, 3+20+6+20+3)
	})

	t.Run("匹配在开头时不加前省略号", func(t *testing.T) {
		value := "TARGET" + strings.Repeat("b", 50)
		fragment := buildHighlight(value, "target")

		assert.False(t, strings.HasPrefix(fragment, "..."))
		assert.True(t, strings.HasSuffix(fragment, "..."))
	})

	t.Run("中文短文本整体返回且为合法UTF-8", func(t *testing.T) {
		fragment := buildHighlight("分销商与长期合作伙伴Acme达成协议", "acme")

		assert.Equal(t, "分销商与长期合作伙伴Acme达成协议", fragment)
		assert.True(t, utf8.ValidString(fragment))
	})

	t.Run("中文长文本按rune截取窗口", func(t *testing.T) {
		value := strings.Repeat("前", 30) + "Acme" + strings.Repeat("后", 30)

		fragment := buildHighlight(value, "acme")

		assert.True(t, utf8.ValidString(fragment))
		assert.True(t, strings.HasPrefix(fragment, "..."))
		assert.True(t, strings.HasSuffix(fragment, "..."))
		assert.Contains(t, fragment, "Acme")
		// 片段 = 20 + len("Acme") + 20 个rune + 两端省略号
		assert.Equal(t, 3+20+4+20+3, utf8.RuneCountInString(fragment))
	})
}

func TestMatchTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		query    string
		expected string
	}{
		{name: "完全相等为EXACT", title: "Acme", query: "acme", expected: "EXACT"},
		{name: "包含为PARTIAL", title: "Acme Corp", query: "acme", expected: "PARTIAL"},
		{name: "编辑距离相近为FUZZY", title: "acmes", query: "acmez", expected: "FUZZY"},
		{name: "其余为SEMANTIC", title: "Globex", query: "acme", expected: "SEMANTIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(matchTypeFor(tt.title, tt.query)))
		})
	}
}
