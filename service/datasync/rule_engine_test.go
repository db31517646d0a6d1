/*
 * @module service/datasync/rule_engine_test
 * @description 自定义校验规则引擎的单元测试
 * @architecture 单元测试 - 验证脚本编译、缓存和执行隔离
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 规则注册 -> 数据校验 -> 问题收集验证
 * @rules 覆盖合法脚本执行、非法脚本报错和编译缓存复用
 * @dependencies testing, testify
 * @refs rule_engine.go
 */

package datasync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datasync-service/service/meta"
)

const simpleNameScript = `package rules

func Validate(data map[string]interface{}) []string {
	value, ok := data["name"]
	if !ok || value == "" {
		return []string{"name不能为空"}
	}
	return nil
}`

func TestRuleEngine_RegisterAndValidate(t *testing.T) {
	engine := NewRuleEngine()

	require.NoError(t, engine.RegisterRule(meta.EntityTypeFund, "name-required", simpleNameScript))
	assert.Equal(t, 1, engine.RuleCount())

	issues := engine.Validate(meta.EntityTypeFund, map[string]interface{}{"name": ""})
	assert.Equal(t, []string{"name不能为空"}, issues)

	issues = engine.Validate(meta.EntityTypeFund, map[string]interface{}{"name": "成长一期"})
	assert.Empty(t, issues)

	// 未注册规则的实体类型不产生问题
	assert.Empty(t, engine.Validate(meta.EntityTypeDeal, map[string]interface{}{}))
}

func TestRuleEngine_RegisterRule_InvalidScript(t *testing.T) {
	engine := NewRuleEngine()

	tests := []struct {
		name   string
		script string
	}{
		{name: "语法错误", script: "package rules\nfunc Validate(data map[string]"},
		{name: "缺少入口函数", script: "package rules\n\nvar X = 1"},
		{
			name:   "入口签名不符",
			script: "package rules\n\nfunc Validate(data string) []string { return nil }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, engine.RegisterRule(meta.EntityTypeFund, tt.name, tt.script))
		})
	}
	assert.Equal(t, 0, engine.RuleCount())
}

func TestRuleEngine_CompileCacheReuse(t *testing.T) {
	engine := NewRuleEngine()

	// 同一脚本注册到两个实体类型，编译结果被复用
	require.NoError(t, engine.RegisterRule(meta.EntityTypeFund, "fund-name", simpleNameScript))
	require.NoError(t, engine.RegisterRule(meta.EntityTypeDeal, "deal-name", simpleNameScript))
	assert.Equal(t, 2, engine.RuleCount())

	issues := engine.Validate(meta.EntityTypeDeal, map[string]interface{}{})
	assert.Equal(t, []string{"name不能为空"}, issues)
}

func TestRuleEngine_MultipleRulesAccumulate(t *testing.T) {
	engine := NewRuleEngine()

	sectorScript := `package rules

func Validate(data map[string]interface{}) []string {
	value, ok := data["sector"]
	if !ok || value == "" {
		return []string{"sector不能为空"}
	}
	return nil
}`

	require.NoError(t, engine.RegisterRule(meta.EntityTypePortfolioCompany, "name-required", simpleNameScript))
	require.NoError(t, engine.RegisterRule(meta.EntityTypePortfolioCompany, "sector-required", sectorScript))

	issues := engine.Validate(meta.EntityTypePortfolioCompany, map[string]interface{}{})
	assert.ElementsMatch(t, []string{"name不能为空", "sector不能为空"}, issues)
}
