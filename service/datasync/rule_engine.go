/*
 * @module service/datasync/rule_engine
 * @description 自定义校验规则引擎，基于yaegi解释器执行按实体类型注册的Go脚本规则，规则产出的问题追加到质量指标
 * @architecture 解释器模式 - 脚本编译缓存 + 动态执行
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 规则注册 -> 脚本编译缓存 -> 事件到达时执行 -> 问题收集
 * @rules 规则脚本必须在rules包中导出 Validate(data map[string]interface{}) []string；规则执行失败降级为日志告警，不得中断发布流程
 * @dependencies github.com/traefik/yaegi
 * @refs service/datasync/sync_service.go
 */

package datasync

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"datasync-service/service/meta"
)

// ValidationRuleFunc 编译后的规则入口函数
type ValidationRuleFunc func(data map[string]interface{}) []string

// CompiledRule 编译缓存的校验规则
type CompiledRule struct {
	Name string
	hash string
	fn   ValidationRuleFunc
}

// RuleEngine 自定义校验规则引擎
type RuleEngine struct {
	mu    sync.RWMutex
	rules map[meta.EntityType][]*CompiledRule
	cache map[string]ValidationRuleFunc // 脚本hash -> 编译结果
}

// NewRuleEngine 创建规则引擎实例
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{
		rules: make(map[meta.EntityType][]*CompiledRule),
		cache: make(map[string]ValidationRuleFunc),
	}
}

// RegisterRule 注册实体类型的校验规则脚本
// 脚本须为完整Go源码，在rules包中定义 Validate(data map[string]interface{}) []string
func (e *RuleEngine) RegisterRule(entityType meta.EntityType, name, script string) error {
	hash := scriptHash(script)

	e.mu.RLock()
	fn, cached := e.cache[hash]
	e.mu.RUnlock()

	if !cached {
		var err error
		fn, err = e.compile(script)
		if err != nil {
			return fmt.Errorf("规则脚本编译失败: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache[hash] = fn
	e.rules[entityType] = append(e.rules[entityType], &CompiledRule{Name: name, hash: hash, fn: fn})
	return nil
}

// Validate 执行实体类型的全部自定义规则，返回收集到的问题描述
// 单条规则执行失败或panic仅记录日志，不影响其他规则
func (e *RuleEngine) Validate(entityType meta.EntityType, data map[string]interface{}) []string {
	e.mu.RLock()
	rules := e.rules[entityType]
	e.mu.RUnlock()

	issues := make([]string, 0)
	for _, rule := range rules {
		issues = append(issues, e.runRule(rule, data)...)
	}
	return issues
}

// RuleCount 已注册规则总数
func (e *RuleEngine) RuleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, rules := range e.rules {
		count += len(rules)
	}
	return count
}

// runRule 执行单条规则并隔离panic
func (e *RuleEngine) runRule(rule *CompiledRule, data map[string]interface{}) (issues []string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("校验规则执行panic", "rule", rule.Name, "panic", r)
			issues = nil
		}
	}()

	return rule.fn(data)
}

// compile 编译规则脚本为可执行函数
func (e *RuleEngine) compile(script string) (ValidationRuleFunc, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("加载标准库失败: %w", err)
	}

	if _, err := i.Eval(script); err != nil {
		return nil, err
	}

	v, err := i.Eval("rules.Validate")
	if err != nil {
		return nil, fmt.Errorf("规则脚本缺少 rules.Validate 入口: %w", err)
	}

	fn, ok := v.Interface().(func(map[string]interface{}) []string)
	if !ok {
		return nil, fmt.Errorf("rules.Validate 签名不符合 func(map[string]interface{}) []string")
	}
	return fn, nil
}

func scriptHash(script string) string {
	sum := sha1.Sum([]byte(script))
	return hex.EncodeToString(sum[:])
}
