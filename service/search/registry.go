/*
 * @module service/search/registry
 * @description 搜索模块注册表，各业务模块通过注册接口声明支持的实体类型、可搜索字段和搜索能力
 * @architecture 注册表模式 - 以接口注册替代硬编码的模块分发表，编排器对修改封闭
 * @documentReference dev_docs/universal_search_req.md
 * @stateFlow 服务启动 -> 模块注册 -> 搜索请求按注册表扇出
 * @rules 模块名称唯一，重复注册覆盖旧配置；注册顺序决定无显式模块列表时的扇出顺序
 * @dependencies datasync-service/service/meta
 * @refs service/search/orchestrator.go, service/init.go
 */

package search

import (
	"sync"

	"datasync-service/service/meta"
)

// SearchModule 业务模块的搜索注册接口
type SearchModule interface {
	Name() string
	SupportedEntityTypes() []meta.EntityType
	SearchableFields() []meta.SearchableField
	Capabilities() meta.SearchCapabilities
}

// StaticModule 基于静态配置的模块实现
type StaticModule struct {
	Config meta.ModuleConfig
}

// Name 模块名称
func (m *StaticModule) Name() string { return m.Config.Name }

// SupportedEntityTypes 模块支持的实体类型
func (m *StaticModule) SupportedEntityTypes() []meta.EntityType { return m.Config.EntityTypes }

// SearchableFields 模块声明的可搜索字段
func (m *StaticModule) SearchableFields() []meta.SearchableField { return m.Config.Fields }

// Capabilities 模块搜索能力声明
func (m *StaticModule) Capabilities() meta.SearchCapabilities { return m.Config.Capabilities }

// ModuleRegistry 搜索模块注册表
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]SearchModule
	order   []string
}

// NewModuleRegistry 创建模块注册表实例
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules: make(map[string]SearchModule),
		order:   make([]string, 0),
	}
}

// Register 注册搜索模块，同名模块覆盖旧配置
func (r *ModuleRegistry) Register(module SearchModule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := module.Name()
	if _, exists := r.modules[name]; !exists {
		r.order = append(r.order, name)
	}
	r.modules[name] = module
}

// Get 按名称获取模块
func (r *ModuleRegistry) Get(name string) (SearchModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	module, ok := r.modules[name]
	return module, ok
}

// All 按注册顺序返回全部模块
func (r *ModuleRegistry) All() []SearchModule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SearchModule, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.modules[name])
	}
	return result
}

// Names 按注册顺序返回全部模块名称
func (r *ModuleRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, len(r.order))
	copy(result, r.order)
	return result
}
