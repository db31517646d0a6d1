/*
 * @module service/meta/search_modules
 * @description 搜索模块注册元数据，定义各业务模块支持的实体类型、可搜索字段和搜索能力
 * @architecture 元数据层
 * @documentReference dev_docs/universal_search_req.md
 * @stateFlow 静态元数据定义，服务启动时注册为默认模块
 * @rules 字段权重决定相关度评分，facetable字段参与分面统计；能力标志为声明性质，部分能力未独立实现
 * @dependencies 无
 * @refs service/search/registry.go, service/init.go
 */

package meta

// SearchableField 模块声明的可搜索字段
type SearchableField struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"` // string, number, date, enum
	Searchable bool    `json:"searchable"`
	Filterable bool    `json:"filterable"`
	Facetable  bool    `json:"facetable"`
	Weight     float64 `json:"weight"` // 相关度权重
}

// SearchCapabilities 模块搜索能力声明
type SearchCapabilities struct {
	Fuzzy        bool `json:"fuzzy"`
	Semantic     bool `json:"semantic"`
	Faceted      bool `json:"faceted"`
	Autocomplete bool `json:"autocomplete"`
	Spellcheck   bool `json:"spellcheck"`
}

// ModuleConfig 业务模块的搜索注册配置
type ModuleConfig struct {
	Name         string             `json:"name"`
	DisplayName  string             `json:"display_name"`
	EntityTypes  []EntityType       `json:"entity_types"`
	Fields       []SearchableField  `json:"fields"`
	Capabilities SearchCapabilities `json:"capabilities"`
}

// DefaultModuleConfigs 默认业务模块配置，服务启动时注册
var DefaultModuleConfigs = []ModuleConfig{
	{
		Name:        "fund-management",
		DisplayName: "基金管理",
		EntityTypes: []EntityType{EntityTypeFund},
		Fields: []SearchableField{
			{Name: "name", Type: "string", Searchable: true, Filterable: true, Weight: 1.0},
			{Name: "description", Type: "string", Searchable: true, Weight: 0.6},
			{Name: "strategy", Type: "enum", Searchable: true, Filterable: true, Facetable: true, Weight: 0.5},
			{Name: "vintage", Type: "number", Filterable: true, Facetable: true, Weight: 0.3},
			{Name: "status", Type: "enum", Filterable: true, Facetable: true, Weight: 0.2},
		},
		Capabilities: SearchCapabilities{Fuzzy: true, Faceted: true, Autocomplete: true},
	},
	{
		Name:        "portfolio",
		DisplayName: "投资组合",
		EntityTypes: []EntityType{EntityTypePortfolioCompany, EntityTypeInvestment},
		Fields: []SearchableField{
			{Name: "name", Type: "string", Searchable: true, Filterable: true, Weight: 1.0},
			{Name: "description", Type: "string", Searchable: true, Weight: 0.6},
			{Name: "sector", Type: "enum", Searchable: true, Filterable: true, Facetable: true, Weight: 0.7},
			{Name: "stage", Type: "enum", Filterable: true, Facetable: true, Weight: 0.4},
			{Name: "geography", Type: "enum", Filterable: true, Facetable: true, Weight: 0.3},
		},
		Capabilities: SearchCapabilities{Fuzzy: true, Faceted: true, Autocomplete: true},
	},
	{
		Name:        "deal-pipeline",
		DisplayName: "交易管道",
		EntityTypes: []EntityType{EntityTypeDeal},
		Fields: []SearchableField{
			{Name: "name", Type: "string", Searchable: true, Filterable: true, Weight: 1.0},
			{Name: "description", Type: "string", Searchable: true, Weight: 0.6},
			{Name: "sector", Type: "enum", Searchable: true, Filterable: true, Facetable: true, Weight: 0.5},
			{Name: "stage", Type: "enum", Filterable: true, Facetable: true, Weight: 0.5},
			{Name: "dealLead", Type: "string", Searchable: true, Weight: 0.4},
		},
		Capabilities: SearchCapabilities{Fuzzy: true, Faceted: true, Autocomplete: true},
	},
	{
		Name:        "investor-relations",
		DisplayName: "投资者关系",
		EntityTypes: []EntityType{EntityTypeLPOrganization, EntityTypeContact},
		Fields: []SearchableField{
			{Name: "name", Type: "string", Searchable: true, Filterable: true, Weight: 1.0},
			{Name: "organizationType", Type: "enum", Searchable: true, Filterable: true, Facetable: true, Weight: 0.5},
			{Name: "email", Type: "string", Searchable: true, Weight: 0.4},
			{Name: "region", Type: "enum", Filterable: true, Facetable: true, Weight: 0.3},
		},
		Capabilities: SearchCapabilities{Fuzzy: true, Faceted: true, Autocomplete: true},
	},
	{
		Name:        "documents",
		DisplayName: "文档中心",
		EntityTypes: []EntityType{EntityTypeDocument},
		Fields: []SearchableField{
			{Name: "name", Type: "string", Searchable: true, Filterable: true, Weight: 1.0},
			{Name: "description", Type: "string", Searchable: true, Weight: 0.6},
			{Name: "documentType", Type: "enum", Filterable: true, Facetable: true, Weight: 0.4},
			{Name: "author", Type: "string", Searchable: true, Weight: 0.3},
		},
		Capabilities: SearchCapabilities{Fuzzy: true, Faceted: true},
	},
	{
		Name:        "team",
		DisplayName: "团队目录",
		EntityTypes: []EntityType{EntityTypeUser},
		Fields: []SearchableField{
			{Name: "name", Type: "string", Searchable: true, Filterable: true, Weight: 1.0},
			{Name: "title", Type: "string", Searchable: true, Weight: 0.5},
			{Name: "department", Type: "enum", Filterable: true, Facetable: true, Weight: 0.3},
		},
		Capabilities: SearchCapabilities{Fuzzy: true},
	},
}
