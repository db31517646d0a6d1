/*
 * @module service/models/search_models
 * @description 联邦搜索相关模型定义，包括搜索请求、搜索结果、分面、补全建议和搜索质量指标
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/universal_search_req.md
 * @stateFlow 搜索请求 -> 模块扇出 -> 结果合并排序 -> 分面与建议生成
 * @rules 搜索产物均为请求级数据，随请求计算，不做持久化
 * @dependencies datasync-service/service/meta
 * @refs service/search/orchestrator.go
 */

package models

import (
	"time"

	"datasync-service/service/meta"
)

// MatchType 搜索结果匹配类型
type MatchType string

const (
	MatchExact    MatchType = "EXACT"
	MatchPartial  MatchType = "PARTIAL"
	MatchFuzzy    MatchType = "FUZZY"
	MatchSemantic MatchType = "SEMANTIC" // 兜底类型，无真实语义模型
)

// UniversalSearchQuery 联邦搜索请求
type UniversalSearchQuery struct {
	Query          string                 `json:"query"`
	Modules        []string               `json:"modules,omitempty"` // 为空时搜索全部已注册模块
	EntityTypes    []meta.EntityType      `json:"entity_types,omitempty"`
	Filters        map[string]interface{} `json:"filters,omitempty"`
	Limit          int                    `json:"limit,omitempty"`
	IncludeRelated bool                   `json:"include_related,omitempty"`
}

// SearchHighlight 命中片段，取首个匹配位置前后各20字符
type SearchHighlight struct {
	Field    string `json:"field"`
	Fragment string `json:"fragment"`
}

// SearchResult 单条搜索结果
type SearchResult struct {
	Entity         EntityRef              `json:"entity"`
	Module         string                 `json:"module"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	RelevanceScore float64                `json:"relevance_score"`
	MatchType      MatchType              `json:"match_type"`
	Highlights     []SearchHighlight      `json:"highlights,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
	LastUpdated    time.Time              `json:"last_updated"`
}

// FacetValue 分面取值及其计数
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SearchFacet 可分面字段在结果集上的取值分布
type SearchFacet struct {
	Field  string       `json:"field"`
	Values []FacetValue `json:"values"`
}

// SearchSuggestion 前缀补全建议
type SearchSuggestion struct {
	Text      string  `json:"text"`
	Relevance float64 `json:"relevance"`
}

// RelatedEntityGroup 按关系类型分组的关联实体
type RelatedEntityGroup struct {
	RelationshipType meta.RelationshipType `json:"relationship_type"`
	Relationships    []EntityRelationship  `json:"relationships"`
}

// SearchQualityMetrics 搜索质量聚合指标
type SearchQualityMetrics struct {
	Confidence   float64 `json:"confidence"`   // 平均相关度
	Completeness float64 `json:"completeness"` // min(结果数/limit, 1)
	Freshness    float64 `json:"freshness"`    // 1 - 平均缓存年龄/30天，下限0
	Accuracy     float64 `json:"accuracy"`
}

// UniversalSearchResult 联邦搜索响应
type UniversalSearchResult struct {
	Query           string               `json:"query"`
	Results         []SearchResult       `json:"results"`
	TotalCount      int                  `json:"total_count"`
	Facets          []SearchFacet        `json:"facets,omitempty"`
	Suggestions     []SearchSuggestion   `json:"suggestions,omitempty"`
	RelatedEntities []RelatedEntityGroup `json:"related_entities,omitempty"`
	Quality         SearchQualityMetrics `json:"quality"`
	SearchedModules []string             `json:"searched_modules"`
	Duration        time.Duration        `json:"duration"`
}
