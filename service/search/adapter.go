/*
 * @module service/search/adapter
 * @description 模块搜索适配器，以模块声明的可搜索字段包装查询引擎，产出带相关度评分的搜索结果和分面
 * @architecture 适配器模式 - 查询引擎之上的模块级评分层
 * @documentReference dev_docs/universal_search_req.md
 * @stateFlow 模块级查询 -> 字段加权评分 -> 匹配类型判定 -> 命中片段截取 -> 分面统计
 * @rules 相关度为命中字段权重之和并截断到1.0，不按字段数归一化；EXACT/PARTIAL按name字段判定，FUZZY阈值0.80，SEMANTIC为兜底
 * @dependencies datasync-service/service/datasync, datasync-service/service/models, github.com/spf13/cast
 * @refs service/search/orchestrator.go, service/datasync/query_engine.go
 */

package search

import (
	"sort"
	"strings"

	"github.com/spf13/cast"

	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// ModuleSearchAdapter 模块搜索适配器
type ModuleSearchAdapter struct {
	module      SearchModule
	queryEngine *datasync.QueryEngine
	syncService *datasync.SyncService
}

// NewModuleSearchAdapter 创建模块搜索适配器
func NewModuleSearchAdapter(module SearchModule, queryEngine *datasync.QueryEngine,
	syncService *datasync.SyncService) *ModuleSearchAdapter {

	return &ModuleSearchAdapter{
		module:      module,
		queryEngine: queryEngine,
		syncService: syncService,
	}
}

// Search 在模块范围内执行搜索，返回评分结果和模块内分面
func (a *ModuleSearchAdapter) Search(query *models.UniversalSearchQuery) ([]models.SearchResult, []models.SearchFacet, error) {
	results := make([]models.SearchResult, 0)

	for _, entityType := range a.targetEntityTypes(query) {
		moduleQuery := &models.CrossModuleQuery{
			EntityType:   entityType,
			Filters:      a.filterableFilters(query.Filters),
			SourceModule: a.module.Name(),
		}
		queryResult, err := a.queryEngine.QueryData(moduleQuery)
		if err != nil {
			return nil, nil, err
		}

		for _, row := range queryResult.Data {
			if result, ok := a.scoreRow(entityType, row, query.Query); ok {
				results = append(results, result)
			}
		}
	}

	return results, a.buildFacets(results), nil
}

// targetEntityTypes 模块支持的实体类型与请求声明类型的交集
func (a *ModuleSearchAdapter) targetEntityTypes(query *models.UniversalSearchQuery) []meta.EntityType {
	supported := a.module.SupportedEntityTypes()
	if len(query.EntityTypes) == 0 {
		return supported
	}

	requested := make(map[meta.EntityType]bool, len(query.EntityTypes))
	for _, entityType := range query.EntityTypes {
		requested[entityType] = true
	}

	result := make([]meta.EntityType, 0)
	for _, entityType := range supported {
		if requested[entityType] {
			result = append(result, entityType)
		}
	}
	return result
}

// filterableFilters 仅保留模块声明为可过滤字段的过滤条件
func (a *ModuleSearchAdapter) filterableFilters(filters map[string]interface{}) map[string]interface{} {
	if len(filters) == 0 {
		return nil
	}

	filterable := make(map[string]bool)
	for _, field := range a.module.SearchableFields() {
		if field.Filterable {
			filterable[field.Name] = true
		}
	}

	result := make(map[string]interface{})
	for field, value := range filters {
		if filterable[field] {
			result[field] = value
		}
	}
	return result
}

// scoreRow 对单行数据评分，相关度为零的行不产出结果
func (a *ModuleSearchAdapter) scoreRow(entityType meta.EntityType,
	row map[string]interface{}, queryText string) (models.SearchResult, bool) {

	lowerQuery := strings.ToLower(queryText)
	relevance := 0.0
	for _, field := range a.module.SearchableFields() {
		if !field.Searchable {
			continue
		}
		value := cast.ToString(row[field.Name])
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(value), lowerQuery) {
			relevance += field.Weight
		}
	}
	if relevance == 0 {
		return models.SearchResult{}, false
	}
	if relevance > 1.0 {
		relevance = 1.0
	}

	entityID := cast.ToString(row["id"])
	name := cast.ToString(row["name"])
	result := models.SearchResult{
		Entity:         models.EntityRef{Type: entityType, ID: entityID},
		Module:         a.module.Name(),
		Title:          name,
		Description:    cast.ToString(row["description"]),
		RelevanceScore: relevance,
		MatchType:      matchTypeFor(name, queryText),
		Highlights:     a.buildHighlights(row, queryText),
		Data:           row,
	}

	if indicator, ok := a.syncService.GetQualityIndicator(entityType, entityID); ok {
		result.LastUpdated = indicator.LastUpdated
	}
	return result, true
}

// matchTypeFor 按name字段判定匹配类型
func matchTypeFor(name, queryText string) models.MatchType {
	lowerName := strings.ToLower(name)
	lowerQuery := strings.ToLower(queryText)
	switch {
	case lowerName == lowerQuery:
		return models.MatchExact
	case strings.Contains(lowerName, lowerQuery):
		return models.MatchPartial
	case normalizedSimilarity(lowerName, lowerQuery) >= fuzzySimilarityThreshold:
		return models.MatchFuzzy
	default:
		return models.MatchSemantic
	}
}

// buildHighlights 为name和description字段各截取至多一个命中片段
func (a *ModuleSearchAdapter) buildHighlights(row map[string]interface{}, queryText string) []models.SearchHighlight {
	highlights := make([]models.SearchHighlight, 0, 2)
	for _, field := range []string{"name", "description"} {
		value := cast.ToString(row[field])
		if value == "" {
			continue
		}
		if fragment := buildHighlight(value, queryText); fragment != "" {
			highlights = append(highlights, models.SearchHighlight{Field: field, Fragment: fragment})
		}
	}
	return highlights
}

// buildFacets 对模块结果集按facetable字段统计取值分布
func (a *ModuleSearchAdapter) buildFacets(results []models.SearchResult) []models.SearchFacet {
	facets := make([]models.SearchFacet, 0)
	for _, field := range a.module.SearchableFields() {
		if !field.Facetable {
			continue
		}

		counts := make(map[string]int)
		for _, result := range results {
			value := cast.ToString(result.Data[field.Name])
			if value == "" {
				continue
			}
			counts[value]++
		}
		if len(counts) == 0 {
			continue
		}

		values := make([]models.FacetValue, 0, len(counts))
		for value, count := range counts {
			values = append(values, models.FacetValue{Value: value, Count: count})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})
		facets = append(facets, models.SearchFacet{Field: field.Name, Values: values})
	}
	return facets
}
