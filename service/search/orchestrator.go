/*
 * @module service/search/orchestrator
 * @description 联邦搜索编排器，将搜索请求并发扇出到各模块适配器，合并排序结果并生成分面、补全建议、关联实体和搜索质量指标
 * @architecture 编排器模式 - 并发扇出 + 结果归并
 * @documentReference dev_docs/universal_search_req.md
 * @stateFlow 搜索请求 -> 模块并发扇出 -> 结果合并排序截断 -> 分面合并 -> 建议生成 -> 质量聚合
 * @rules 单个模块失败或panic仅使其结果为空，不影响整体搜索；调用方可假定模块级故障不抛出异常
 * @dependencies datasync-service/service/datasync, datasync-service/service/models
 * @refs service/search/adapter.go, service/search/registry.go
 */

package search

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// 搜索默认参数
const (
	defaultSearchLimit   = 20
	maxSuggestions       = 10
	relatedEntityTopN    = 5
	freshnessWindowHours = 30 * 24 // 搜索新鲜度的30天窗口
)

// SearchService 联邦搜索编排器
type SearchService struct {
	registry    *ModuleRegistry
	queryEngine *datasync.QueryEngine
	syncService *datasync.SyncService
}

// NewSearchService 创建联邦搜索编排器
func NewSearchService(registry *ModuleRegistry, queryEngine *datasync.QueryEngine,
	syncService *datasync.SyncService) *SearchService {

	return &SearchService{
		registry:    registry,
		queryEngine: queryEngine,
		syncService: syncService,
	}
}

// Registry 返回模块注册表
func (s *SearchService) Registry() *ModuleRegistry {
	return s.registry
}

// SearchAcrossModules 跨模块联邦搜索。
// 空白查询串不扫描任何模块，返回空结果集但仍填充目标模块列表，供调用方枚举可搜索模块
func (s *SearchService) SearchAcrossModules(query *models.UniversalSearchQuery) (*models.UniversalSearchResult, error) {
	if query == nil {
		return nil, fmt.Errorf("搜索请求不能为空")
	}

	startTime := time.Now()
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	result := &models.UniversalSearchResult{
		Query:           query.Query,
		Results:         make([]models.SearchResult, 0),
		SearchedModules: make([]string, 0),
	}

	modules := s.targetModules(query)
	for _, module := range modules {
		result.SearchedModules = append(result.SearchedModules, module.Name())
	}

	// 空查询不扫描任何模块，直接返回空结果
	if strings.TrimSpace(query.Query) == "" {
		result.Duration = time.Since(startTime)
		return result, nil
	}

	moduleResults, moduleFacets := s.fanOut(modules, query)

	merged := make([]models.SearchResult, 0)
	for _, results := range moduleResults {
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})

	result.TotalCount = len(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	result.Results = merged
	result.Facets = mergeFacets(moduleFacets)
	result.Suggestions = buildSuggestions(merged, query.Query)
	if query.IncludeRelated {
		result.RelatedEntities = s.collectRelatedEntities(merged)
	}
	result.Quality = s.computeSearchQuality(merged, limit)
	result.Duration = time.Since(startTime)

	return result, nil
}

// targetModules 请求指定的模块列表，为空时取全部注册模块
func (s *SearchService) targetModules(query *models.UniversalSearchQuery) []SearchModule {
	if len(query.Modules) == 0 {
		return s.registry.All()
	}

	modules := make([]SearchModule, 0, len(query.Modules))
	for _, name := range query.Modules {
		if module, ok := s.registry.Get(name); ok {
			modules = append(modules, module)
		}
	}
	return modules
}

// fanOut 并发扇出到各模块适配器，失败模块仅贡献空结果
func (s *SearchService) fanOut(modules []SearchModule,
	query *models.UniversalSearchQuery) (map[string][]models.SearchResult, map[string][]models.SearchFacet) {

	var mu sync.Mutex
	var wg sync.WaitGroup
	moduleResults := make(map[string][]models.SearchResult, len(modules))
	moduleFacets := make(map[string][]models.SearchFacet, len(modules))

	for _, module := range modules {
		wg.Add(1)
		go func(module SearchModule) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("模块搜索panic", "module", module.Name(), "panic", r)
				}
			}()

			adapter := NewModuleSearchAdapter(module, s.queryEngine, s.syncService)
			results, facets, err := adapter.Search(query)
			if err != nil {
				slog.Error("模块搜索失败", "module", module.Name(), "error", err)
				return
			}

			mu.Lock()
			moduleResults[module.Name()] = results
			moduleFacets[module.Name()] = facets
			mu.Unlock()
		}(module)
	}
	wg.Wait()

	return moduleResults, moduleFacets
}

// mergeFacets 按字段名合并各模块分面：计数求和，取值求并
func mergeFacets(moduleFacets map[string][]models.SearchFacet) []models.SearchFacet {
	counts := make(map[string]map[string]int)
	fieldOrder := make([]string, 0)

	moduleNames := make([]string, 0, len(moduleFacets))
	for name := range moduleFacets {
		moduleNames = append(moduleNames, name)
	}
	sort.Strings(moduleNames)

	for _, moduleName := range moduleNames {
		for _, facet := range moduleFacets[moduleName] {
			if counts[facet.Field] == nil {
				counts[facet.Field] = make(map[string]int)
				fieldOrder = append(fieldOrder, facet.Field)
			}
			for _, value := range facet.Values {
				counts[facet.Field][value.Value] += value.Count
			}
		}
	}

	merged := make([]models.SearchFacet, 0, len(fieldOrder))
	for _, field := range fieldOrder {
		values := make([]models.FacetValue, 0, len(counts[field]))
		for value, count := range counts[field] {
			values = append(values, models.FacetValue{Value: value, Count: count})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})
		merged = append(merged, models.SearchFacet{Field: field, Values: values})
	}
	return merged
}

// buildSuggestions 从结果标题生成前缀补全建议，按字面文本去重，按来源结果相关度排序
func buildSuggestions(results []models.SearchResult, queryText string) []models.SearchSuggestion {
	lowerQuery := strings.ToLower(queryText)
	seen := make(map[string]bool)
	suggestions := make([]models.SearchSuggestion, 0)

	for _, result := range results {
		title := result.Title
		if title == "" || seen[title] {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(title), lowerQuery) {
			continue
		}
		seen[title] = true
		suggestions = append(suggestions, models.SearchSuggestion{
			Text:      title,
			Relevance: result.RelevanceScore,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Relevance > suggestions[j].Relevance
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// collectRelatedEntities 取前5条结果的关系边，按关系类型分组
func (s *SearchService) collectRelatedEntities(results []models.SearchResult) []models.RelatedEntityGroup {
	topN := relatedEntityTopN
	if len(results) < topN {
		topN = len(results)
	}

	grouped := make(map[meta.RelationshipType][]models.EntityRelationship)
	typeOrder := make([]meta.RelationshipType, 0)
	for _, result := range results[:topN] {
		for _, relationship := range s.syncService.GetRelatedEntities(result.Entity.Type, result.Entity.ID) {
			if _, exists := grouped[relationship.RelationshipType]; !exists {
				typeOrder = append(typeOrder, relationship.RelationshipType)
			}
			grouped[relationship.RelationshipType] = append(grouped[relationship.RelationshipType], relationship)
		}
	}

	groups := make([]models.RelatedEntityGroup, 0, len(typeOrder))
	for _, relationshipType := range typeOrder {
		groups = append(groups, models.RelatedEntityGroup{
			RelationshipType: relationshipType,
			Relationships:    grouped[relationshipType],
		})
	}
	return groups
}

// computeSearchQuality 聚合搜索质量指标
func (s *SearchService) computeSearchQuality(results []models.SearchResult, limit int) models.SearchQualityMetrics {
	quality := models.SearchQualityMetrics{}
	if len(results) == 0 {
		return quality
	}

	now := time.Now()
	totalRelevance := 0.0
	totalAgeHours := 0.0
	agedCount := 0
	for _, result := range results {
		totalRelevance += result.RelevanceScore
		if !result.LastUpdated.IsZero() {
			totalAgeHours += now.Sub(result.LastUpdated).Hours()
			agedCount++
		}
	}

	quality.Confidence = totalRelevance / float64(len(results))
	quality.Accuracy = quality.Confidence
	quality.Completeness = float64(len(results)) / float64(limit)
	if quality.Completeness > 1 {
		quality.Completeness = 1
	}

	quality.Freshness = 1.0
	if agedCount > 0 {
		meanAgeHours := totalAgeHours / float64(agedCount)
		quality.Freshness = 1.0 - meanAgeHours/freshnessWindowHours
		if quality.Freshness < 0 {
			quality.Freshness = 0
		}
	}
	return quality
}
