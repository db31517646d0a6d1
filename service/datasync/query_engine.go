/*
 * @module service/datasync/query_engine
 * @description 跨模块查询引擎，对实体缓存执行过滤、排序、截断查询，并聚合返回行的质量指标
 * @architecture 分层架构 - 查询服务层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 查询请求 -> 缓存扫描 -> 过滤 -> 排序 -> 截断 -> 质量聚合
 * @rules 模块级故障不抛出异常，仅根本性非法请求返回错误；totalCount为截断前的匹配总数
 * @dependencies datasync-service/service/models, datasync-service/service/meta, github.com/spf13/cast
 * @refs service/datasync/sync_service.go, service/search/adapter.go
 */

package datasync

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// QueryEngine 跨模块查询引擎
type QueryEngine struct {
	store Store
}

// NewQueryEngine 创建查询引擎实例
func NewQueryEngine(store Store) *QueryEngine {
	return &QueryEngine{store: store}
}

// QueryData 执行跨模块数据查询
func (q *QueryEngine) QueryData(query *models.CrossModuleQuery) (*models.CrossModuleQueryResult, error) {
	if query == nil {
		return nil, fmt.Errorf("查询请求不能为空")
	}
	if !meta.IsValidEntityType(query.EntityType) {
		return nil, fmt.Errorf("未知的实体类型: %s", query.EntityType)
	}

	matched := make([]*CachedEntity, 0)
	for _, cached := range q.store.EntitiesByType(query.EntityType) {
		if q.matchesFilters(cached.Data, query.Filters) {
			matched = append(matched, cached)
		}
	}

	if query.Sort != "" {
		sortField := query.Sort
		sort.SliceStable(matched, func(i, j int) bool {
			return compareFieldValues(matched[i].Data[sortField], matched[j].Data[sortField])
		})
	}

	totalCount := len(matched)
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}

	data := make([]map[string]interface{}, 0, len(matched))
	for _, cached := range matched {
		data = append(data, cached.Data)
	}

	return &models.CrossModuleQueryResult{
		Data: data,
		Metadata: models.QueryMetadata{
			TotalCount: totalCount,
			Sources:    q.collectSources(matched),
			Quality:    q.aggregateQuality(matched),
		},
	}, nil
}

// matchesFilters 按字段过滤：过滤值为数组时检查成员关系，否则精确匹配。
// 精确匹配经cast.ToString归一化后比较，JSON反序列化产生的数值与字符串形式（如 1 与 "1"）视为相等
func (q *QueryEngine) matchesFilters(data, filters map[string]interface{}) bool {
	for field, expected := range filters {
		actual := data[field]
		if values, ok := toValueList(expected); ok {
			if !containsValue(values, actual) {
				return false
			}
			continue
		}
		if cast.ToString(actual) != cast.ToString(expected) {
			return false
		}
	}
	return true
}

// collectSources 收集返回行的去重来源模块
func (q *QueryEngine) collectSources(entities []*CachedEntity) []string {
	seen := make(map[string]bool)
	sources := make([]string, 0)
	for _, cached := range entities {
		indicator, ok := q.store.GetQuality(cached.Entity.CacheKey())
		if !ok || indicator.Source == "" || seen[indicator.Source] {
			continue
		}
		seen[indicator.Source] = true
		sources = append(sources, indicator.Source)
	}
	sort.Strings(sources)
	return sources
}

// aggregateQuality 聚合返回行的质量指标
// 新鲜度取最陈旧值，评分取算术平均，校验状态按 VALIDATED < PENDING < STALE < ERROR 取最差，警告和错误去重合并
func (q *QueryEngine) aggregateQuality(entities []*CachedEntity) *models.DataQualityIndicator {
	indicators := make([]*models.DataQualityIndicator, 0, len(entities))
	for _, cached := range entities {
		if indicator, ok := q.store.GetQuality(cached.Entity.CacheKey()); ok {
			indicators = append(indicators, indicator)
		}
	}
	if len(indicators) == 0 {
		return nil
	}

	aggregate := &models.DataQualityIndicator{
		Freshness:        meta.FreshnessRealTime,
		ValidationStatus: meta.ValidationValidated,
		Warnings:         make([]string, 0),
		Errors:           make([]string, 0),
	}

	seenWarnings := make(map[string]bool)
	seenErrors := make(map[string]bool)
	for _, indicator := range indicators {
		if meta.FreshnessRank(indicator.Freshness) > meta.FreshnessRank(aggregate.Freshness) {
			aggregate.Freshness = indicator.Freshness
		}
		if meta.ValidationRank(indicator.ValidationStatus) > meta.ValidationRank(aggregate.ValidationStatus) {
			aggregate.ValidationStatus = indicator.ValidationStatus
		}
		if indicator.LastUpdated.After(aggregate.LastUpdated) {
			aggregate.LastUpdated = indicator.LastUpdated
		}
		aggregate.Accuracy += indicator.Accuracy
		aggregate.Completeness += indicator.Completeness
		aggregate.Consistency += indicator.Consistency

		for _, warning := range indicator.Warnings {
			if !seenWarnings[warning] {
				seenWarnings[warning] = true
				aggregate.Warnings = append(aggregate.Warnings, warning)
			}
		}
		for _, err := range indicator.Errors {
			if !seenErrors[err] {
				seenErrors[err] = true
				aggregate.Errors = append(aggregate.Errors, err)
			}
		}
	}

	count := float64(len(indicators))
	aggregate.Accuracy /= count
	aggregate.Completeness /= count
	aggregate.Consistency /= count
	return aggregate
}

// compareFieldValues 升序比较：两侧均可转数值时按数值比较，否则按字典序
func compareFieldValues(a, b interface{}) bool {
	aNumber, aErr := cast.ToFloat64E(a)
	bNumber, bErr := cast.ToFloat64E(b)
	if aErr == nil && bErr == nil {
		return aNumber < bNumber
	}
	return cast.ToString(a) < cast.ToString(b)
}

// toValueList 将过滤值规整为列表，仅数组类过滤值返回true
func toValueList(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		values := make([]interface{}, len(v))
		for i, s := range v {
			values[i] = s
		}
		return values, true
	default:
		return nil, false
	}
}

// containsValue 判断值是否在列表中
func containsValue(values []interface{}, actual interface{}) bool {
	for _, value := range values {
		if cast.ToString(actual) == cast.ToString(value) {
			return true
		}
	}
	return false
}
