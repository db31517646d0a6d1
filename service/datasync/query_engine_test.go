/*
 * @module service/datasync/query_engine_test
 * @description 跨模块查询引擎的单元测试
 * @architecture 单元测试 - 基于内存存储验证过滤、排序、截断和质量聚合
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 测试准备 -> 缓存播种 -> 查询执行 -> 结果验证
 * @rules 覆盖数组过滤、数值与字典序排序、totalCount语义和最差值聚合
 * @dependencies testing, testify
 * @refs query_engine.go
 */

package datasync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

func seedCompany(store *MemoryStore, id, sector string, revenue float64) {
	store.SetEntity(models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: id},
		map[string]interface{}{"id": id, "name": "公司" + id, "sector": sector, "revenue": revenue})
}

func TestQueryEngine_QueryData_Validation(t *testing.T) {
	engine := NewQueryEngine(NewMemoryStore())

	_, err := engine.QueryData(nil)
	assert.Error(t, err)

	_, err = engine.QueryData(&models.CrossModuleQuery{EntityType: "BOGUS"})
	assert.Error(t, err)
}

func TestQueryEngine_QueryData_Filters(t *testing.T) {
	store := NewMemoryStore()
	engine := NewQueryEngine(store)
	seedCompany(store, "pc1", "SaaS", 100)
	seedCompany(store, "pc2", "Fintech", 200)
	seedCompany(store, "pc3", "SaaS", 300)

	tests := []struct {
		name        string
		filters     map[string]interface{}
		expectedIDs []string
	}{
		{
			name:        "精确匹配",
			filters:     map[string]interface{}{"sector": "SaaS"},
			expectedIDs: []string{"pc1", "pc3"},
		},
		{
			name:        "数组过滤为成员关系",
			filters:     map[string]interface{}{"sector": []interface{}{"SaaS", "Fintech"}},
			expectedIDs: []string{"pc1", "pc2", "pc3"},
		},
		{
			name:        "数值过滤按字符串化比较",
			filters:     map[string]interface{}{"revenue": 200},
			expectedIDs: []string{"pc2"},
		},
		{
			name:        "字符串形式的数值过滤同样命中",
			filters:     map[string]interface{}{"revenue": "200"},
			expectedIDs: []string{"pc2"},
		},
		{
			name:        "无匹配",
			filters:     map[string]interface{}{"sector": "Healthcare"},
			expectedIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.QueryData(&models.CrossModuleQuery{
				EntityType: meta.EntityTypePortfolioCompany,
				Filters:    tt.filters,
			})
			require.NoError(t, err)

			ids := make([]string, 0, len(result.Data))
			for _, row := range result.Data {
				ids = append(ids, row["id"].(string))
			}
			assert.ElementsMatch(t, tt.expectedIDs, ids)
			assert.Equal(t, len(tt.expectedIDs), result.Metadata.TotalCount)
		})
	}
}

func TestQueryEngine_QueryData_SortAndLimit(t *testing.T) {
	store := NewMemoryStore()
	engine := NewQueryEngine(store)
	seedCompany(store, "pc1", "SaaS", 300)
	seedCompany(store, "pc2", "SaaS", 100)
	seedCompany(store, "pc3", "SaaS", 200)

	result, err := engine.QueryData(&models.CrossModuleQuery{
		EntityType: meta.EntityTypePortfolioCompany,
		Sort:       "revenue",
		Limit:      2,
	})
	require.NoError(t, err)

	// 数值升序排序后截断，totalCount为截断前总数
	require.Len(t, result.Data, 2)
	assert.Equal(t, "pc2", result.Data[0]["id"])
	assert.Equal(t, "pc3", result.Data[1]["id"])
	assert.Equal(t, 3, result.Metadata.TotalCount)
}

func TestQueryEngine_QueryData_LexicalSort(t *testing.T) {
	store := NewMemoryStore()
	engine := NewQueryEngine(store)
	seedCompany(store, "pc1", "SaaS", 0)
	seedCompany(store, "pc2", "Fintech", 0)

	result, err := engine.QueryData(&models.CrossModuleQuery{
		EntityType: meta.EntityTypePortfolioCompany,
		Sort:       "sector",
	})
	require.NoError(t, err)

	require.Len(t, result.Data, 2)
	assert.Equal(t, "Fintech", result.Data[0]["sector"])
	assert.Equal(t, "SaaS", result.Data[1]["sector"])
}

func TestQueryEngine_QueryData_AggregateQuality(t *testing.T) {
	store := NewMemoryStore()
	engine := NewQueryEngine(store)
	now := time.Now()

	seedCompany(store, "pc1", "SaaS", 100)
	seedCompany(store, "pc2", "SaaS", 200)

	store.SetQuality("PORTFOLIO_COMPANY:pc1", &models.DataQualityIndicator{
		LastUpdated:      now.Add(-time.Hour),
		Source:           "portfolio",
		Freshness:        meta.FreshnessRealTime,
		Accuracy:         1.0,
		Completeness:     0.8,
		Consistency:      1.0,
		ValidationStatus: meta.ValidationValidated,
		Warnings:         []string{"缺少字段: updatedAt"},
	})
	store.SetQuality("PORTFOLIO_COMPANY:pc2", &models.DataQualityIndicator{
		LastUpdated:      now,
		Source:           "deal-pipeline",
		Freshness:        meta.FreshnessDays,
		Accuracy:         0.6,
		Completeness:     0.6,
		Consistency:      0.5,
		ValidationStatus: meta.ValidationError,
		Warnings:         []string{"缺少字段: updatedAt"},
		Errors:           []string{"校验失败"},
	})

	result, err := engine.QueryData(&models.CrossModuleQuery{
		EntityType: meta.EntityTypePortfolioCompany,
	})
	require.NoError(t, err)

	quality := result.Metadata.Quality
	require.NotNil(t, quality)

	// 新鲜度与校验状态取最差，评分取平均
	assert.Equal(t, meta.FreshnessDays, quality.Freshness)
	assert.Equal(t, meta.ValidationError, quality.ValidationStatus)
	assert.InDelta(t, 0.8, quality.Accuracy, 1e-9)
	assert.InDelta(t, 0.7, quality.Completeness, 1e-9)
	assert.InDelta(t, 0.75, quality.Consistency, 1e-9)
	assert.True(t, quality.LastUpdated.Equal(now))

	// 警告去重合并
	assert.Equal(t, []string{"缺少字段: updatedAt"}, quality.Warnings)
	assert.Equal(t, []string{"校验失败"}, quality.Errors)

	// 来源模块去重并排序
	assert.Equal(t, []string{"deal-pipeline", "portfolio"}, result.Metadata.Sources)
}

func TestQueryEngine_QueryData_NoQualityIndicators(t *testing.T) {
	store := NewMemoryStore()
	engine := NewQueryEngine(store)
	seedCompany(store, "pc1", "SaaS", 100)

	result, err := engine.QueryData(&models.CrossModuleQuery{
		EntityType: meta.EntityTypePortfolioCompany,
	})
	require.NoError(t, err)

	assert.Nil(t, result.Metadata.Quality)
	assert.Empty(t, result.Metadata.Sources)
}
