/*
 * @module service/navigation/navigation_service_test
 * @description 跨模块导航服务的单元测试
 * @architecture 单元测试 - 基于同步核心的关系边验证面包屑、建议排序和导航历史
 * @documentReference dev_docs/cross_module_navigation_req.md
 * @stateFlow 测试准备 -> 关系播种 -> 导航调用 -> 结果验证
 * @rules 覆盖面包屑人性化标签、建议加权排序截断、单步路由和滚动历史
 * @dependencies testing, testify
 * @refs navigation_service.go
 */

package navigation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/models"
)

func newNavigationFixture() (*NavigationService, *datasync.SyncService) {
	syncService := datasync.NewSyncService(datasync.NewMemoryStore())
	return NewNavigationService(syncService), syncService
}

func TestNavigationService_BuildContextualBreadcrumbs(t *testing.T) {
	service, _ := newNavigationFixture()

	entity := &models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc1"}
	breadcrumbs := service.BuildContextualBreadcrumbs("/portfolio/portfolio-companies/pc-1", entity)

	require.Len(t, breadcrumbs, 3)

	assert.Equal(t, "Portfolio", breadcrumbs[0].Label)
	assert.Equal(t, "/portfolio", breadcrumbs[0].Path)
	assert.False(t, breadcrumbs[0].Active)
	assert.Nil(t, breadcrumbs[0].Entity)

	// 连字符转空格并标题化
	assert.Equal(t, "Portfolio Companies", breadcrumbs[1].Label)
	assert.Equal(t, "/portfolio/portfolio-companies", breadcrumbs[1].Path)

	// 末节点激活并附加实体上下文
	assert.Equal(t, "Pc 1", breadcrumbs[2].Label)
	assert.Equal(t, "/portfolio/portfolio-companies/pc-1", breadcrumbs[2].Path)
	assert.True(t, breadcrumbs[2].Active)
	assert.Equal(t, entity, breadcrumbs[2].Entity)
}

func TestNavigationService_BuildContextualBreadcrumbs_UnderscoreSegments(t *testing.T) {
	service, _ := newNavigationFixture()

	breadcrumbs := service.BuildContextualBreadcrumbs("/deal_pipeline", nil)
	require.Len(t, breadcrumbs, 1)
	assert.Equal(t, "Deal Pipeline", breadcrumbs[0].Label)
	assert.True(t, breadcrumbs[0].Active)
}

func TestNavigationService_BuildContextualBreadcrumbs_EmptyPath(t *testing.T) {
	service, _ := newNavigationFixture()

	assert.Empty(t, service.BuildContextualBreadcrumbs("", nil))
	assert.Empty(t, service.BuildContextualBreadcrumbs("/", nil))
}

func TestNavigationService_GetSmartSuggestions_RelatedEntities(t *testing.T) {
	service, syncService := newNavigationFixture()

	require.NoError(t, syncService.Publish(&models.DataSyncEvent{
		EntityType:   meta.EntityTypeInvestment,
		EntityID:     "i1",
		EventType:    meta.EventTypeCreate,
		SourceModule: "portfolio",
		Data: map[string]interface{}{
			"id": "i1", "name": "A轮投资", "fundId": "f1",
			"updatedAt": time.Now().Format(time.RFC3339),
		},
	}))

	suggestions := service.GetSmartSuggestions(&models.NavigationContext{
		CurrentPath:   "/investments/i1",
		CurrentEntity: &models.EntityRef{Type: meta.EntityTypeInvestment, ID: "i1"},
	})

	require.Len(t, suggestions, 1)
	suggestion := suggestions[0]
	assert.Equal(t, models.SuggestionRelatedEntity, suggestion.Type)
	assert.Equal(t, "/funds/f1", suggestion.Path)
	assert.Equal(t, models.PriorityMedium, suggestion.Priority)
	assert.InDelta(t, 0.9, suggestion.Relevance, 1e-9)
	assert.Equal(t, string(meta.RelationshipBelongsTo), suggestion.Reason)
}

func TestNavigationService_GetSmartSuggestions_DecisionStepsPassThrough(t *testing.T) {
	service, _ := newNavigationFixture()

	step := models.NavigationSuggestion{
		Type:      models.SuggestionNextStep,
		Label:     "完成尽职调查",
		Path:      "/deals/d1/diligence",
		Priority:  models.PriorityHigh,
		Relevance: 0.9,
	}
	suggestions := service.GetSmartSuggestions(&models.NavigationContext{
		CurrentPath:   "/deals/d1",
		DecisionSteps: []models.NavigationSuggestion{step},
	})

	require.Len(t, suggestions, 1)
	assert.Equal(t, step, suggestions[0])
}

func TestNavigationService_GetSmartSuggestions_SortAndCap(t *testing.T) {
	service, _ := newNavigationFixture()

	steps := make([]models.NavigationSuggestion, 0, 12)
	// 一条高优先级建议和11条低优先级建议
	steps = append(steps, models.NavigationSuggestion{
		Type: models.SuggestionNextStep, Label: "高优先级",
		Priority: models.PriorityHigh, Relevance: 0.5,
	})
	for i := 0; i < 11; i++ {
		steps = append(steps, models.NavigationSuggestion{
			Type: models.SuggestionNextStep, Label: fmt.Sprintf("低优先级%d", i),
			Priority: models.PriorityLow, Relevance: 0.5,
		})
	}

	suggestions := service.GetSmartSuggestions(&models.NavigationContext{DecisionSteps: steps})

	// 按优先级权重乘相关度排序并截断到10条
	require.Len(t, suggestions, 10)
	assert.Equal(t, "高优先级", suggestions[0].Label)
}

func TestNavigationService_GetSmartSuggestions_NilContext(t *testing.T) {
	service, _ := newNavigationFixture()

	assert.Empty(t, service.GetSmartSuggestions(nil))
}

func TestNavigationService_GetOptimalPath(t *testing.T) {
	service, _ := newNavigationFixture()

	route := service.GetOptimalPath("/funds/f1", "/portfolio-companies/pc-1")

	assert.Equal(t, "/funds/f1", route.From)
	assert.Equal(t, "/portfolio-companies/pc-1", route.To)
	// 当前为单步直达
	require.Len(t, route.Steps, 1)
	assert.Equal(t, "/portfolio-companies/pc-1", route.Steps[0].Path)
	assert.Equal(t, "Pc 1", route.Steps[0].Label)
}

func TestNavigationService_RecordNavigationAndHistory(t *testing.T) {
	service, _ := newNavigationFixture()

	service.RecordNavigation(models.NavigationHistoryEntry{Path: "/funds/f1"})
	service.RecordNavigation(models.NavigationHistoryEntry{
		Path:      "/deals/d1",
		VisitedAt: time.Now().Add(-time.Hour),
	})

	history := service.History()
	require.Len(t, history, 2)
	assert.Equal(t, "/funds/f1", history[0].Path)
	// 未填时间戳时补全
	assert.False(t, history[0].VisitedAt.IsZero())
	assert.Equal(t, "/deals/d1", history[1].Path)
}

func TestNavigationService_GetNavigationInsights_Placeholders(t *testing.T) {
	service, _ := newNavigationFixture()
	service.RecordNavigation(models.NavigationHistoryEntry{Path: "/funds/f1"})

	insights := service.GetNavigationInsights()

	// 分析挂载点为空实现，各项为空但非nil
	assert.NotNil(t, insights.PopularPaths)
	assert.Empty(t, insights.PopularPaths)
	assert.NotNil(t, insights.FrequentEntities)
	assert.Empty(t, insights.FrequentEntities)
	assert.NotNil(t, insights.SuggestedShortcut)
	assert.Empty(t, insights.SuggestedShortcut)
	assert.False(t, insights.GeneratedAt.IsZero())
}

func TestEntityPath(t *testing.T) {
	tests := []struct {
		name     string
		entity   models.EntityRef
		expected string
	}{
		{
			name:     "已映射类型",
			entity:   models.EntityRef{Type: meta.EntityTypeFund, ID: "f1"},
			expected: "/funds/f1",
		},
		{
			name:     "未映射类型使用通用前缀",
			entity:   models.EntityRef{Type: "UNKNOWN", ID: "x1"},
			expected: "/entities/x1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EntityPath(tt.entity))
		})
	}
}
