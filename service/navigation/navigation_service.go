/*
 * @module service/navigation/navigation_service
 * @description 跨模块导航服务，提供上下文面包屑、智能导航建议、最优路径和导航洞察
 * @architecture 分层架构 - 业务服务层，消费关系发现结果和滚动导航历史
 * @documentReference dev_docs/cross_module_navigation_req.md
 * @stateFlow 导航上下文 -> 关系建议/决策透传/热门目的地 -> 优先级加权排序 -> 截断
 * @rules 建议列表按优先级权重乘相关度排序并截断到10条；热门路径分析为空实现扩展点，不得臆造算法；最优路径当前仅支持单步直达
 * @dependencies datasync-service/service/datasync, datasync-service/service/models, golang.org/x/text
 * @refs service/datasync/relationship_discoverer.go, service/models/navigation_models.go
 */

package navigation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// maxSuggestions 导航建议最大条数
const maxSuggestions = 10

// NavigationAnalyzer 导航历史分析扩展点，当前无默认实现
type NavigationAnalyzer interface {
	// AnalyzePopularPaths 分析热门访问路径
	AnalyzePopularPaths(history []models.NavigationHistoryEntry) []models.PopularPath
	// PopularDestinations 从历史中提取热门目的地建议
	PopularDestinations(history []models.NavigationHistoryEntry) []models.NavigationSuggestion
	// ResolveAmbiguous 消解指向多个目标的模糊导航请求
	ResolveAmbiguous(query string, history []models.NavigationHistoryEntry) (string, bool)
}

// noopAnalyzer 空实现占位，保留分析挂载点
type noopAnalyzer struct{}

func (noopAnalyzer) AnalyzePopularPaths([]models.NavigationHistoryEntry) []models.PopularPath {
	return []models.PopularPath{}
}

func (noopAnalyzer) PopularDestinations([]models.NavigationHistoryEntry) []models.NavigationSuggestion {
	return []models.NavigationSuggestion{}
}

func (noopAnalyzer) ResolveAmbiguous(string, []models.NavigationHistoryEntry) (string, bool) {
	return "", false
}

// entityPathPrefixes 实体类型到前端路由前缀的映射
var entityPathPrefixes = map[meta.EntityType]string{
	meta.EntityTypeFund:             "/funds",
	meta.EntityTypePortfolioCompany: "/portfolio-companies",
	meta.EntityTypeInvestment:       "/investments",
	meta.EntityTypeLPOrganization:   "/lp-organizations",
	meta.EntityTypeDeal:             "/deals",
	meta.EntityTypeDocument:         "/documents",
	meta.EntityTypeContact:          "/contacts",
	meta.EntityTypeUser:             "/users",
}

// NavigationService 跨模块导航服务
type NavigationService struct {
	syncService *datasync.SyncService
	analyzer    NavigationAnalyzer
	titleCaser  cases.Caser

	mu      sync.RWMutex
	history []models.NavigationHistoryEntry
}

// NewNavigationService 创建导航服务实例
func NewNavigationService(syncService *datasync.SyncService) *NavigationService {
	return &NavigationService{
		syncService: syncService,
		analyzer:    noopAnalyzer{},
		titleCaser:  cases.Title(language.English),
		history:     make([]models.NavigationHistoryEntry, 0),
	}
}

// SetAnalyzer 替换导航历史分析实现
func (s *NavigationService) SetAnalyzer(analyzer NavigationAnalyzer) {
	if analyzer != nil {
		s.analyzer = analyzer
	}
}

// BuildContextualBreadcrumbs 构建上下文面包屑
// 路径逐段生成面包屑，标签做连字符转空格和标题大小写处理，末节点附加实体上下文
func (s *NavigationService) BuildContextualBreadcrumbs(path string,
	entityContext *models.EntityRef) []models.NavigationBreadcrumb {

	segments := splitPath(path)
	breadcrumbs := make([]models.NavigationBreadcrumb, 0, len(segments))

	prefix := ""
	for i, segment := range segments {
		prefix += "/" + segment
		breadcrumb := models.NavigationBreadcrumb{
			Label: s.humanizeSegment(segment),
			Path:  prefix,
		}
		if i == len(segments)-1 {
			breadcrumb.Active = true
			breadcrumb.Entity = entityContext
		}
		breadcrumbs = append(breadcrumbs, breadcrumb)
	}
	return breadcrumbs
}

// GetSmartSuggestions 生成智能导航建议
// 合并关系边建议、协作方决策步骤透传和热门目的地，按优先级权重乘相关度排序并截断
func (s *NavigationService) GetSmartSuggestions(ctx *models.NavigationContext) []models.NavigationSuggestion {
	suggestions := make([]models.NavigationSuggestion, 0)

	if ctx != nil && ctx.CurrentEntity != nil {
		suggestions = append(suggestions, s.relatedEntitySuggestions(*ctx.CurrentEntity)...)
	}
	if ctx != nil {
		suggestions = append(suggestions, ctx.DecisionSteps...)
	}
	suggestions = append(suggestions, s.analyzer.PopularDestinations(s.History())...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return models.PriorityWeight(suggestions[i].Priority)*suggestions[i].Relevance >
			models.PriorityWeight(suggestions[j].Priority)*suggestions[j].Relevance
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// relatedEntitySuggestions 为当前实体的每条关系边生成一条建议，相关度取边权重
func (s *NavigationService) relatedEntitySuggestions(entity models.EntityRef) []models.NavigationSuggestion {
	relationships := s.syncService.GetRelatedEntities(entity.Type, entity.ID)
	suggestions := make([]models.NavigationSuggestion, 0, len(relationships))

	for _, relationship := range relationships {
		target := relationship.ToEntity
		suggestions = append(suggestions, models.NavigationSuggestion{
			Type:      models.SuggestionRelatedEntity,
			Label:     fmt.Sprintf("查看关联%s", target.Type),
			Path:      EntityPath(target),
			Entity:    &target,
			Priority:  models.PriorityMedium,
			Relevance: relationship.Strength,
			Reason:    string(relationship.RelationshipType),
		})
	}
	return suggestions
}

// GetOptimalPath 计算导航路由，当前为单步直达，未实现多跳寻路
func (s *NavigationService) GetOptimalPath(from, to string) *models.NavigationRoute {
	return &models.NavigationRoute{
		From: from,
		To:   to,
		Steps: []models.NavigationStep{
			{
				Path:  to,
				Label: s.humanizeSegment(lastSegment(to)),
			},
		},
	}
}

// GetNavigationInsights 获取导航洞察，当前各分析项均为空占位
func (s *NavigationService) GetNavigationInsights() *models.NavigationInsights {
	history := s.History()
	return &models.NavigationInsights{
		PopularPaths:      s.analyzer.AnalyzePopularPaths(history),
		FrequentEntities:  []models.EntityRef{},
		SuggestedShortcut: s.analyzer.PopularDestinations(history),
		GeneratedAt:       time.Now(),
	}
}

// RecordNavigation 记录一次导航访问，历史超出容量时丢弃最旧记录
func (s *NavigationService) RecordNavigation(entry models.NavigationHistoryEntry) {
	if entry.VisitedAt.IsZero() {
		entry.VisitedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
	if len(s.history) > meta.NavigationHistoryLimit {
		s.history = s.history[len(s.history)-meta.NavigationHistoryLimit:]
	}
}

// History 获取导航历史副本
func (s *NavigationService) History() []models.NavigationHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.NavigationHistoryEntry, len(s.history))
	copy(result, s.history)
	return result
}

// EntityPath 实体的前端路由路径
func EntityPath(entity models.EntityRef) string {
	prefix, ok := entityPathPrefixes[entity.Type]
	if !ok {
		prefix = "/entities"
	}
	return prefix + "/" + entity.ID
}

// humanizeSegment 路径段转可读标签：连字符和下划线转空格后做标题大小写
func (s *NavigationService) humanizeSegment(segment string) string {
	label := strings.ReplaceAll(segment, "-", " ")
	label = strings.ReplaceAll(label, "_", " ")
	return s.titleCaser.String(label)
}

// splitPath 拆分路径为非空段
func splitPath(path string) []string {
	segments := make([]string, 0)
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// lastSegment 取路径的最后一段
func lastSegment(path string) string {
	segments := splitPath(path)
	if len(segments) == 0 {
		return path
	}
	return segments[len(segments)-1]
}
