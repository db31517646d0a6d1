/*
 * @module service/models/navigation_models
 * @description 跨模块导航相关模型定义，包括面包屑、导航建议、导航路由、导航历史和导航洞察
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/cross_module_navigation_req.md
 * @stateFlow 导航上下文 -> 建议生成 -> 排序截断；导航访问 -> 历史记录 -> 洞察分析
 * @rules 导航产物为请求级数据；导航历史为滚动日志，仅保留最近记录
 * @dependencies 无
 * @refs service/navigation/navigation_service.go
 */

package models

import "time"

// SuggestionType 导航建议类型
type SuggestionType string

const (
	SuggestionRelatedEntity      SuggestionType = "RELATED_ENTITY"
	SuggestionNextStep           SuggestionType = "NEXT_STEP"
	SuggestionPopularDestination SuggestionType = "POPULAR_DESTINATION"
)

// SuggestionPriority 导航建议优先级
type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "HIGH"
	PriorityMedium SuggestionPriority = "MEDIUM"
	PriorityLow    SuggestionPriority = "LOW"
)

// PriorityWeight 优先级权重，与相关度相乘用于建议排序
func PriorityWeight(p SuggestionPriority) float64 {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 1
	}
}

// NavigationBreadcrumb 面包屑节点
type NavigationBreadcrumb struct {
	Label  string     `json:"label"`
	Path   string     `json:"path"`
	Active bool       `json:"active"` // 最末节点为true
	Entity *EntityRef `json:"entity,omitempty"`
}

// NavigationContext 导航上下文
type NavigationContext struct {
	CurrentPath   string                 `json:"current_path"`
	CurrentEntity *EntityRef             `json:"current_entity,omitempty"`
	// DecisionSteps 由协作方提供的决策流程后续步骤，原样透传为建议
	DecisionSteps []NavigationSuggestion `json:"decision_steps,omitempty"`
	UserID        string                 `json:"user_id,omitempty"`
}

// NavigationSuggestion 导航建议
type NavigationSuggestion struct {
	Type      SuggestionType     `json:"type"`
	Label     string             `json:"label"`
	Path      string             `json:"path"`
	Entity    *EntityRef         `json:"entity,omitempty"`
	Priority  SuggestionPriority `json:"priority"`
	Relevance float64            `json:"relevance"`
	Reason    string             `json:"reason,omitempty"`
}

// NavigationStep 路由中的单个跳转步骤
type NavigationStep struct {
	Path        string     `json:"path"`
	Label       string     `json:"label"`
	Entity      *EntityRef `json:"entity,omitempty"`
	Description string     `json:"description,omitempty"`
}

// NavigationRoute 导航路由，当前仅支持单步直达
type NavigationRoute struct {
	From  string           `json:"from"`
	To    string           `json:"to"`
	Steps []NavigationStep `json:"steps"`
}

// NavigationHistoryEntry 导航历史记录
type NavigationHistoryEntry struct {
	Path      string     `json:"path"`
	Entity    *EntityRef `json:"entity,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	VisitedAt time.Time  `json:"visited_at"`
}

// PopularPath 热门路径统计
type PopularPath struct {
	Path       string  `json:"path"`
	VisitCount int     `json:"visit_count"`
	Score      float64 `json:"score"`
}

// NavigationInsights 导航洞察，当前各项均为空占位
type NavigationInsights struct {
	PopularPaths      []PopularPath          `json:"popular_paths"`
	FrequentEntities  []EntityRef            `json:"frequent_entities"`
	SuggestedShortcut []NavigationSuggestion `json:"suggested_shortcuts"`
	GeneratedAt       time.Time              `json:"generated_at"`
}
