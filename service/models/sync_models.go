/*
 * @module service/models/sync_models
 * @description 跨模块数据同步相关模型定义，包括同步事件、订阅、质量指标、实体关系、告警和统一指标
 * @architecture 事件驱动架构 - 数据模型层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 事件发布 -> 缓存更新 -> 质量评估 -> 订阅分发 -> 关系发现
 * @rules 同步事件发布后不可变更；质量指标为派生数据，禁止生产者直接写入
 * @dependencies datasync-service/service/meta
 * @refs service/datasync/sync_service.go
 */

package models

import (
	"time"

	"datasync-service/service/meta"
)

// EntityRef 实体引用，指向归属于协作模块的业务实体
type EntityRef struct {
	Type meta.EntityType `json:"type"`
	ID   string          `json:"id"`
}

// CacheKey 缓存键，格式为 entityType:entityId
func (r EntityRef) CacheKey() string {
	return string(r.Type) + ":" + r.ID
}

// DataSyncEvent 数据同步事件，写入核心的唯一单位，发布后不可变
type DataSyncEvent struct {
	ID             string                 `json:"id"`
	EntityType     meta.EntityType        `json:"entity_type"`
	EntityID       string                 `json:"entity_id"`
	EventType      meta.EventType         `json:"event_type"`
	SourceModule   string                 `json:"source_module"`
	Data           map[string]interface{} `json:"data"`
	Timestamp      time.Time              `json:"timestamp"`
	AffectedFields []string               `json:"affected_fields,omitempty"`
	PreviousData   map[string]interface{} `json:"previous_data,omitempty"`
}

// EntityKey 事件对应的缓存键
func (e *DataSyncEvent) EntityKey() string {
	return EntityRef{Type: e.EntityType, ID: e.EntityID}.CacheKey()
}

// SyncEventHandler 订阅回调，返回错误或panic均被隔离，不影响其他订阅者
type SyncEventHandler func(event *DataSyncEvent) error

// SyncSubscription 同步事件订阅
type SyncSubscription struct {
	ID          string            `json:"id"`
	ModuleName  string            `json:"module_name"`
	EntityTypes []meta.EntityType `json:"entity_types"`
	EventTypes  []meta.EventType  `json:"event_types"`
	Handler     SyncEventHandler  `json:"-"`
	CreatedAt   time.Time         `json:"created_at"`
}

// MatchesEventType 判断订阅是否关注该事件类型，未声明事件类型时关注全部
func (s *SyncSubscription) MatchesEventType(t meta.EventType) bool {
	if len(s.EventTypes) == 0 {
		return true
	}
	for _, et := range s.EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// DataQualityIndicator 数据质量指标，每次事件到达时对缓存实体重新计算
type DataQualityIndicator struct {
	LastUpdated      time.Time             `json:"last_updated"`
	Source           string                `json:"source"`
	Freshness        meta.FreshnessLevel   `json:"freshness"`
	Accuracy         float64               `json:"accuracy"`
	Completeness     float64               `json:"completeness"`
	Consistency      float64               `json:"consistency"`
	ValidationStatus meta.ValidationStatus `json:"validation_status"`
	Warnings         []string              `json:"warnings"`
	Errors           []string              `json:"errors"`
}

// EntityRelationship 发现的实体间有向加权关系
type EntityRelationship struct {
	FromEntity       EntityRef                  `json:"from_entity"`
	ToEntity         EntityRef                  `json:"to_entity"`
	RelationshipType meta.RelationshipType      `json:"relationship_type"`
	Strength         float64                    `json:"strength"`
	Direction        meta.RelationshipDirection `json:"direction"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// Alert 告警记录，只追加，环形缓冲保留最近若干条
type Alert struct {
	ID        string                 `json:"id"`
	Type      meta.AlertType         `json:"type"`
	Message   string                 `json:"message"`
	Source    string                 `json:"source"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// UnifiedMetric 统一运行指标，按固定间隔重算，仅保留最新值
type UnifiedMetric struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Value       float64   `json:"value"`
	Unit        string    `json:"unit,omitempty"`
	ComputedAt  time.Time `json:"computed_at"`
	Description string    `json:"description,omitempty"`
}

// CrossModuleQuery 跨模块数据查询请求
type CrossModuleQuery struct {
	EntityType   meta.EntityType        `json:"entity_type"`
	Filters      map[string]interface{} `json:"filters,omitempty"`
	Sort         string                 `json:"sort,omitempty"`
	Limit        int                    `json:"limit,omitempty"`
	SourceModule string                 `json:"source_module,omitempty"`
}

// QueryMetadata 查询结果元数据
type QueryMetadata struct {
	TotalCount int                   `json:"total_count"` // 截断前的匹配总数
	Sources    []string              `json:"sources"`
	Quality    *DataQualityIndicator `json:"quality,omitempty"`
}

// CrossModuleQueryResult 跨模块查询结果
type CrossModuleQueryResult struct {
	Data     []map[string]interface{} `json:"data"`
	Metadata QueryMetadata            `json:"metadata"`
}
