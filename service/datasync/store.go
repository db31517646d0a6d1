/*
 * @module service/datasync/store
 * @description 同步核心的存储层，提供实体缓存、质量指标、关系图、事件历史、告警和统一指标的内存存储实现
 * @architecture 分层架构 - 存储层，通过接口注入以便测试构造隔离实例
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 事件发布 -> 缓存写入 -> 派生数据更新；进程重启后全部状态丢失（设计接受的限制）
 * @rules 所有容器由读写锁保护；事件历史和告警为容量受限的环形缓冲；缓存条目仅在DELETE事件或进程退出时移除
 * @dependencies datasync-service/service/models, datasync-service/service/meta
 * @refs service/datasync/sync_service.go
 */

package datasync

import (
	"sync"
	"time"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// CachedEntity 缓存的实体快照
type CachedEntity struct {
	Entity   models.EntityRef       `json:"entity"`
	Data     map[string]interface{} `json:"data"`
	CachedAt time.Time              `json:"cached_at"`
}

// Store 同步核心的存储接口，注入到各服务以便测试隔离
type Store interface {
	// 实体缓存
	GetEntity(key string) (*CachedEntity, bool)
	SetEntity(entity models.EntityRef, data map[string]interface{})
	DeleteEntity(key string)
	EntitiesByType(entityType meta.EntityType) []*CachedEntity
	AllEntities() []*CachedEntity
	EntityCount() int

	// 质量指标
	GetQuality(key string) (*models.DataQualityIndicator, bool)
	SetQuality(key string, indicator *models.DataQualityIndicator)
	DeleteQuality(key string)
	AllQuality() map[string]*models.DataQualityIndicator

	// 关系图（按来源实体键缓存，整体替换）
	GetRelationships(key string) []models.EntityRelationship
	SetRelationships(key string, relationships []models.EntityRelationship)

	// 事件历史（保留最近 meta.EventHistoryLimit 条）
	AppendEvent(event *models.DataSyncEvent)
	EventHistory(limit int) []*models.DataSyncEvent
	EventCount() int

	// 告警（保留最近 meta.AlertHistoryLimit 条）
	AppendAlert(alert *models.Alert)
	Alerts(alertType meta.AlertType) []*models.Alert

	// 统一指标（仅保留每个指标的最新值）
	SetMetric(metric *models.UnifiedMetric)
	Metrics() []*models.UnifiedMetric
}

// MemoryStore 进程内存储实现，读写锁保护全部容器
type MemoryStore struct {
	mu            sync.RWMutex
	cache         map[string]*CachedEntity
	quality       map[string]*models.DataQualityIndicator
	relationships map[string][]models.EntityRelationship
	history       []*models.DataSyncEvent
	alerts        []*models.Alert
	metrics       map[string]*models.UnifiedMetric
	eventCount    int
}

// NewMemoryStore 创建内存存储实例
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache:         make(map[string]*CachedEntity),
		quality:       make(map[string]*models.DataQualityIndicator),
		relationships: make(map[string][]models.EntityRelationship),
		history:       make([]*models.DataSyncEvent, 0),
		alerts:        make([]*models.Alert, 0),
		metrics:       make(map[string]*models.UnifiedMetric),
	}
}

// GetEntity 获取缓存实体
func (s *MemoryStore) GetEntity(key string) (*CachedEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.cache[key]
	return entity, ok
}

// SetEntity 写入缓存实体，覆盖已有快照
func (s *MemoryStore) SetEntity(entity models.EntityRef, data map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[entity.CacheKey()] = &CachedEntity{
		Entity:   entity,
		Data:     data,
		CachedAt: time.Now(),
	}
}

// DeleteEntity 删除缓存实体
func (s *MemoryStore) DeleteEntity(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, key)
}

// EntitiesByType 按实体类型列出缓存实体
func (s *MemoryStore) EntitiesByType(entityType meta.EntityType) []*CachedEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*CachedEntity, 0)
	for _, entity := range s.cache {
		if entity.Entity.Type == entityType {
			result = append(result, entity)
		}
	}
	return result
}

// AllEntities 列出全部缓存实体
func (s *MemoryStore) AllEntities() []*CachedEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*CachedEntity, 0, len(s.cache))
	for _, entity := range s.cache {
		result = append(result, entity)
	}
	return result
}

// EntityCount 缓存实体数量
func (s *MemoryStore) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.cache)
}

// GetQuality 获取质量指标
func (s *MemoryStore) GetQuality(key string) (*models.DataQualityIndicator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indicator, ok := s.quality[key]
	return indicator, ok
}

// SetQuality 写入质量指标
func (s *MemoryStore) SetQuality(key string, indicator *models.DataQualityIndicator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quality[key] = indicator
}

// DeleteQuality 删除质量指标
func (s *MemoryStore) DeleteQuality(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.quality, key)
}

// AllQuality 列出全部质量指标，返回浅拷贝的map
func (s *MemoryStore) AllQuality() map[string]*models.DataQualityIndicator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.DataQualityIndicator, len(s.quality))
	for key, indicator := range s.quality {
		result[key] = indicator
	}
	return result
}

// GetRelationships 获取实体的出边集合
func (s *MemoryStore) GetRelationships(key string) []models.EntityRelationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.relationships[key]
}

// SetRelationships 整体替换实体的出边集合
func (s *MemoryStore) SetRelationships(key string, relationships []models.EntityRelationship) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.relationships[key] = relationships
}

// AppendEvent 追加事件历史，超出容量时丢弃最旧记录
func (s *MemoryStore) AppendEvent(event *models.DataSyncEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, event)
	if len(s.history) > meta.EventHistoryLimit {
		s.history = s.history[len(s.history)-meta.EventHistoryLimit:]
	}
	s.eventCount++
}

// EventHistory 获取最近的事件历史，limit为0时返回全部保留记录
func (s *MemoryStore) EventHistory(limit int) []*models.DataSyncEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.history
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	result := make([]*models.DataSyncEvent, len(history))
	copy(result, history)
	return result
}

// EventCount 累计事件总数（含已被环形缓冲丢弃的记录）
func (s *MemoryStore) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.eventCount
}

// AppendAlert 追加告警，超出容量时丢弃最旧记录
func (s *MemoryStore) AppendAlert(alert *models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = append(s.alerts, alert)
	if len(s.alerts) > meta.AlertHistoryLimit {
		s.alerts = s.alerts[len(s.alerts)-meta.AlertHistoryLimit:]
	}
}

// Alerts 获取告警记录，alertType为空时返回全部，结果从新到旧排列
func (s *MemoryStore) Alerts(alertType meta.AlertType) []*models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Alert, 0, len(s.alerts))
	for i := len(s.alerts) - 1; i >= 0; i-- {
		if alertType == "" || s.alerts[i].Type == alertType {
			result = append(result, s.alerts[i])
		}
	}
	return result
}

// SetMetric 写入统一指标，按指标ID覆盖
func (s *MemoryStore) SetMetric(metric *models.UnifiedMetric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics[metric.ID] = metric
}

// Metrics 获取全部统一指标
func (s *MemoryStore) Metrics() []*models.UnifiedMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.UnifiedMetric, 0, len(s.metrics))
	for _, metric := range s.metrics {
		result = append(result, metric)
	}
	return result
}
