/*
 * @module service/datasync/sync_service
 * @description 数据同步服务核心，接收实体变更事件，维护缓存、质量指标和关系图，并向订阅者扇出通知
 * @architecture 事件驱动架构 - 进程内发布订阅
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 事件发布 -> 历史追加 -> 缓存更新 -> 质量评估与告警 -> 订阅分发 -> 关系重算
 * @rules 副作用严格按上述顺序执行；单个订阅者失败不得阻塞或影响其他订阅者；同一实体的事件因果顺序由生产者保证，核心不做重排或去重
 * @dependencies datasync-service/service/models, datasync-service/service/meta, github.com/google/uuid
 * @refs service/datasync/quality_evaluator.go, service/datasync/relationship_discoverer.go
 */

package datasync

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// SyncService 数据同步服务
type SyncService struct {
	store      Store
	evaluator  *QualityEvaluator
	discoverer *RelationshipDiscoverer
	ruleEngine *RuleEngine

	mu            sync.RWMutex
	subscriptions map[meta.EntityType]map[string]*models.SyncSubscription
}

// NewSyncService 创建数据同步服务实例
func NewSyncService(store Store) *SyncService {
	return &SyncService{
		store:         store,
		evaluator:     NewQualityEvaluator(),
		discoverer:    NewRelationshipDiscoverer(store),
		ruleEngine:    NewRuleEngine(),
		subscriptions: make(map[meta.EntityType]map[string]*models.SyncSubscription),
	}
}

// Store 返回注入的存储实例
func (s *SyncService) Store() Store {
	return s.store
}

// RuleEngine 返回自定义校验规则引擎
func (s *SyncService) RuleEngine() *RuleEngine {
	return s.ruleEngine
}

// Publish 发布数据同步事件
// 副作用顺序：历史追加 -> 缓存更新 -> 质量评估与告警 -> 订阅分发 -> 关系重算
func (s *SyncService) Publish(event *models.DataSyncEvent) error {
	if event == nil {
		return fmt.Errorf("事件不能为空")
	}
	if !meta.IsValidEntityType(event.EntityType) {
		return fmt.Errorf("未知的实体类型: %s", event.EntityType)
	}
	if event.EntityID == "" {
		return fmt.Errorf("实体ID不能为空")
	}
	if event.EventType == "" {
		return fmt.Errorf("事件类型不能为空")
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	key := event.EntityKey()
	previousCached, _ := s.store.GetEntity(key)

	// (a) 事件历史
	s.store.AppendEvent(event)
	syncEventsTotal.WithLabelValues(string(event.EntityType), string(event.EventType)).Inc()

	// (b) 缓存更新
	entity := models.EntityRef{Type: event.EntityType, ID: event.EntityID}
	if event.EventType == meta.EventTypeDelete {
		s.store.DeleteEntity(key)
		s.store.DeleteQuality(key)
	} else {
		s.store.SetEntity(entity, event.Data)
	}
	cacheEntriesGauge.Set(float64(s.store.EntityCount()))

	// (c) 质量评估与告警
	if event.EventType != meta.EventTypeDelete {
		s.evaluateQuality(event, key, previousCached)
	}

	// (d) 订阅分发，逐个隔离失败
	s.notifySubscribers(event)

	// (e) 关系重算并整体替换出边集合；DELETE不清除既有边（现状行为，见设计文档）
	if event.EventType != meta.EventTypeDelete {
		s.store.SetRelationships(key, s.discoverer.Discover(entity, event.Data))
	}

	return nil
}

// evaluateQuality 重算实体的质量指标并按需产生告警
func (s *SyncService) evaluateQuality(event *models.DataSyncEvent, key string, previousCached *CachedEntity) {
	previousIndicator, _ := s.store.GetQuality(key)

	var previousData map[string]interface{}
	if previousCached != nil {
		previousData = previousCached.Data
	}

	indicator := s.evaluator.Evaluate(event.EntityType, event.Data,
		previousIndicator, previousData, event.SourceModule, time.Now())

	// 自定义校验规则产出的问题并入errors
	if issues := s.ruleEngine.Validate(event.EntityType, event.Data); len(issues) > 0 {
		indicator.Errors = append(indicator.Errors, issues...)
		indicator.ValidationStatus = meta.ValidationError
	}

	s.store.SetQuality(key, indicator)

	if indicator.ValidationStatus == meta.ValidationError {
		s.RaiseAlert(meta.AlertTypeError,
			fmt.Sprintf("实体 %s 校验失败: %v", key, indicator.Errors),
			event.SourceModule,
			map[string]interface{}{"entity_key": key, "event_id": event.ID})
	} else if indicator.Accuracy < meta.AccuracyAlertThreshold {
		s.RaiseAlert(meta.AlertTypeWarning,
			fmt.Sprintf("实体 %s 准确度过低: %.2f", key, indicator.Accuracy),
			event.SourceModule,
			map[string]interface{}{"entity_key": key, "accuracy": indicator.Accuracy})
	}
}

// notifySubscribers 向匹配的订阅者扇出事件，单个订阅者的错误或panic被隔离并转为告警
func (s *SyncService) notifySubscribers(event *models.DataSyncEvent) {
	s.mu.RLock()
	matched := make([]*models.SyncSubscription, 0)
	for _, subscription := range s.subscriptions[event.EntityType] {
		if subscription.MatchesEventType(event.EventType) {
			matched = append(matched, subscription)
		}
	}
	s.mu.RUnlock()

	for _, subscription := range matched {
		s.notifyOne(subscription, event)
	}
}

// notifyOne 通知单个订阅者并隔离其失败
func (s *SyncService) notifyOne(subscription *models.SyncSubscription, event *models.DataSyncEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.recordNotifyFailure(subscription, event, fmt.Errorf("订阅回调panic: %v", r))
		}
	}()

	if err := subscription.Handler(event); err != nil {
		s.recordNotifyFailure(subscription, event, err)
	}
}

// recordNotifyFailure 记录订阅通知失败：日志 + ERROR告警 + 指标
func (s *SyncService) recordNotifyFailure(subscription *models.SyncSubscription,
	event *models.DataSyncEvent, err error) {

	slog.Error("订阅通知失败", "subscription", subscription.ID,
		"module", subscription.ModuleName, "event", event.ID, "error", err)
	notifyFailuresTotal.Inc()
	s.RaiseAlert(meta.AlertTypeError,
		fmt.Sprintf("订阅者 %s 处理事件失败: %v", subscription.ModuleName, err),
		"sync-service",
		map[string]interface{}{"subscription_id": subscription.ID, "event_id": event.ID})
}

// Subscribe 注册同步事件订阅，按声明的每个实体类型建立索引
func (s *SyncService) Subscribe(subscription *models.SyncSubscription) (string, error) {
	if subscription == nil || subscription.Handler == nil {
		return "", fmt.Errorf("订阅回调不能为空")
	}
	if len(subscription.EntityTypes) == 0 {
		return "", fmt.Errorf("订阅必须声明至少一个实体类型")
	}

	if subscription.ID == "" {
		subscription.ID = uuid.New().String()
	}
	subscription.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entityType := range subscription.EntityTypes {
		if s.subscriptions[entityType] == nil {
			s.subscriptions[entityType] = make(map[string]*models.SyncSubscription)
		}
		s.subscriptions[entityType][subscription.ID] = subscription
	}
	subscriptionsGauge.Set(float64(s.countSubscriptionsLocked()))

	return subscription.ID, nil
}

// Unsubscribe 按ID移除订阅，从所有实体类型索引中删除
func (s *SyncService) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, byID := range s.subscriptions {
		delete(byID, id)
	}
	subscriptionsGauge.Set(float64(s.countSubscriptionsLocked()))
}

// SubscriptionCount 当前活跃订阅数
func (s *SyncService) SubscriptionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countSubscriptionsLocked()
}

func (s *SyncService) countSubscriptionsLocked() int {
	seen := make(map[string]bool)
	for _, byID := range s.subscriptions {
		for id := range byID {
			seen[id] = true
		}
	}
	return len(seen)
}

// GetRelatedEntities 获取实体的出边关系集合
func (s *SyncService) GetRelatedEntities(entityType meta.EntityType, entityID string) []models.EntityRelationship {
	key := models.EntityRef{Type: entityType, ID: entityID}.CacheKey()
	relationships := s.store.GetRelationships(key)
	if relationships == nil {
		return []models.EntityRelationship{}
	}
	return relationships
}

// GetQualityIndicator 获取实体的质量指标
func (s *SyncService) GetQualityIndicator(entityType meta.EntityType, entityID string) (*models.DataQualityIndicator, bool) {
	return s.store.GetQuality(models.EntityRef{Type: entityType, ID: entityID}.CacheKey())
}

// GetHistory 获取最近的事件历史
func (s *SyncService) GetHistory(limit int) []*models.DataSyncEvent {
	return s.store.EventHistory(limit)
}

// GetAlerts 获取告警记录，alertType为空时返回全部
func (s *SyncService) GetAlerts(alertType meta.AlertType) []*models.Alert {
	return s.store.Alerts(alertType)
}

// GetUnifiedMetrics 获取统一运行指标集合
func (s *SyncService) GetUnifiedMetrics() []*models.UnifiedMetric {
	return s.store.Metrics()
}

// RaiseAlert 记录一条告警
func (s *SyncService) RaiseAlert(alertType meta.AlertType, message, source string, metadata map[string]interface{}) {
	s.store.AppendAlert(&models.Alert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Message:   message,
		Source:    source,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	})
	alertsTotal.WithLabelValues(string(alertType)).Inc()
}

// RefreshQualityFreshness 重算全部缓存实体的新鲜度
// 新鲜度退化为STALE时将校验状态置为STALE，ERROR状态保持不变
func (s *SyncService) RefreshQualityFreshness() {
	now := time.Now()
	for key, indicator := range s.store.AllQuality() {
		freshness := FreshnessForAge(now.Sub(indicator.LastUpdated))
		if freshness == indicator.Freshness {
			continue
		}
		updated := *indicator
		updated.Freshness = freshness
		if freshness == meta.FreshnessStale && updated.ValidationStatus != meta.ValidationError {
			updated.ValidationStatus = meta.ValidationStale
		}
		s.store.SetQuality(key, &updated)
	}
}

// RecomputeUnifiedMetrics 重算统一指标集合（当前为同步事件总数与活跃订阅数）
func (s *SyncService) RecomputeUnifiedMetrics() {
	now := time.Now()
	s.store.SetMetric(&models.UnifiedMetric{
		ID:          "sync_event_count",
		Name:        "同步事件总数",
		Value:       float64(s.store.EventCount()),
		ComputedAt:  now,
		Description: "累计接收的数据同步事件数",
	})
	s.store.SetMetric(&models.UnifiedMetric{
		ID:          "subscription_count",
		Name:        "活跃订阅数",
		Value:       float64(s.SubscriptionCount()),
		ComputedAt:  now,
		Description: "当前注册的同步订阅数",
	})
}
