/*
 * @module service/datasync/metrics
 * @description 同步核心的Prometheus运行指标定义，随事件发布和告警产生实时更新，由/metrics端点暴露
 * @architecture 监控埋点 - 默认注册表 + promauto
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 事件发布/告警产生 -> 计数器更新 -> promhttp抓取
 * @rules Prometheus指标为运维视角埋点，与按分钟重算的UnifiedMetric集合并存
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, service/datasync/sync_service.go
 */

package datasync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datasync_events_total",
		Help: "累计接收的数据同步事件数",
	}, []string{"entity_type", "event_type"})

	subscriptionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "datasync_subscriptions",
		Help: "当前活跃的同步订阅数",
	})

	cacheEntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "datasync_cache_entries",
		Help: "当前缓存的实体快照数",
	})

	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datasync_alerts_total",
		Help: "累计产生的告警数",
	}, []string{"type"})

	notifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datasync_subscriber_notify_failures_total",
		Help: "订阅回调执行失败或panic的累计次数",
	})
)
