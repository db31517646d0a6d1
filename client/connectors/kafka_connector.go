/*
 * @module KafkaEventConnector
 * @description Kafka事件接入连接器，从指定主题消费JSON编码的数据同步事件并投递到事件总线
 * @architecture 适配器模式 - 封装第三方Kafka客户端，将外部生产者接入进程内事件总线
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 连接建立 -> 消息消费 -> 事件反序列化 -> 总线发布 -> 连接断开
 * @rules 单条消息反序列化或发布失败仅记录日志并继续消费，不中断消费循环
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/datasync/sync_service.go, service/models/sync_models.go
 */
package connectors

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"datasync-service/service/models"
)

// EventHandler 事件投递回调，通常绑定到 SyncService.Publish
type EventHandler func(event *models.DataSyncEvent) error

// KafkaConfig Kafka连接配置
type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	Topics  []string `json:"topics"`
	GroupID string   `json:"group_id"`
}

// KafkaEventConnector Kafka事件接入连接器
type KafkaEventConnector struct {
	config  *KafkaConfig
	handler EventHandler
	readers map[string]*kafka.Reader // 按topic分组的消费者
	mutex   sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewKafkaEventConnector 创建Kafka事件接入连接器
func NewKafkaEventConnector(config *KafkaConfig, handler EventHandler) *KafkaEventConnector {
	ctx, cancel := context.WithCancel(context.Background())

	return &KafkaEventConnector{
		config:  config,
		handler: handler,
		readers: make(map[string]*kafka.Reader),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start 为每个主题建立消费者并启动消费循环
func (kc *KafkaEventConnector) Start() error {
	kc.mutex.Lock()
	defer kc.mutex.Unlock()

	if kc.running {
		return nil
	}

	for _, topic := range kc.config.Topics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers: kc.config.Brokers,
			Topic:   topic,
			GroupID: kc.config.GroupID,
		})
		kc.readers[topic] = reader

		kc.wg.Add(1)
		go kc.consumeLoop(topic, reader)
	}

	kc.running = true
	slog.Info("Kafka事件连接器已启动", "brokers", kc.config.Brokers, "topics", kc.config.Topics)
	return nil
}

// Stop 停止消费循环并关闭全部消费者
func (kc *KafkaEventConnector) Stop() {
	kc.mutex.Lock()
	defer kc.mutex.Unlock()

	if !kc.running {
		return
	}

	kc.cancel()
	for topic, reader := range kc.readers {
		if err := reader.Close(); err != nil {
			slog.Error("关闭Kafka消费者失败", "topic", topic, "error", err)
		}
	}
	kc.wg.Wait()
	kc.running = false
	slog.Info("Kafka事件连接器已停止")
}

// consumeLoop 单主题消费循环，消息级失败不中断循环
func (kc *KafkaEventConnector) consumeLoop(topic string, reader *kafka.Reader) {
	defer kc.wg.Done()

	for {
		message, err := reader.ReadMessage(kc.ctx)
		if err != nil {
			if kc.ctx.Err() != nil {
				return
			}
			slog.Error("读取Kafka消息失败", "topic", topic, "error", err)
			continue
		}
		kc.deliver(topic, message.Value)
	}
}

// deliver 反序列化消息并投递到事件总线
func (kc *KafkaEventConnector) deliver(topic string, payload []byte) {
	var event models.DataSyncEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		slog.Error("Kafka消息反序列化失败", "topic", topic, "error", err)
		return
	}

	if err := kc.handler(&event); err != nil {
		slog.Error("Kafka事件投递失败", "topic", topic, "event", event.ID, "error", err)
	}
}

// IsRunning 连接器是否在运行
func (kc *KafkaEventConnector) IsRunning() bool {
	kc.mutex.Lock()
	defer kc.mutex.Unlock()
	return kc.running
}
