/*
 * @module MQTTEventConnector
 * @description MQTT事件接入连接器，订阅指定主题并将JSON编码的数据同步事件投递到事件总线
 * @architecture 适配器模式 - 封装第三方MQTT客户端，将外部生产者接入进程内事件总线
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 连接建立 -> 主题订阅 -> 事件反序列化 -> 总线发布 -> 连接断开
 * @rules 支持自动重连；单条消息处理失败仅记录日志，不影响后续消息
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json
 * @refs service/datasync/sync_service.go, service/models/sync_models.go
 */
package connectors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"datasync-service/service/models"
)

// MQTTConfig MQTT连接配置
type MQTTConfig struct {
	BrokerURL string `json:"broker_url"`
	ClientID  string `json:"client_id"`
	Topic     string `json:"topic"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	QoS       byte   `json:"qos"`
}

// MQTTEventConnector MQTT事件接入连接器
type MQTTEventConnector struct {
	config  *MQTTConfig
	handler EventHandler
	client  mqtt.Client
}

// NewMQTTEventConnector 创建MQTT事件接入连接器
func NewMQTTEventConnector(config *MQTTConfig, handler EventHandler) *MQTTEventConnector {
	connector := &MQTTEventConnector{
		config:  config,
		handler: handler,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(config.BrokerURL).
		SetClientID(config.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(connector.onConnected).
		SetConnectionLostHandler(connector.onConnectionLost)
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}

	connector.client = mqtt.NewClient(opts)
	return connector
}

// Start 建立连接，订阅在onConnected回调中完成以支持重连后恢复
func (mc *MQTTEventConnector) Start() error {
	token := mc.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT连接失败: %w", token.Error())
	}
	return nil
}

// Stop 断开连接
func (mc *MQTTEventConnector) Stop() {
	mc.client.Disconnect(250)
	slog.Info("MQTT事件连接器已停止")
}

// IsRunning 连接器是否在运行
func (mc *MQTTEventConnector) IsRunning() bool {
	return mc.client.IsConnected()
}

// onConnected 连接建立后订阅事件主题
func (mc *MQTTEventConnector) onConnected(client mqtt.Client) {
	token := client.Subscribe(mc.config.Topic, mc.config.QoS, mc.messageHandler)
	if token.Wait() && token.Error() != nil {
		slog.Error("MQTT主题订阅失败", "topic", mc.config.Topic, "error", token.Error())
		return
	}
	slog.Info("MQTT事件连接器已连接", "broker", mc.config.BrokerURL, "topic", mc.config.Topic)
}

// onConnectionLost 连接丢失回调，自动重连由客户端负责
func (mc *MQTTEventConnector) onConnectionLost(client mqtt.Client, err error) {
	slog.Error("MQTT连接丢失", "broker", mc.config.BrokerURL, "error", err)
}

// messageHandler 反序列化消息并投递到事件总线
func (mc *MQTTEventConnector) messageHandler(client mqtt.Client, message mqtt.Message) {
	var event models.DataSyncEvent
	if err := json.Unmarshal(message.Payload(), &event); err != nil {
		slog.Error("MQTT消息反序列化失败", "topic", message.Topic(), "error", err)
		return
	}

	if err := mc.handler(&event); err != nil {
		slog.Error("MQTT事件投递失败", "topic", message.Topic(), "event", event.ID, "error", err)
	}
}
