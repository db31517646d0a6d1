/*
 * @module service/init
 * @description 服务初始化模块，负责构建内存存储、同步核心、搜索编排器和导航服务，注册默认搜索模块并启动后台巡检与事件接入连接器
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 应用启动时执行初始化流程：存储 -> 核心服务 -> 模块注册 -> 巡检启动 -> 连接器启动
 * @rules 全部状态驻留内存，进程重启后丢失（设计接受的限制）；连接器仅在配置了对应环境变量时启动
 * @dependencies datasync-service/service/datasync, datasync-service/service/search, datasync-service/service/navigation
 * @refs api/routes.go, main.go
 */

package service

import (
	"log"
	"os"
	"strings"

	"datasync-service/client/connectors"
	"datasync-service/logger"
	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/navigation"
	"datasync-service/service/search"
)

var (
	GlobalStore             *datasync.MemoryStore
	GlobalSyncService       *datasync.SyncService
	GlobalQueryEngine       *datasync.QueryEngine
	GlobalSearchService     *search.SearchService
	GlobalNavigationService *navigation.NavigationService
	GlobalSweeper           *datasync.Sweeper

	kafkaConnector *connectors.KafkaEventConnector
	mqttConnector  *connectors.MQTTEventConnector
)

func init() {
	logger.InitLogger()
	initServices()
	registerDefaultModules()
	startSweeper()
	startConnectors()
}

// initServices 构建存储与核心服务实例
func initServices() {
	GlobalStore = datasync.NewMemoryStore()
	GlobalSyncService = datasync.NewSyncService(GlobalStore)
	GlobalQueryEngine = datasync.NewQueryEngine(GlobalStore)

	registry := search.NewModuleRegistry()
	GlobalSearchService = search.NewSearchService(registry, GlobalQueryEngine, GlobalSyncService)
	GlobalNavigationService = navigation.NewNavigationService(GlobalSyncService)

	log.Println("同步核心服务初始化完成")
}

// registerDefaultModules 注册默认业务模块的搜索配置
func registerDefaultModules() {
	for _, config := range meta.DefaultModuleConfigs {
		GlobalSearchService.Registry().Register(&search.StaticModule{Config: config})
	}
	log.Printf("默认搜索模块注册完成，共%d个模块", len(meta.DefaultModuleConfigs))
}

// startSweeper 启动后台巡检调度器
func startSweeper() {
	GlobalSweeper = datasync.NewSweeper(GlobalSyncService)
	if err := GlobalSweeper.Start(); err != nil {
		log.Fatalf("后台巡检启动失败: %v", err)
	}
}

// startConnectors 按环境变量配置启动事件接入连接器
func startConnectors() {
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafkaConnector = connectors.NewKafkaEventConnector(&connectors.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topics:  strings.Split(getEnvWithDefault("KAFKA_TOPICS", "datasync-events"), ","),
			GroupID: getEnvWithDefault("KAFKA_GROUP_ID", "datasync-service"),
		}, GlobalSyncService.Publish)
		if err := kafkaConnector.Start(); err != nil {
			log.Printf("Kafka事件连接器启动失败: %v", err)
		}
	}

	if brokerURL := os.Getenv("MQTT_BROKER_URL"); brokerURL != "" {
		mqttConnector = connectors.NewMQTTEventConnector(&connectors.MQTTConfig{
			BrokerURL: brokerURL,
			ClientID:  getEnvWithDefault("MQTT_CLIENT_ID", "datasync-service"),
			Topic:     getEnvWithDefault("MQTT_TOPIC", "datasync/events"),
			Username:  os.Getenv("MQTT_USERNAME"),
			Password:  os.Getenv("MQTT_PASSWORD"),
			QoS:       1,
		}, GlobalSyncService.Publish)
		if err := mqttConnector.Start(); err != nil {
			log.Printf("MQTT事件连接器启动失败: %v", err)
		}
	}
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
