/*
 * @module api/controllers/sync_controller
 * @description 数据同步控制器，提供事件发布、Webhook订阅管理、事件历史、质量指标、告警和统一指标查询API
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow HTTP请求 -> 业务逻辑处理 -> 响应返回
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式；HTTP订阅以Webhook回调投递事件
 * @dependencies datasync-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs dev_docs/requirements.md
 */

package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"datasync-service/service"
	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// SyncController 数据同步控制器
type SyncController struct {
	syncService *datasync.SyncService
}

// webhookClient Webhook订阅的事件投递客户端
var webhookClient = &http.Client{Timeout: 10 * time.Second}

// NewSyncController 创建数据同步控制器实例
func NewSyncController() *SyncController {
	return &SyncController{syncService: service.GlobalSyncService}
}

// WebhookSubscriptionRequest Webhook订阅请求
type WebhookSubscriptionRequest struct {
	ModuleName  string            `json:"module_name"`
	EntityTypes []meta.EntityType `json:"entity_types"`
	EventTypes  []meta.EventType  `json:"event_types,omitempty"`
	CallbackURL string            `json:"callback_url"`
}

// PublishEvent 发布数据同步事件
// @Summary 发布数据同步事件
// @Description 协作模块通过此接口报告实体变更
// @Tags 数据同步
// @Accept json
// @Produce json
// @Param event body models.DataSyncEvent true "同步事件"
// @Success 200 {object} APIResponse
// @Router /sync/events [post]
func (c *SyncController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	var event models.DataSyncEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("请求体解析失败: "+err.Error()))
		return
	}

	if err := c.syncService.Publish(&event); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse(err.Error()))
		return
	}

	render.JSON(w, r, SuccessResponse(map[string]interface{}{"event_id": event.ID}))
}

// GetHistory 获取事件历史
// @Summary 获取事件历史
// @Description 获取最近的同步事件历史记录
// @Tags 数据同步
// @Produce json
// @Param limit query int false "返回条数上限"
// @Success 200 {object} APIResponse
// @Router /sync/events [get]
func (c *SyncController) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	render.JSON(w, r, SuccessResponse(c.syncService.GetHistory(limit)))
}

// CreateSubscription 创建Webhook订阅
// @Summary 创建Webhook订阅
// @Description 注册订阅，匹配的事件以JSON POST到回调地址
// @Tags 数据同步
// @Accept json
// @Produce json
// @Param subscription body WebhookSubscriptionRequest true "订阅请求"
// @Success 200 {object} APIResponse
// @Router /sync/subscriptions [post]
func (c *SyncController) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var request WebhookSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("请求体解析失败: "+err.Error()))
		return
	}
	if request.CallbackURL == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("回调地址不能为空"))
		return
	}

	callbackURL := request.CallbackURL
	id, err := c.syncService.Subscribe(&models.SyncSubscription{
		ModuleName:  request.ModuleName,
		EntityTypes: request.EntityTypes,
		EventTypes:  request.EventTypes,
		Handler: func(event *models.DataSyncEvent) error {
			return deliverWebhook(callbackURL, event)
		},
	})
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse(err.Error()))
		return
	}

	render.JSON(w, r, SuccessResponse(map[string]interface{}{"subscription_id": id}))
}

// DeleteSubscription 取消订阅
// @Summary 取消订阅
// @Description 按订阅ID取消Webhook订阅
// @Tags 数据同步
// @Produce json
// @Param id path string true "订阅ID"
// @Success 200 {object} APIResponse
// @Router /sync/subscriptions/{id} [delete]
func (c *SyncController) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("订阅ID不能为空"))
		return
	}

	c.syncService.Unsubscribe(id)
	render.JSON(w, r, SuccessResponse(nil))
}

// GetQualityIndicator 获取实体质量指标
// @Summary 获取实体质量指标
// @Description 获取指定实体的派生数据质量指标
// @Tags 数据同步
// @Produce json
// @Param entity_type path string true "实体类型"
// @Param entity_id path string true "实体ID"
// @Success 200 {object} APIResponse
// @Router /sync/quality/{entity_type}/{entity_id} [get]
func (c *SyncController) GetQualityIndicator(w http.ResponseWriter, r *http.Request) {
	entityType := meta.EntityType(chi.URLParam(r, "entity_type"))
	entityID := chi.URLParam(r, "entity_id")

	indicator, ok := c.syncService.GetQualityIndicator(entityType, entityID)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse("实体质量指标不存在"))
		return
	}
	render.JSON(w, r, SuccessResponse(indicator))
}

// GetAlerts 获取告警记录
// @Summary 获取告警记录
// @Description 获取告警记录，可按类型过滤
// @Tags 数据同步
// @Produce json
// @Param type query string false "告警类型"
// @Success 200 {object} APIResponse
// @Router /sync/alerts [get]
func (c *SyncController) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alertType := meta.AlertType(r.URL.Query().Get("type"))
	render.JSON(w, r, SuccessResponse(c.syncService.GetAlerts(alertType)))
}

// GetUnifiedMetrics 获取统一运行指标
// @Summary 获取统一运行指标
// @Description 获取按分钟重算的统一指标集合
// @Tags 数据同步
// @Produce json
// @Success 200 {object} APIResponse
// @Router /sync/metrics [get]
func (c *SyncController) GetUnifiedMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse(c.syncService.GetUnifiedMetrics()))
}

// deliverWebhook 将事件以JSON POST投递到订阅回调地址
func deliverWebhook(callbackURL string, event *models.DataSyncEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("事件序列化失败: %w", err)
	}

	resp, err := webhookClient.Post(callbackURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("回调请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("回调返回异常状态码: %d", resp.StatusCode)
	}
	return nil
}
