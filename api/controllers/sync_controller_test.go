/*
 * @module api/controllers/sync_controller_test
 * @description 数据同步控制器单元测试
 * @architecture 测试层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 测试准备 -> 请求构建 -> 响应验证
 * @rules 确保同步API的正确性，控制器注入独立的服务实例避免共享全局状态
 * @dependencies testing, net/http/httptest, stretchr/testify
 */

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/models"
)

func newTestSyncController() *SyncController {
	return &SyncController{syncService: datasync.NewSyncService(datasync.NewMemoryStore())}
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

// TestPublishEvent 测试发布同步事件
func TestPublishEvent(t *testing.T) {
	controller := newTestSyncController()

	event := models.DataSyncEvent{
		EntityType:   meta.EntityTypeFund,
		EntityID:     "f1",
		EventType:    meta.EventTypeCreate,
		SourceModule: "fund-management",
		Data: map[string]interface{}{
			"id": "f1", "name": "成长一期", "targetSize": 100000000.0,
			"updatedAt": time.Now().Format(time.RFC3339),
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync/events", bytes.NewReader(body))
	w := httptest.NewRecorder()

	controller.PublishEvent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 0, response.Status)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["event_id"])

	// 事件进入历史
	assert.Len(t, controller.syncService.GetHistory(0), 1)
}

// TestPublishEvent_InvalidBody 测试非法请求体
func TestPublishEvent_InvalidBody(t *testing.T) {
	controller := newTestSyncController()

	req := httptest.NewRequest(http.MethodPost, "/sync/events", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	controller.PublishEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Status)
}

// TestPublishEvent_InvalidEvent 测试非法事件
func TestPublishEvent_InvalidEvent(t *testing.T) {
	controller := newTestSyncController()

	event := models.DataSyncEvent{EntityType: "BOGUS", EntityID: "x", EventType: meta.EventTypeCreate}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync/events", bytes.NewReader(body))
	w := httptest.NewRecorder()

	controller.PublishEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetQualityIndicator 测试获取质量指标
func TestGetQualityIndicator(t *testing.T) {
	controller := newTestSyncController()

	require.NoError(t, controller.syncService.Publish(&models.DataSyncEvent{
		EntityType:   meta.EntityTypeFund,
		EntityID:     "f1",
		EventType:    meta.EventTypeCreate,
		SourceModule: "fund-management",
		Data: map[string]interface{}{
			"id": "f1", "name": "成长一期", "targetSize": 100000000.0,
			"updatedAt": time.Now().Format(time.RFC3339),
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/sync/quality/FUND/f1", nil)
	req = withURLParams(req, map[string]string{"entity_type": "FUND", "entity_id": "f1"})
	w := httptest.NewRecorder()

	controller.GetQualityIndicator(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 0, response.Status)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "VALIDATED", data["validation_status"])
}

// TestGetQualityIndicator_NotFound 测试查询不存在的质量指标
func TestGetQualityIndicator_NotFound(t *testing.T) {
	controller := newTestSyncController()

	req := httptest.NewRequest(http.MethodGet, "/sync/quality/FUND/missing", nil)
	req = withURLParams(req, map[string]string{"entity_type": "FUND", "entity_id": "missing"})
	w := httptest.NewRecorder()

	controller.GetQualityIndicator(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestCreateSubscription_MissingCallback 测试缺少回调地址的订阅请求
func TestCreateSubscription_MissingCallback(t *testing.T) {
	controller := newTestSyncController()

	request := WebhookSubscriptionRequest{
		ModuleName:  "portfolio",
		EntityTypes: []meta.EntityType{meta.EntityTypeFund},
	}
	body, err := json.Marshal(request)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync/subscriptions", bytes.NewReader(body))
	w := httptest.NewRecorder()

	controller.CreateSubscription(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, controller.syncService.SubscriptionCount())
}

// TestCreateSubscription_WebhookDelivery 测试Webhook订阅的事件投递
func TestCreateSubscription_WebhookDelivery(t *testing.T) {
	controller := newTestSyncController()

	received := make(chan models.DataSyncEvent, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event models.DataSyncEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		received <- event
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	request := WebhookSubscriptionRequest{
		ModuleName:  "portfolio",
		EntityTypes: []meta.EntityType{meta.EntityTypeFund},
		CallbackURL: server.URL,
	}
	body, err := json.Marshal(request)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync/subscriptions", bytes.NewReader(body))
	w := httptest.NewRecorder()
	controller.CreateSubscription(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, controller.syncService.Publish(&models.DataSyncEvent{
		EntityType:   meta.EntityTypeFund,
		EntityID:     "f1",
		EventType:    meta.EventTypeCreate,
		SourceModule: "fund-management",
		Data: map[string]interface{}{
			"id": "f1", "name": "成长一期", "targetSize": 100000000.0,
			"updatedAt": time.Now().Format(time.RFC3339),
		},
	}))

	select {
	case event := <-received:
		assert.Equal(t, "f1", event.EntityID)
	case <-time.After(3 * time.Second):
		t.Fatal("未收到Webhook回调")
	}
}

// TestGetHistory 测试获取事件历史
func TestGetHistory(t *testing.T) {
	controller := newTestSyncController()

	for _, id := range []string{"f1", "f2", "f3"} {
		require.NoError(t, controller.syncService.Publish(&models.DataSyncEvent{
			EntityType:   meta.EntityTypeFund,
			EntityID:     id,
			EventType:    meta.EventTypeCreate,
			SourceModule: "fund-management",
			Data: map[string]interface{}{
				"id": id, "name": "基金" + id, "targetSize": 1.0,
				"updatedAt": time.Now().Format(time.RFC3339),
			},
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/sync/events?limit=2", nil)
	w := httptest.NewRecorder()

	controller.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data, ok := response.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)
}

// TestGetAlerts 测试按类型过滤告警
func TestGetAlerts(t *testing.T) {
	controller := newTestSyncController()
	controller.syncService.RaiseAlert(meta.AlertTypeError, "错误告警", "test", nil)
	controller.syncService.RaiseAlert(meta.AlertTypeWarning, "警告告警", "test", nil)

	req := httptest.NewRequest(http.MethodGet, "/sync/alerts?type=ERROR", nil)
	w := httptest.NewRecorder()

	controller.GetAlerts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data, ok := response.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
}
