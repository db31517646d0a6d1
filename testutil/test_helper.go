/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数，提供同步事件与订阅的测试数据工厂和HTTP测试辅助
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 测试数据创建 -> 测试执行 -> 断言
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// SyncEventOption 同步事件选项函数类型
type SyncEventOption func(*models.DataSyncEvent)

// WithEventType 设置事件类型
func WithEventType(t meta.EventType) SyncEventOption {
	return func(e *models.DataSyncEvent) {
		e.EventType = t
	}
}

// WithData 设置事件负载
func WithData(data map[string]interface{}) SyncEventOption {
	return func(e *models.DataSyncEvent) {
		e.Data = data
	}
}

// WithTimestamp 设置事件时间戳
func WithTimestamp(ts time.Time) SyncEventOption {
	return func(e *models.DataSyncEvent) {
		e.Timestamp = ts
	}
}

// NewFundEvent 创建基金实体的测试同步事件
func NewFundEvent(entityID string, opts ...SyncEventOption) *models.DataSyncEvent {
	event := &models.DataSyncEvent{
		EntityType:   meta.EntityTypeFund,
		EntityID:     entityID,
		EventType:    meta.EventTypeUpdate,
		SourceModule: "fund-management",
		Data: map[string]interface{}{
			"id":         entityID,
			"name":       "测试基金" + entityID,
			"targetSize": 100000000.0,
			"updatedAt":  time.Now().Format(time.RFC3339),
		},
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(event)
	}
	return event
}

// NewPortfolioCompanyEvent 创建被投企业的测试同步事件
func NewPortfolioCompanyEvent(entityID, sector string, opts ...SyncEventOption) *models.DataSyncEvent {
	event := &models.DataSyncEvent{
		EntityType:   meta.EntityTypePortfolioCompany,
		EntityID:     entityID,
		EventType:    meta.EventTypeUpdate,
		SourceModule: "portfolio",
		Data: map[string]interface{}{
			"id":        entityID,
			"name":      "测试企业" + entityID,
			"sector":    sector,
			"updatedAt": time.Now().Format(time.RFC3339),
		},
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(event)
	}
	return event
}

// EventRecorder 记录收到的事件，供订阅回调断言使用
type EventRecorder struct {
	mu     sync.Mutex
	events []*models.DataSyncEvent
	err    error
}

// NewEventRecorder 创建事件记录器，err非nil时回调返回该错误
func NewEventRecorder(err error) *EventRecorder {
	return &EventRecorder{err: err}
}

// Handler 记录事件的订阅回调
func (r *EventRecorder) Handler(event *models.DataSyncEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

// Events 获取已记录事件的副本
func (r *EventRecorder) Events() []*models.DataSyncEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.DataSyncEvent, len(r.events))
	copy(result, r.events)
	return result
}

// Count 已记录的事件数量
func (r *EventRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// 辅助函数
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()%1000000)
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
