/*
 * @module api/controllers/query_controller
 * @description 跨模块查询控制器，提供缓存数据查询和实体关系查询API
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow HTTP请求 -> 业务逻辑处理 -> 响应返回
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies datasync-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs dev_docs/requirements.md
 */

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"datasync-service/service"
	"datasync-service/service/datasync"
	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// QueryController 跨模块查询控制器
type QueryController struct {
	queryEngine *datasync.QueryEngine
	syncService *datasync.SyncService
}

// NewQueryController 创建查询控制器实例
func NewQueryController() *QueryController {
	return &QueryController{
		queryEngine: service.GlobalQueryEngine,
		syncService: service.GlobalSyncService,
	}
}

// QueryData 跨模块数据查询
// @Summary 跨模块数据查询
// @Description 对实体缓存执行过滤、排序、截断查询并返回质量聚合
// @Tags 跨模块查询
// @Accept json
// @Produce json
// @Param query body models.CrossModuleQuery true "查询请求"
// @Success 200 {object} APIResponse
// @Router /query [post]
func (c *QueryController) QueryData(w http.ResponseWriter, r *http.Request) {
	var query models.CrossModuleQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("请求体解析失败: "+err.Error()))
		return
	}

	result, err := c.queryEngine.QueryData(&query)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse(err.Error()))
		return
	}
	render.JSON(w, r, SuccessResponse(result))
}

// GetRelatedEntities 获取实体关系
// @Summary 获取实体关系
// @Description 获取指定实体的出边关系集合
// @Tags 跨模块查询
// @Produce json
// @Param entity_type path string true "实体类型"
// @Param entity_id path string true "实体ID"
// @Success 200 {object} APIResponse
// @Router /relationships/{entity_type}/{entity_id} [get]
func (c *QueryController) GetRelatedEntities(w http.ResponseWriter, r *http.Request) {
	entityType := meta.EntityType(chi.URLParam(r, "entity_type"))
	entityID := chi.URLParam(r, "entity_id")

	relationships := c.syncService.GetRelatedEntities(entityType, entityID)
	render.JSON(w, r, SuccessResponse(relationships))
}
