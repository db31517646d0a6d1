/*
 * @module api/controllers/navigation_controller
 * @description 智能导航控制器，提供面包屑构建、导航建议、路由计算、导航洞察和访问记录API
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/smart_navigation_req.md
 * @stateFlow HTTP请求 -> 业务逻辑处理 -> 响应返回
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies datasync-service/service, github.com/go-chi/render
 * @refs dev_docs/requirements.md
 */

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"datasync-service/service"
	"datasync-service/service/meta"
	"datasync-service/service/models"
	"datasync-service/service/navigation"
)

// NavigationController 智能导航控制器
type NavigationController struct {
	navigationService *navigation.NavigationService
}

// NewNavigationController 创建导航控制器实例
func NewNavigationController() *NavigationController {
	return &NavigationController{navigationService: service.GlobalNavigationService}
}

// GetBreadcrumbs 构建上下文面包屑
// @Summary 构建上下文面包屑
// @Description 按路径逐段生成面包屑，末节点可附加实体上下文
// @Tags 智能导航
// @Produce json
// @Param path query string true "前端路由路径"
// @Param entity_type query string false "末节点实体类型"
// @Param entity_id query string false "末节点实体ID"
// @Success 200 {object} APIResponse
// @Router /navigation/breadcrumbs [get]
func (c *NavigationController) GetBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("路径不能为空"))
		return
	}

	var entityContext *models.EntityRef
	entityType := r.URL.Query().Get("entity_type")
	entityID := r.URL.Query().Get("entity_id")
	if entityType != "" && entityID != "" {
		entityContext = &models.EntityRef{Type: meta.EntityType(entityType), ID: entityID}
	}

	breadcrumbs := c.navigationService.BuildContextualBreadcrumbs(path, entityContext)
	render.JSON(w, r, SuccessResponse(breadcrumbs))
}

// GetSuggestions 生成智能导航建议
// @Summary 生成智能导航建议
// @Description 根据当前导航上下文合并关系边建议、决策步骤和热门目的地
// @Tags 智能导航
// @Accept json
// @Produce json
// @Param context body models.NavigationContext true "导航上下文"
// @Success 200 {object} APIResponse
// @Router /navigation/suggestions [post]
func (c *NavigationController) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	var ctx models.NavigationContext
	if err := json.NewDecoder(r.Body).Decode(&ctx); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("请求体解析失败: "+err.Error()))
		return
	}

	render.JSON(w, r, SuccessResponse(c.navigationService.GetSmartSuggestions(&ctx)))
}

// GetRoute 计算导航路由
// @Summary 计算导航路由
// @Description 计算从起点到终点的导航路由
// @Tags 智能导航
// @Produce json
// @Param from query string true "起点路径"
// @Param to query string true "终点路径"
// @Success 200 {object} APIResponse
// @Router /navigation/route [get]
func (c *NavigationController) GetRoute(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if to == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("终点路径不能为空"))
		return
	}

	render.JSON(w, r, SuccessResponse(c.navigationService.GetOptimalPath(from, to)))
}

// GetInsights 获取导航洞察
// @Summary 获取导航洞察
// @Description 获取基于导航历史的分析洞察
// @Tags 智能导航
// @Produce json
// @Success 200 {object} APIResponse
// @Router /navigation/insights [get]
func (c *NavigationController) GetInsights(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse(c.navigationService.GetNavigationInsights()))
}

// RecordVisit 记录导航访问
// @Summary 记录导航访问
// @Description 记录一次页面访问，写入导航历史
// @Tags 智能导航
// @Accept json
// @Produce json
// @Param entry body models.NavigationHistoryEntry true "访问记录"
// @Success 200 {object} APIResponse
// @Router /navigation/history [post]
func (c *NavigationController) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var entry models.NavigationHistoryEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("请求体解析失败: "+err.Error()))
		return
	}
	if entry.Path == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("路径不能为空"))
		return
	}

	c.navigationService.RecordNavigation(entry)
	render.JSON(w, r, SuccessResponse(nil))
}

// GetHistory 获取导航历史
// @Summary 获取导航历史
// @Description 获取最近的导航访问记录
// @Tags 智能导航
// @Produce json
// @Success 200 {object} APIResponse
// @Router /navigation/history [get]
func (c *NavigationController) GetHistory(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse(c.navigationService.History()))
}
