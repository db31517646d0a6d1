/*
 * @module api/controllers/search_controller
 * @description 联邦搜索控制器，提供跨模块统一搜索和搜索模块查询API
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/cross_module_sync_req.md
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
	"datasync-service/service/search"
)

// SearchController 联邦搜索控制器
type SearchController struct {
	searchService *search.SearchService
}

// NewSearchController 创建搜索控制器实例
func NewSearchController() *SearchController {
	return &SearchController{searchService: service.GlobalSearchService}
}

// Search 跨模块统一搜索
// @Summary 跨模块统一搜索
// @Description 并发搜索所有注册模块并合并结果，返回建议、分面和关联实体分组
// @Tags 联邦搜索
// @Accept json
// @Produce json
// @Param query body models.UniversalSearchQuery true "搜索请求"
// @Success 200 {object} APIResponse
// @Router /search [post]
func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	var query models.UniversalSearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("请求体解析失败: "+err.Error()))
		return
	}

	result, err := c.searchService.SearchAcrossModules(&query)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse(err.Error()))
		return
	}
	render.JSON(w, r, SuccessResponse(result))
}

// ModuleInfo 搜索模块信息
type ModuleInfo struct {
	Name         string                  `json:"name"`
	EntityTypes  []meta.EntityType       `json:"entity_types"`
	Fields       []meta.SearchableField  `json:"fields"`
	Capabilities meta.SearchCapabilities `json:"capabilities"`
}

// GetModules 获取已注册的搜索模块
// @Summary 获取已注册的搜索模块
// @Description 返回所有已注册搜索模块的名称、实体类型、可搜索字段和能力声明
// @Tags 联邦搜索
// @Produce json
// @Success 200 {object} APIResponse
// @Router /search/modules [get]
func (c *SearchController) GetModules(w http.ResponseWriter, r *http.Request) {
	modules := c.searchService.Registry().All()
	infos := make([]ModuleInfo, 0, len(modules))

	for _, module := range modules {
		infos = append(infos, ModuleInfo{
			Name:         module.Name(),
			EntityTypes:  module.SupportedEntityTypes(),
			Fields:       module.SearchableFields(),
			Capabilities: module.Capabilities(),
		})
	}
	render.JSON(w, r, SuccessResponse(infos))
}
