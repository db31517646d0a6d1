/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/requirements.md
 */

package api

import (
	"datasync-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 数据同步管理
	r.Route("/sync", func(r chi.Router) {
		syncController := controllers.NewSyncController()

		// 事件发布与历史
		r.Post("/events", syncController.PublishEvent)
		r.Get("/events", syncController.GetHistory)

		// Webhook订阅管理
		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", syncController.CreateSubscription)
			r.Delete("/{id}", syncController.DeleteSubscription)
		})

		// 质量指标
		r.Get("/quality/{entity_type}/{entity_id}", syncController.GetQualityIndicator)

		// 告警记录
		r.Get("/alerts", syncController.GetAlerts)

		// 统一运行指标
		r.Get("/metrics", syncController.GetUnifiedMetrics)
	})

	// 跨模块查询
	queryController := controllers.NewQueryController()
	r.Post("/query", queryController.QueryData)
	r.Get("/relationships/{entity_type}/{entity_id}", queryController.GetRelatedEntities)

	// 联邦搜索
	r.Route("/search", func(r chi.Router) {
		searchController := controllers.NewSearchController()
		r.Post("/", searchController.Search)
		r.Get("/modules", searchController.GetModules)
	})

	// 智能导航
	r.Route("/navigation", func(r chi.Router) {
		navigationController := controllers.NewNavigationController()
		r.Get("/breadcrumbs", navigationController.GetBreadcrumbs)
		r.Post("/suggestions", navigationController.GetSuggestions)
		r.Get("/route", navigationController.GetRoute)
		r.Get("/insights", navigationController.GetInsights)
		r.Route("/history", func(r chi.Router) {
			r.Post("/", navigationController.RecordVisit)
			r.Get("/", navigationController.GetHistory)
		})
	})
}
