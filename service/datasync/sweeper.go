/*
 * @module service/datasync/sweeper
 * @description 后台巡检调度器，按固定间隔执行质量新鲜度复查、关系发现巡检和统一指标重算
 * @architecture 基于cron库的定时任务调度，SkipIfStillRunning保证巡检不重入
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 定时触发 -> 巡检执行 -> 派生状态更新
 * @rules 巡检未结束时跳过下一次触发；关系发现巡检当前为空实现扩展点，不得臆造算法
 * @dependencies github.com/robfig/cron/v3
 * @refs service/datasync/sync_service.go
 */

package datasync

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// 巡检周期
const (
	qualitySweepSpec      = "@every 5m"
	relationshipSweepSpec = "@every 10m"
	metricsSweepSpec      = "@every 1m"
)

// RelationshipSweeper 周期性关系发现巡检扩展点，当前无默认实现
type RelationshipSweeper interface {
	SweepRelationships()
}

// noopRelationshipSweeper 空实现占位，保留巡检挂载点
type noopRelationshipSweeper struct{}

func (noopRelationshipSweeper) SweepRelationships() {}

// Sweeper 后台巡检调度器
type Sweeper struct {
	syncService         *SyncService
	relationshipSweeper RelationshipSweeper
	cron                *cron.Cron
}

// NewSweeper 创建后台巡检调度器
func NewSweeper(syncService *SyncService) *Sweeper {
	return &Sweeper{
		syncService:         syncService,
		relationshipSweeper: noopRelationshipSweeper{},
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
	}
}

// SetRelationshipSweeper 替换关系发现巡检实现
func (s *Sweeper) SetRelationshipSweeper(sweeper RelationshipSweeper) {
	if sweeper != nil {
		s.relationshipSweeper = sweeper
	}
}

// Start 注册并启动全部巡检任务
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(qualitySweepSpec, s.syncService.RefreshQualityFreshness); err != nil {
		return fmt.Errorf("注册质量新鲜度巡检失败: %w", err)
	}
	if _, err := s.cron.AddFunc(relationshipSweepSpec, s.relationshipSweeper.SweepRelationships); err != nil {
		return fmt.Errorf("注册关系发现巡检失败: %w", err)
	}
	if _, err := s.cron.AddFunc(metricsSweepSpec, s.syncService.RecomputeUnifiedMetrics); err != nil {
		return fmt.Errorf("注册指标重算巡检失败: %w", err)
	}

	s.cron.Start()
	log.Println("后台巡检调度器启动完成")
	return nil
}

// Stop 停止巡检调度器，等待进行中的巡检结束
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("后台巡检调度器已停止")
}
