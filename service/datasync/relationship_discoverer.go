/*
 * @module service/datasync/relationship_discoverer
 * @description 实体关系发现器，从外键形态字段和共享属性推断实体间的有向加权关系
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 实体变更 -> 外键字段扫描 -> 同行业全缓存扫描 -> 出边集合整体替换
 * @rules 每次发现整体替换实体的出边集合而非增量更新；同行业扫描为O(缓存规模)，此成本为设计接受，不得在改变发现语义的情况下优化
 * @dependencies datasync-service/service/models, datasync-service/service/meta, github.com/spf13/cast
 * @refs service/datasync/sync_service.go, service/meta/entity_types.go
 */

package datasync

import (
	"time"

	"github.com/spf13/cast"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// RelationshipDiscoverer 实体关系发现器
type RelationshipDiscoverer struct {
	store Store
}

// NewRelationshipDiscoverer 创建关系发现器实例
func NewRelationshipDiscoverer(store Store) *RelationshipDiscoverer {
	return &RelationshipDiscoverer{store: store}
}

// Discover 发现实体的全部出边关系
func (d *RelationshipDiscoverer) Discover(entity models.EntityRef,
	data map[string]interface{}) []models.EntityRelationship {

	now := time.Now()
	relationships := make([]models.EntityRelationship, 0)

	// 外键形态字段
	for _, rule := range meta.ForeignKeyRules {
		value, ok := data[rule.Field]
		if !ok {
			continue
		}
		targetID := cast.ToString(value)
		if targetID == "" {
			continue
		}
		relationships = append(relationships, models.EntityRelationship{
			FromEntity:       entity,
			ToEntity:         models.EntityRef{Type: rule.TargetType, ID: targetID},
			RelationshipType: rule.Relationship,
			Strength:         rule.Strength,
			Direction:        meta.DirectionOutgoing,
			CreatedAt:        now,
		})
	}

	// 同行业共享属性匹配，仅对投资组合公司生效
	if entity.Type == meta.EntityTypePortfolioCompany {
		relationships = append(relationships, d.discoverSameSector(entity, data, now)...)
	}

	return relationships
}

// discoverSameSector 扫描全缓存，为同行业的投资组合公司建立双向弱关系
func (d *RelationshipDiscoverer) discoverSameSector(entity models.EntityRef,
	data map[string]interface{}, now time.Time) []models.EntityRelationship {

	sector := cast.ToString(data["sector"])
	if sector == "" {
		return nil
	}

	relationships := make([]models.EntityRelationship, 0)
	for _, cached := range d.store.EntitiesByType(meta.EntityTypePortfolioCompany) {
		if cached.Entity.ID == entity.ID {
			continue
		}
		if cast.ToString(cached.Data["sector"]) != sector {
			continue
		}
		relationships = append(relationships, models.EntityRelationship{
			FromEntity:       entity,
			ToEntity:         cached.Entity,
			RelationshipType: meta.RelationshipSameSector,
			Strength:         meta.SameSectorStrength,
			Direction:        meta.DirectionBidirectional,
			CreatedAt:        now,
		})
	}
	return relationships
}
