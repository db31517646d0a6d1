/*
 * @module service/datasync/relationship_discoverer_test
 * @description 实体关系发现器的单元测试
 * @architecture 单元测试 - 验证外键规则和同行业扫描的关系推断
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 测试准备 -> 缓存播种 -> 关系发现 -> 结果验证
 * @rules 覆盖外键字段映射、权重、方向和同行业双向弱关系
 * @dependencies testing, testify
 * @refs relationship_discoverer.go
 */

package datasync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

func TestRelationshipDiscoverer_ForeignKeys(t *testing.T) {
	store := NewMemoryStore()
	discoverer := NewRelationshipDiscoverer(store)

	entity := models.EntityRef{Type: meta.EntityTypeInvestment, ID: "i1"}
	data := map[string]interface{}{
		"id":                 "i1",
		"fundId":             "f1",
		"portfolioCompanyId": "pc1",
		"lpOrganizationId":   "lp1",
	}

	relationships := discoverer.Discover(entity, data)
	require.Len(t, relationships, 3)

	byType := make(map[meta.RelationshipType]models.EntityRelationship)
	for _, relationship := range relationships {
		byType[relationship.RelationshipType] = relationship
		assert.Equal(t, entity, relationship.FromEntity)
		assert.Equal(t, meta.DirectionOutgoing, relationship.Direction)
	}

	belongsTo := byType[meta.RelationshipBelongsTo]
	assert.Equal(t, models.EntityRef{Type: meta.EntityTypeFund, ID: "f1"}, belongsTo.ToEntity)
	assert.Equal(t, 0.9, belongsTo.Strength)

	relatesTo := byType[meta.RelationshipRelatesTo]
	assert.Equal(t, models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc1"}, relatesTo.ToEntity)
	assert.Equal(t, 0.8, relatesTo.Strength)

	associatedWith := byType[meta.RelationshipAssociatedWith]
	assert.Equal(t, models.EntityRef{Type: meta.EntityTypeLPOrganization, ID: "lp1"}, associatedWith.ToEntity)
	assert.Equal(t, 0.8, associatedWith.Strength)
}

func TestRelationshipDiscoverer_EmptyForeignKeyIgnored(t *testing.T) {
	store := NewMemoryStore()
	discoverer := NewRelationshipDiscoverer(store)

	entity := models.EntityRef{Type: meta.EntityTypeInvestment, ID: "i1"}
	data := map[string]interface{}{"id": "i1", "fundId": ""}

	assert.Empty(t, discoverer.Discover(entity, data))
}

func TestRelationshipDiscoverer_SameSector(t *testing.T) {
	store := NewMemoryStore()
	discoverer := NewRelationshipDiscoverer(store)

	store.SetEntity(models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc2"},
		map[string]interface{}{"id": "pc2", "sector": "SaaS"})
	store.SetEntity(models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc3"},
		map[string]interface{}{"id": "pc3", "sector": "Fintech"})
	// 其他实体类型不参与同行业扫描
	store.SetEntity(models.EntityRef{Type: meta.EntityTypeDeal, ID: "d1"},
		map[string]interface{}{"id": "d1", "sector": "SaaS"})

	entity := models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc1"}
	data := map[string]interface{}{"id": "pc1", "sector": "SaaS"}

	relationships := discoverer.Discover(entity, data)
	require.Len(t, relationships, 1)
	assert.Equal(t, meta.RelationshipSameSector, relationships[0].RelationshipType)
	assert.Equal(t, models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc2"}, relationships[0].ToEntity)
	assert.Equal(t, meta.SameSectorStrength, relationships[0].Strength)
	assert.Equal(t, meta.DirectionBidirectional, relationships[0].Direction)
}

func TestRelationshipDiscoverer_SameSector_ExcludesSelf(t *testing.T) {
	store := NewMemoryStore()
	discoverer := NewRelationshipDiscoverer(store)

	entity := models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc1"}
	data := map[string]interface{}{"id": "pc1", "sector": "SaaS"}
	store.SetEntity(entity, data)

	assert.Empty(t, discoverer.Discover(entity, data))
}

func TestRelationshipDiscoverer_SameSector_NoSectorField(t *testing.T) {
	store := NewMemoryStore()
	discoverer := NewRelationshipDiscoverer(store)

	store.SetEntity(models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc2"},
		map[string]interface{}{"id": "pc2", "sector": "SaaS"})

	entity := models.EntityRef{Type: meta.EntityTypePortfolioCompany, ID: "pc1"}
	assert.Empty(t, discoverer.Discover(entity, map[string]interface{}{"id": "pc1"}))
}
