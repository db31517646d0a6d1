/*
 * @module service/meta/entity_types
 * @description 实体类型与同步事件相关元数据定义，包括实体类型、事件类型、关系类型等常量
 * @architecture 元数据层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 静态元数据定义
 * @rules 实体类型为封闭枚举，新增类型需同步更新必填字段规则和默认模块配置
 * @dependencies 无
 * @refs service/models/sync_models.go
 */

package meta

// EntityType 业务实体类型（封闭枚举）
type EntityType string

const (
	EntityTypeFund             EntityType = "FUND"
	EntityTypePortfolioCompany EntityType = "PORTFOLIO_COMPANY"
	EntityTypeInvestment       EntityType = "INVESTMENT"
	EntityTypeLPOrganization   EntityType = "LP_ORGANIZATION"
	EntityTypeDeal             EntityType = "DEAL"
	EntityTypeDocument         EntityType = "DOCUMENT"
	EntityTypeContact          EntityType = "CONTACT"
	EntityTypeUser             EntityType = "USER"
)

// AllEntityTypes 所有实体类型列表
var AllEntityTypes = []EntityType{
	EntityTypeFund,
	EntityTypePortfolioCompany,
	EntityTypeInvestment,
	EntityTypeLPOrganization,
	EntityTypeDeal,
	EntityTypeDocument,
	EntityTypeContact,
	EntityTypeUser,
}

// IsValidEntityType 判断实体类型是否有效
func IsValidEntityType(t EntityType) bool {
	for _, et := range AllEntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// EventType 同步事件类型
type EventType string

const (
	EventTypeCreate           EventType = "CREATE"
	EventTypeUpdate           EventType = "UPDATE"
	EventTypeDelete           EventType = "DELETE"
	EventTypeValidationChange EventType = "VALIDATION_CHANGE"
)

// FreshnessLevel 数据新鲜度等级
type FreshnessLevel string

const (
	FreshnessRealTime FreshnessLevel = "REAL_TIME"
	FreshnessMinutes  FreshnessLevel = "MINUTES"
	FreshnessHours    FreshnessLevel = "HOURS"
	FreshnessDays     FreshnessLevel = "DAYS"
	FreshnessStale    FreshnessLevel = "STALE"
)

// freshnessRank 新鲜度从新到旧的排序值，用于聚合时取最差值
var freshnessRank = map[FreshnessLevel]int{
	FreshnessRealTime: 0,
	FreshnessMinutes:  1,
	FreshnessHours:    2,
	FreshnessDays:     3,
	FreshnessStale:    4,
}

// FreshnessRank 获取新鲜度排序值，值越大越陈旧
func FreshnessRank(f FreshnessLevel) int {
	if r, ok := freshnessRank[f]; ok {
		return r
	}
	return 0
}

// ValidationStatus 校验状态
type ValidationStatus string

const (
	ValidationPending   ValidationStatus = "PENDING"
	ValidationValidated ValidationStatus = "VALIDATED"
	ValidationError     ValidationStatus = "ERROR"
	ValidationStale     ValidationStatus = "STALE"
)

// validationRank 校验状态从好到坏的排序值，用于聚合时取最差值
var validationRank = map[ValidationStatus]int{
	ValidationValidated: 0,
	ValidationPending:   1,
	ValidationStale:     2,
	ValidationError:     3,
}

// ValidationRank 获取校验状态排序值，值越大越差
func ValidationRank(s ValidationStatus) int {
	if r, ok := validationRank[s]; ok {
		return r
	}
	return 1
}

// RelationshipType 实体关系类型
type RelationshipType string

const (
	RelationshipBelongsTo      RelationshipType = "BELONGS_TO"
	RelationshipRelatesTo      RelationshipType = "RELATES_TO"
	RelationshipAssociatedWith RelationshipType = "ASSOCIATED_WITH"
	RelationshipSameSector     RelationshipType = "SAME_SECTOR"
)

// RelationshipDirection 关系方向
type RelationshipDirection string

const (
	DirectionOutgoing      RelationshipDirection = "OUTGOING"
	DirectionBidirectional RelationshipDirection = "BIDIRECTIONAL"
)

// ForeignKeyRule 外键形态字段的关系发现规则
type ForeignKeyRule struct {
	Field        string           `json:"field"`       // 载荷中的外键字段名
	TargetType   EntityType       `json:"target_type"` // 指向的实体类型
	Relationship RelationshipType `json:"relationship"`
	Strength     float64          `json:"strength"`
}

// ForeignKeyRules 外键字段与关系类型的映射规则
var ForeignKeyRules = []ForeignKeyRule{
	{Field: "fundId", TargetType: EntityTypeFund, Relationship: RelationshipBelongsTo, Strength: 0.9},
	{Field: "portfolioCompanyId", TargetType: EntityTypePortfolioCompany, Relationship: RelationshipRelatesTo, Strength: 0.8},
	{Field: "lpOrganizationId", TargetType: EntityTypeLPOrganization, Relationship: RelationshipAssociatedWith, Strength: 0.8},
}

// SameSectorStrength 同行业关系的固定权重
const SameSectorStrength = 0.6

// AlertType 告警类型
type AlertType string

const (
	AlertTypeError    AlertType = "ERROR"
	AlertTypeWarning  AlertType = "WARNING"
	AlertTypeInfo     AlertType = "INFO"
	AlertTypeCritical AlertType = "CRITICAL"
)

// 容量上限：事件历史、告警环形缓冲与导航历史
const (
	EventHistoryLimit      = 10000
	AlertHistoryLimit      = 1000
	NavigationHistoryLimit = 1000
)
