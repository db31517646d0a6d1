/*
 * @module service/meta/quality_rules
 * @description 数据质量评估相关元数据，包括必填字段规则、新鲜度分桶阈值和评分参数
 * @architecture 元数据层
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 静态元数据定义
 * @rules 必填字段规则按实体类型覆盖默认规则，评分参数调整需同步更新质量评估测试
 * @dependencies 无
 * @refs service/sync/quality_evaluator.go
 */

package meta

// DefaultRequiredFields 未配置实体专属规则时的默认必填字段
var DefaultRequiredFields = []string{"id", "name", "updatedAt"}

// RequiredFieldRule 实体专属必填字段规则
type RequiredFieldRule struct {
	Field    string `json:"field"`
	Positive bool   `json:"positive"` // 为true时要求字段为正数
}

// EntityRequiredFields 实体专属必填字段规则，未列出的实体类型使用默认规则
var EntityRequiredFields = map[EntityType][]RequiredFieldRule{
	EntityTypeFund: {
		{Field: "name"},
		{Field: "targetSize", Positive: true},
	},
	EntityTypePortfolioCompany: {
		{Field: "name"},
	},
	EntityTypeLPOrganization: {
		{Field: "name"},
		{Field: "organizationType"},
	},
}

// 新鲜度分桶阈值（分钟）
const (
	FreshnessRealTimeMinutes = 5
	FreshnessMinutesMinutes  = 60
	FreshnessHoursMinutes    = 1440
	FreshnessDaysMinutes     = 10080
)

// 质量评分参数
const (
	// AccuracyMissingFieldPenalty 必填字段缺失的准确度扣减权重
	AccuracyMissingFieldPenalty = 0.3
	// AccuracySmoothingFactor 准确度指数平滑系数（新旧各占一半）
	AccuracySmoothingFactor = 0.5
	// AccuracyAlertThreshold 低于该准确度时产生告警
	AccuracyAlertThreshold = 0.8
	// ConsistencyNumericTolerance 数值字段一致性的相对误差阈值
	ConsistencyNumericTolerance = 0.10
	// StaleWarningDays updatedAt超过该天数时产生数据陈旧警告
	StaleWarningDays = 7
)
