/*
 * @module service/datasync/quality_evaluator
 * @description 数据质量评估器，对到达的实体快照计算新鲜度、准确度、完整度、一致性和校验状态
 * @architecture 分层架构 - 数据质量服务层，纯函数式评估
 * @documentReference dev_docs/cross_module_sync_req.md
 * @stateFlow 事件到达 -> 必填字段检查 -> 各维度评分 -> 校验状态判定
 * @rules errors非空时校验状态必须为ERROR；准确度使用0.5系数的一步指数平滑；数值一致性容差为相对误差10%
 * @dependencies datasync-service/service/models, datasync-service/service/meta, github.com/spf13/cast
 * @refs service/datasync/sync_service.go, service/meta/quality_rules.go
 */

package datasync

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"datasync-service/service/meta"
	"datasync-service/service/models"
)

// QualityEvaluator 数据质量评估器
type QualityEvaluator struct{}

// NewQualityEvaluator 创建质量评估器实例
func NewQualityEvaluator() *QualityEvaluator {
	return &QualityEvaluator{}
}

// Evaluate 评估实体快照的数据质量
// previous 为该实体上一次的质量指标，previousData 为上一次缓存的快照，均可为nil
func (e *QualityEvaluator) Evaluate(entityType meta.EntityType, data map[string]interface{},
	previous *models.DataQualityIndicator, previousData map[string]interface{},
	source string, now time.Time) *models.DataQualityIndicator {

	indicator := &models.DataQualityIndicator{
		LastUpdated:  now,
		Source:       source,
		Freshness:    FreshnessForAge(0),
		Completeness: e.evaluateCompleteness(data),
		Consistency:  e.evaluateConsistency(data, previousData),
		Warnings:     make([]string, 0),
		Errors:       make([]string, 0),
	}

	accuracy, missingErrors := e.evaluateAccuracy(entityType, data)
	if previous != nil {
		// 一步指数平滑，新旧准确度各占一半
		accuracy = previous.Accuracy*(1-meta.AccuracySmoothingFactor) + accuracy*meta.AccuracySmoothingFactor
	}
	indicator.Accuracy = clamp01(accuracy)

	if !fieldFilled(data["id"]) {
		indicator.Errors = append(indicator.Errors, "缺少必填字段: id")
	}
	indicator.Errors = append(indicator.Errors, missingErrors...)

	if updatedAt, ok := data["updatedAt"]; !ok || !fieldFilled(updatedAt) {
		indicator.Warnings = append(indicator.Warnings, "缺少字段: updatedAt")
	} else if t, err := cast.ToTimeE(updatedAt); err == nil {
		if now.Sub(t) > time.Duration(meta.StaleWarningDays)*24*time.Hour {
			indicator.Warnings = append(indicator.Warnings,
				fmt.Sprintf("updatedAt超过%d天未更新", meta.StaleWarningDays))
		}
	}

	if len(indicator.Errors) > 0 {
		indicator.ValidationStatus = meta.ValidationError
	} else {
		indicator.ValidationStatus = meta.ValidationValidated
	}

	return indicator
}

// evaluateAccuracy 计算准确度并返回实体专属必填字段检查失败的错误
// 准确度从1.0起步，按缺失必填字段占比扣减0.3权重
func (e *QualityEvaluator) evaluateAccuracy(entityType meta.EntityType,
	data map[string]interface{}) (float64, []string) {

	accuracy := 1.0
	errors := make([]string, 0)

	rules, hasEntityRules := meta.EntityRequiredFields[entityType]
	if hasEntityRules {
		missing := 0
		for _, rule := range rules {
			if !e.checkRequiredField(data, rule) {
				missing++
				errors = append(errors, fmt.Sprintf("%s实体缺少有效必填字段: %s", entityType, rule.Field))
			}
		}
		accuracy -= meta.AccuracyMissingFieldPenalty * float64(missing) / float64(len(rules))
		return clamp01(accuracy), errors
	}

	missing := 0
	for _, field := range meta.DefaultRequiredFields {
		if !fieldFilled(data[field]) {
			missing++
		}
	}
	accuracy -= meta.AccuracyMissingFieldPenalty * float64(missing) / float64(len(meta.DefaultRequiredFields))
	return clamp01(accuracy), errors
}

// checkRequiredField 检查单条必填字段规则
func (e *QualityEvaluator) checkRequiredField(data map[string]interface{}, rule meta.RequiredFieldRule) bool {
	value, ok := data[rule.Field]
	if !ok || !fieldFilled(value) {
		return false
	}
	if rule.Positive {
		number, err := cast.ToFloat64E(value)
		if err != nil || number <= 0 {
			return false
		}
	}
	return true
}

// evaluateCompleteness 计算完整度：已填写字段数/总字段数
func (e *QualityEvaluator) evaluateCompleteness(data map[string]interface{}) float64 {
	if len(data) == 0 {
		return 0
	}

	filled := 0
	for _, value := range data {
		if fieldFilled(value) {
			filled++
		}
	}
	return float64(filled) / float64(len(data))
}

// evaluateConsistency 与上一次缓存快照逐字段比较
// 数值字段相对误差小于10%视为一致，其余字段要求完全相等；无公共字段或无历史快照时为1.0
func (e *QualityEvaluator) evaluateConsistency(data, previousData map[string]interface{}) float64 {
	if len(previousData) == 0 {
		return 1.0
	}

	common := 0
	matching := 0
	for field, value := range data {
		previousValue, ok := previousData[field]
		if !ok {
			continue
		}
		common++
		if fieldsConsistent(value, previousValue) {
			matching++
		}
	}

	if common == 0 {
		return 1.0
	}
	return float64(matching) / float64(common)
}

// fieldsConsistent 判断新旧字段值是否一致
func fieldsConsistent(value, previousValue interface{}) bool {
	newNumber, newErr := cast.ToFloat64E(value)
	oldNumber, oldErr := cast.ToFloat64E(previousValue)
	if newErr == nil && oldErr == nil {
		if oldNumber == 0 {
			return newNumber == 0
		}
		diff := newNumber - oldNumber
		if diff < 0 {
			diff = -diff
		}
		return diff/abs(oldNumber) < meta.ConsistencyNumericTolerance
	}
	return cast.ToString(value) == cast.ToString(previousValue)
}

// FreshnessForAge 按数据年龄分桶计算新鲜度等级
func FreshnessForAge(age time.Duration) meta.FreshnessLevel {
	minutes := age.Minutes()
	switch {
	case minutes < meta.FreshnessRealTimeMinutes:
		return meta.FreshnessRealTime
	case minutes < meta.FreshnessMinutesMinutes:
		return meta.FreshnessMinutes
	case minutes < meta.FreshnessHoursMinutes:
		return meta.FreshnessHours
	case minutes < meta.FreshnessDaysMinutes:
		return meta.FreshnessDays
	default:
		return meta.FreshnessStale
	}
}

// fieldFilled 判断字段是否已填写，nil和空字符串视为未填写
func fieldFilled(value interface{}) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok && s == "" {
		return false
	}
	return true
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
