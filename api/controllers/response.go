package controllers

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`
}

// SuccessResponse 构造成功响应
func SuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{Status: 0, Msg: "操作成功", Data: data}
}

// ErrorResponse 构造失败响应
func ErrorResponse(msg string) *APIResponse {
	return &APIResponse{Status: 1, Msg: msg}
}
