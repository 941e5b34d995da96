package dto

// SceneStrRequest 轮询扫码登录状态的请求体
type SceneStrRequest struct {
	SceneStr string `json:"sceneStr" binding:"required"`
}
