package errcode

// 错误码约定（随 WebSocket 通知下发给前端）：
// - 0：无错误
// - 5xxx：PDF 渲染流程中的系统错误
const (
	OK              = 0
	SystemError     = 5000
	RenderFailed    = 5001
	InvalidDocument = 5002
	StorageFailed   = 5003
)
