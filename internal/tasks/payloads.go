package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePDFRender = "pdf:render"
)

// PDFRenderPayload 描述渲染一份简历 PDF 所需的最小信息。
type PDFRenderPayload struct {
	ResumeID      string `json:"resume_id"`
	UserID        string `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewPDFRenderTask 构造一个简历 PDF 渲染任务。
// 以 resume id 作为任务 ID，重复点击下载时不会重复入队。
func NewPDFRenderTask(p PDFRenderPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePDFRender, payload, asynq.TaskID(TaskID(p.ResumeID)), asynq.MaxRetry(3)), nil
}

// ParsePDFRenderPayload 解析任务载荷。
func ParsePDFRenderPayload(task *asynq.Task) (PDFRenderPayload, error) {
	var p PDFRenderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal %s payload: %w", task.Type(), err)
	}
	if p.ResumeID == "" {
		return p, fmt.Errorf("%s payload missing resume_id", task.Type())
	}
	return p, nil
}

// TaskID 返回某份简历渲染任务的唯一 ID。
func TaskID(resumeID string) string {
	return "pdf-render:" + resumeID
}
