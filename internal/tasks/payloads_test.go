package tasks

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFRenderTaskPayload(t *testing.T) {
	task, err := NewPDFRenderTask(PDFRenderPayload{ResumeID: "r-1", UserID: "u-1", CorrelationID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, TypePDFRender, task.Type())

	p, err := ParsePDFRenderPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "r-1", p.ResumeID)
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, "c-1", p.CorrelationID)
}

func TestParsePDFRenderPayloadRejectsBadInput(t *testing.T) {
	_, err := ParsePDFRenderPayload(asynq.NewTask(TypePDFRender, []byte("{")))
	assert.Error(t, err)

	_, err = ParsePDFRenderPayload(asynq.NewTask(TypePDFRender, []byte(`{"user_id":"u"}`)))
	assert.Error(t, err)
}
