package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"

	"aiResume/internal/database"
	"aiResume/internal/errcode"
	"aiResume/internal/pdf"
	"aiResume/internal/store"
	"aiResume/internal/tasks"
)

type resumeRepository interface {
	FindByID(ctx context.Context, id string) (*database.Resume, error)
	UpdatePDF(ctx context.Context, id, status, path string) error
}

type objectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// RenderFunc 把 HTML 渲染为 PDF 字节。
type RenderFunc func(ctx context.Context, html string) ([]byte, error)

// stepError 记录失败发生的阶段，用于向前端下发错误码。
type stepError struct {
	code int
	err  error
}

func (e *stepError) Error() string { return e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

// PDFTaskHandler 负责消费 PDF 渲染任务。
type PDFTaskHandler struct {
	resumes  resumeRepository
	storage  objectStore
	notifier Notifier
	render   RenderFunc
	verify   func([]byte) error
	isFinal  func(context.Context) bool
	logger   *slog.Logger
}

// NewPDFTaskHandler 创建任务处理器；render 为空时使用 go-rod 渲染。
func NewPDFTaskHandler(resumes resumeRepository, storage objectStore, notifier Notifier, render RenderFunc, logger *slog.Logger) *PDFTaskHandler {
	if render == nil {
		render = pdf.GeneratePDFFromHTML
	}
	return &PDFTaskHandler{
		resumes:  resumes,
		storage:  storage,
		notifier: notifier,
		render:   render,
		verify:   pdf.Verify,
		isFinal:  isFinalAsynqAttempt,
		logger:   logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *PDFTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	payload, err := tasks.ParsePDFRenderPayload(t)
	if err != nil {
		log.Error("invalid task payload", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("resume_id", payload.ResumeID),
	)
	log.Info("starting resume pdf render")

	record, err := h.resumes.FindByID(ctx, payload.ResumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}
	log = log.With(slog.String("user_id", record.UserID))

	defer func() {
		if retErr == nil || !h.isFinal(ctx) {
			return
		}
		// 任务超时后 ctx 已取消，失败状态与通知仍需写出。
		ctx := context.WithoutCancel(ctx)
		if err := h.resumes.UpdatePDF(ctx, record.ID, database.PDFStatusFailed, ""); err != nil {
			log.Error("mark resume pdf failed", slog.Any("error", err))
		}
		notify := PDFNotifyMessage{
			Status:        NotifyError,
			ResumeID:      record.ID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errorCode(retErr),
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.notifier.Notify(ctx, record.UserID, notify); err != nil {
			log.Error("publish pdf error notification failed", slog.Any("error", err))
		}
	}()

	if err := h.resumes.UpdatePDF(ctx, record.ID, database.PDFStatusProcessing, ""); err != nil {
		log.Error("mark resume processing failed", slog.Any("error", err))
		return err
	}

	objectName, err := h.renderAndUpload(ctx, record)
	if err != nil {
		log.Error("render resume pdf failed", slog.Any("error", err))
		return err
	}

	if err := h.resumes.UpdatePDF(ctx, record.ID, database.PDFStatusCompleted, objectName); err != nil {
		log.Error("update resume failed", slog.Any("error", err))
		return err
	}
	if record.PdfPath != "" && record.PdfPath != objectName {
		if err := h.storage.DeleteObject(ctx, record.PdfPath); err != nil {
			log.Warn("delete stale pdf failed", slog.String("object", record.PdfPath), slog.Any("error", err))
		}
	}

	notify := PDFNotifyMessage{
		Status:        NotifyCompleted,
		ResumeID:      record.ID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := h.notifier.Notify(ctx, record.UserID, notify); err != nil {
		// PDF 已经可用，通知失败不影响下载，不再重试任务。
		log.Warn("publish redis notification failed", slog.Any("error", err))
	}

	log.Info("resume pdf render completed", slog.String("object", objectName))
	return nil
}

func (h *PDFTaskHandler) renderAndUpload(ctx context.Context, record *database.Resume) (string, error) {
	html, err := pdf.RenderHTML(record.ResumeData.Data())
	if err != nil {
		return "", &stepError{code: errcode.RenderFailed, err: err}
	}

	data, err := h.render(ctx, html)
	if err != nil {
		return "", &stepError{code: errcode.RenderFailed, err: err}
	}
	if err := h.verify(data); err != nil {
		return "", &stepError{code: errcode.InvalidDocument, err: err}
	}

	objectName := ObjectKey(record.UserID, record.ID)
	if _, err := h.storage.UploadFile(ctx, objectName, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return "", &stepError{code: errcode.StorageFailed, err: err}
	}
	return objectName, nil
}

// ObjectKey 生成 PDF 在 Bucket 中的对象路径，每次渲染都使用新的路径。
func ObjectKey(userID, resumeID string) string {
	return fmt.Sprintf("generated-resumes/%s/%s-%s.pdf", userID, resumeID, uuid.NewString())
}

func errorCode(err error) int {
	var se *stepError
	if errors.As(err, &se) {
		return se.code
	}
	return errcode.SystemError
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
