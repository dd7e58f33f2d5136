package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"aiResume/internal/api/middleware"
	"aiResume/internal/database"
	"aiResume/internal/pipeline"
	"aiResume/internal/resume"
	"aiResume/internal/store"
	"aiResume/internal/tasks"
)

// ResumeGenerator 执行一次完整的简历生成流水线。
type ResumeGenerator interface {
	Generate(ctx context.Context, userID string) (*database.Resume, error)
}

// TaskEnqueuer 是 asynq.Client 的入队能力。
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PDFStorage 提供已渲染 PDF 的存在性检查与下载签名。
type PDFStorage interface {
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
	PresignedDownloadURL(ctx context.Context, objectKey string, ttl time.Duration, filename string) (string, error)
}

// ResumeHandler 负责简历的生成、查询与 PDF 下载。
type ResumeHandler struct {
	resumes     *store.Resumes
	generator   ResumeGenerator
	queue       TaskEnqueuer
	storage     PDFStorage
	downloadTTL time.Duration
}

func NewResumeHandler(resumes *store.Resumes, generator ResumeGenerator, queue TaskEnqueuer, storage PDFStorage, downloadTTL time.Duration) *ResumeHandler {
	if downloadTTL <= 0 {
		downloadTTL = 5 * time.Minute
	}
	return &ResumeHandler{
		resumes:     resumes,
		generator:   generator,
		queue:       queue,
		storage:     storage,
		downloadTTL: downloadTTL,
	}
}

type resumeResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	ProfileID       string          `json:"profile_id"`
	ResumeData      resume.Document `json:"resume_data"`
	ExpertiseReport resume.Analysis `json:"expertise_report"`
	PdfPath         *string         `json:"pdf_path"`
	PdfStatus       string          `json:"pdf_status,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func newResumeResponse(r *database.Resume) resumeResponse {
	resp := resumeResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		ProfileID:       r.ProfileID,
		ResumeData:      r.ResumeData.Data(),
		ExpertiseReport: r.ExpertiseReport.Data(),
		PdfStatus:       r.PdfStatus,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.PdfPath != "" {
		path := r.PdfPath
		resp.PdfPath = &path
	}
	return resp
}

// List 按创建时间倒序返回当前用户的全部简历。
func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	records, err := h.resumes.ListByUserID(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrInvalidID) {
		middleware.LoggerFromContext(c).Error("list resumes failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	out := make([]resumeResponse, 0, len(records))
	for i := range records {
		out = append(out, newResumeResponse(&records[i]))
	}
	c.JSON(http.StatusOK, gin.H{"resumes": out})
}

// Latest 返回最近生成的一份简历。
func (h *ResumeHandler) Latest(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	record, err := h.resumes.FindLatestByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No resume found"})
			return
		}
		middleware.LoggerFromContext(c).Error("load latest resume failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resume": newResumeResponse(record)})
}

// Generate 同步执行生成流水线并返回新简历。
func (h *ResumeHandler) Generate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	logger := middleware.LoggerFromContext(c)
	record, err := h.generator.Generate(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrProfileNotFound):
			NotFound(c, "Profile not found. Please create a profile first.")
		case errors.Is(err, pipeline.ErrUserNotFound):
			NotFound(c, "User not found")
		default:
			logger.Error("resume generation failed", slog.Any("error", err))
			Internal(c, "Failed to generate resume")
		}
		return
	}

	logger.Info("resume generated", slog.String("resume_id", record.ID))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Resume generated successfully",
		"resume":  newResumeResponse(record),
	})
}

// Get 返回单份简历，只允许所有者访问。
func (h *ResumeHandler) Get(c *gin.Context) {
	record, ok := h.ownedResume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"resume": newResumeResponse(record)})
}

// Expertise 只返回简历附带的能力评估报告。
func (h *ResumeHandler) Expertise(c *gin.Context) {
	record, ok := h.ownedResume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"expertise_report": record.ExpertiseReport.Data()})
}

// Download 在 PDF 就绪时返回预签名链接；否则将渲染任务入队并返回 202。
func (h *ResumeHandler) Download(c *gin.Context) {
	record, ok := h.ownedResume(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("resume_id", record.ID))

	switch record.PdfStatus {
	case database.PDFStatusFailed:
		Unavailable(c, "PDF unavailable")
		return
	case database.PDFStatusPending, database.PDFStatusProcessing:
		c.JSON(http.StatusAccepted, gin.H{"message": "PDF generation in progress", "status": record.PdfStatus})
		return
	case database.PDFStatusCompleted:
		if record.PdfPath != "" {
			exists, err := h.storage.ObjectExists(ctx, record.PdfPath)
			if err != nil {
				logger.Error("check pdf object failed", slog.Any("error", err))
				Internal(c, "failed to check pdf")
				return
			}
			if exists {
				signedURL, err := h.storage.PresignedDownloadURL(ctx, record.PdfPath, h.downloadTTL, "resume-"+record.ID+".pdf")
				if err != nil {
					logger.Error("presign pdf failed", slog.Any("error", err))
					Internal(c, "failed to generate download link")
					return
				}
				c.JSON(http.StatusOK, gin.H{
					"download_url": signedURL,
					"expires_in":   int(h.downloadTTL.Seconds()),
				})
				return
			}
			logger.Warn("pdf object missing, re-rendering", slog.String("pdf_path", record.PdfPath))
		}
	}

	task, err := tasks.NewPDFRenderTask(tasks.PDFRenderPayload{
		ResumeID:      record.ID,
		UserID:        record.UserID,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		logger.Error("build pdf task failed", slog.Any("error", err))
		Internal(c, "failed to create task")
		return
	}
	// 先标记 pending 再入队，worker 写入的 processing/completed 才不会被覆盖。
	if err := h.resumes.UpdatePDF(ctx, record.ID, database.PDFStatusPending, ""); err != nil {
		logger.Error("mark pdf pending failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if _, err := h.queue.Enqueue(task); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Error("enqueue pdf task failed", slog.Any("error", err))
		if rbErr := h.resumes.UpdatePDF(context.WithoutCancel(ctx), record.ID, record.PdfStatus, ""); rbErr != nil {
			logger.Error("restore pdf status failed", slog.Any("error", rbErr))
		}
		Internal(c, "failed to enqueue pdf generation")
		return
	}

	logger.Info("pdf render queued")
	c.JSON(http.StatusAccepted, gin.H{
		"message": "PDF generation request accepted",
		"status":  database.PDFStatusPending,
	})
}

func (h *ResumeHandler) ownedResume(c *gin.Context) (*database.Resume, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}

	record, err := h.resumes.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			NotFound(c, "Resume not found")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("load resume failed", slog.Any("error", err))
		Internal(c, "internal error")
		return nil, false
	}
	if record.UserID != userID {
		Forbidden(c, "Access denied")
		return nil, false
	}
	return record, true
}
