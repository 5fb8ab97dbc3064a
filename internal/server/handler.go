package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jwulff/notesum/internal/api"
	"github.com/jwulff/notesum/internal/apperr"
	"github.com/jwulff/notesum/internal/mailer"
	"github.com/jwulff/notesum/internal/summarizer"
)

type handler struct {
	summarizer summarizer.Summarizer
	mailer     mailer.Mailer
	logger     *zap.Logger
	metrics    *Metrics
}

func (h *handler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, api.MessageResponse{Message: "Meeting Notes Summarizer API"})
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// uploadTranscript returns the UTF-8 contents of the uploaded file.
func (h *handler) uploadTranscript(c echo.Context) error {
	fh, err := c.FormFile(api.UploadField)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return err
		}
		return apperr.ReadFileFailed(err)
	}

	f, err := fh.Open()
	if err != nil {
		return apperr.ReadFileFailed(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return apperr.ReadFileFailed(err)
	}
	if !utf8.Valid(data) {
		return apperr.ReadFileFailed(errors.New("file is not valid UTF-8 text"))
	}

	h.logger.Info("transcript.uploaded",
		zap.String("request_id", getRequestID(c)),
		zap.String("filename", fh.Filename),
		zap.Int("bytes", len(data)),
	)
	return c.JSON(http.StatusOK, api.UploadResponse{Text: string(data), Filename: fh.Filename})
}

func (h *handler) summarize(c echo.Context) error {
	var req api.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return apperr.InvalidPayload(err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperr.InvalidArgument("No transcript text provided")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		req.Prompt = api.DefaultPrompt
	}

	summary, err := h.summarizer.Summarize(c.Request().Context(), req.Text, req.Prompt)
	h.metrics.observeSummary(err)
	if err != nil {
		return apperr.SummaryFailed(err)
	}

	h.logger.Info("summary.generated",
		zap.String("request_id", getRequestID(c)),
		zap.Int("transcript_chars", len(req.Text)),
		zap.Int("summary_chars", len(summary)),
	)
	return c.JSON(http.StatusOK, api.SummarizeResponse{Summary: summary})
}

func (h *handler) sendEmail(c echo.Context) error {
	var req api.EmailRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return apperr.InvalidPayload(err)
	}
	if strings.TrimSpace(req.Subject) == "" {
		req.Subject = api.DefaultSubject
	}

	err := h.mailer.Send(c.Request().Context(), req.Summary, req.Recipients, req.Subject)
	h.metrics.observeEmail(err)
	if err != nil {
		var appErr apperr.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.EmailFailed(fmt.Errorf("send to %d recipients: %w", len(req.Recipients), err))
	}

	h.logger.Info("email.sent",
		zap.String("request_id", getRequestID(c)),
		zap.Int("recipients", len(req.Recipients)),
	)
	return c.JSON(http.StatusOK, api.MessageResponse{Message: "Email sent successfully"})
}
