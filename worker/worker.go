package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"videohub-service/metrics"
	"videohub-service/model"
	"videohub-service/service"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ViewRecorder is the part of the video service the worker drives.
type ViewRecorder interface {
	AddView(ctx context.Context, videoID, source string) error
}

// Worker records views that other services publish on NATS.
type Worker struct {
	natsConn   *nats.Conn
	subject    string
	views      ViewRecorder
	log        *zap.Logger
	sub        *nats.Subscription
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func NewWorker(nc *nats.Conn, subject string, views ViewRecorder, log *zap.Logger) *Worker {
	return &Worker{
		natsConn: nc,
		subject:  subject,
		views:    views,
		log:      log,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.ctx, w.cancelFunc = context.WithCancel(ctx)

	sub, err := w.natsConn.Subscribe(w.subject, func(msg *nats.Msg) {
		w.handleViewRequest(w.ctx, msg)
	})
	if err != nil {
		w.cancelFunc()
		return err
	}
	w.sub = sub

	w.log.Info("view worker subscribed", zap.String("subject", w.subject))
	return nil
}

func (w *Worker) Stop() {
	w.log.Info("stopping view worker")
	if w.sub != nil {
		if err := w.sub.Drain(); err != nil {
			w.log.Warn("failed to drain view subscription", zap.Error(err))
		}
	}
	if w.cancelFunc != nil {
		w.cancelFunc()
	}
}

func (w *Worker) handleViewRequest(ctx context.Context, msg *nats.Msg) {
	var req model.ViewRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		metrics.NatsMessagesReceived.WithLabelValues(msg.Subject, "invalid").Inc()
		w.log.Warn("failed to unmarshal view request", zap.Error(err))
		return
	}
	req.VideoID = strings.TrimSpace(req.VideoID)
	if req.VideoID == "" {
		metrics.NatsMessagesReceived.WithLabelValues(msg.Subject, "invalid").Inc()
		w.log.Warn("view request without videoId", zap.String("request_id", req.RequestID))
		return
	}

	if err := w.views.AddView(ctx, req.VideoID, service.ViewSourceNATS); err != nil {
		status := "error"
		if errors.Is(err, service.ErrVideoNotFound) {
			status = "not_found"
		}
		metrics.NatsMessagesReceived.WithLabelValues(msg.Subject, status).Inc()
		w.log.Warn("failed to record view",
			zap.String("video_id", req.VideoID),
			zap.String("request_id", req.RequestID),
			zap.Error(err))
		return
	}

	metrics.NatsMessagesReceived.WithLabelValues(msg.Subject, "success").Inc()
}
