package worker

import (
	"context"
	"testing"

	"videohub-service/metrics"
	"videohub-service/service"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const subject = "videos.views.record"

type fakeRecorder struct {
	calls []string
	err   error
}

func (f *fakeRecorder) AddView(_ context.Context, videoID, source string) error {
	f.calls = append(f.calls, videoID+"/"+source)
	return f.err
}

func received(status string) float64 {
	return testutil.ToFloat64(metrics.NatsMessagesReceived.WithLabelValues(subject, status))
}

func TestHandleViewRequest(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewWorker(nil, subject, rec, zap.NewNop())

	before := received("success")
	w.handleViewRequest(context.Background(), &nats.Msg{Subject: subject, Data: []byte(`{"videoId":" abc "}`)})

	assert.Equal(t, []string{"abc/" + service.ViewSourceNATS}, rec.calls)
	assert.Equal(t, before+1, received("success"))
}

func TestHandleViewRequestInvalid(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewWorker(nil, subject, rec, zap.NewNop())

	before := received("invalid")
	w.handleViewRequest(context.Background(), &nats.Msg{Subject: subject, Data: []byte(`not json`)})
	w.handleViewRequest(context.Background(), &nats.Msg{Subject: subject, Data: []byte(`{"videoId":""}`)})

	assert.Empty(t, rec.calls)
	assert.Equal(t, before+2, received("invalid"))
}

func TestHandleViewRequestMissingVideo(t *testing.T) {
	rec := &fakeRecorder{err: service.ErrVideoNotFound}
	w := NewWorker(nil, subject, rec, zap.NewNop())

	before := received("not_found")
	w.handleViewRequest(context.Background(), &nats.Msg{Subject: subject, Data: []byte(`{"videoId":"gone"}`)})

	assert.Len(t, rec.calls, 1)
	assert.Equal(t, before+1, received("not_found"))
}
