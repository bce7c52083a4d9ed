package narrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/artifact-narrator/narrator/internal/locale"
	"github.com/artifact-narrator/narrator/internal/models"
	"github.com/artifact-narrator/narrator/internal/service"
	"github.com/artifact-narrator/narrator/internal/ui"
)

type fakeBackend struct {
	server *httptest.Server

	recognitionCalls atomic.Int32
	narrationCalls   atomic.Int32

	recognitionStatus int
	recognitionBody   string
	narrationStatus   int
	narrationBody     string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		recognitionStatus: http.StatusOK,
		recognitionBody:   `{"success":true,"data":{"artifact_name":"兵马俑","artifact_type":"陶俑","confidence":0.8734,"description":"秦代陶俑","era":"秦朝","image_path":"/tmp/upload/abc.jpg"}}`,
		narrationStatus:   http.StatusOK,
		narrationBody:     `{"success":true,"data":{"narration":"X"}}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(service.RecognitionPath, func(w http.ResponseWriter, r *http.Request) {
		b.recognitionCalls.Add(1)
		w.WriteHeader(b.recognitionStatus)
		_, _ = w.Write([]byte(b.recognitionBody))
	})
	mux.HandleFunc(service.NarrationPath, func(w http.ResponseWriter, r *http.Request) {
		b.narrationCalls.Add(1)
		w.WriteHeader(b.narrationStatus)
		_, _ = w.Write([]byte(b.narrationBody))
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) client() *service.Client {
	return service.NewClient(b.server.URL, 5*time.Second)
}

func image() *models.SelectedFile {
	return &models.SelectedFile{Name: "warrior.jpg", Data: []byte("jpeg")}
}

func TestSubmitWithoutFile(t *testing.T) {
	backend := newFakeBackend(t)
	o := New(backend.client(), locale.Chinese, nil)

	state, err := o.Submit(context.Background(), nil)
	if !errors.Is(err, ErrNoFileSelected) {
		t.Fatalf("Expected ErrNoFileSelected, got %v", err)
	}
	if KindOf(err) != KindNoFileSelected {
		t.Errorf("Expected kind NoFileSelected, got %s", KindOf(err))
	}
	if state.Status != ui.StatusFailed || state.Message != "❌ 请先选择一个图片文件。" || state.Style != ui.StyleError {
		t.Errorf("Unexpected state: %+v", state)
	}
	if n := backend.recognitionCalls.Load() + backend.narrationCalls.Load(); n != 0 {
		t.Errorf("Expected zero network calls, got %d", n)
	}
}

func TestSubmitSuccess(t *testing.T) {
	backend := newFakeBackend(t)

	var statuses []ui.Status
	o := New(backend.client(), locale.Chinese, RendererFunc(func(s ui.State) {
		statuses = append(statuses, s.Status)
	}))

	state, err := o.Submit(context.Background(), image())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if state.Narration != "X" {
		t.Errorf("Expected narration X, got %q", state.Narration)
	}
	if !state.ResultsVisible || state.Status != ui.StatusSucceeded {
		t.Errorf("Expected visible succeeded results, got %+v", state)
	}

	expected := []ui.Status{ui.StatusUploading, ui.StatusRecognized, ui.StatusSucceeded}
	if fmt.Sprint(statuses) != fmt.Sprint(expected) {
		t.Errorf("Expected transitions %v, got %v", expected, statuses)
	}

	var confidence string
	for _, e := range state.Details.Entries {
		if e.Key == models.KeyImagePath || strings.Contains(e.Value, "/tmp/upload/abc.jpg") {
			t.Errorf("Image path rendered: %+v", e)
		}
		if e.Key == models.KeyConfidence {
			confidence = e.Value
		}
	}
	if confidence != "87.34%" {
		t.Errorf("Expected confidence 87.34%%, got %q", confidence)
	}

	if o.State().Narration != "X" {
		t.Errorf("Expected orchestrator state to match returned state")
	}
}

func TestSubmitEmptyRecognitionData(t *testing.T) {
	backend := newFakeBackend(t)
	backend.recognitionBody = `{"success":true,"data":{}}`

	state, err := New(backend.client(), locale.Chinese, nil).Submit(context.Background(), image())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if state.Details.Placeholder != "未识别到文物关键信息。" || len(state.Details.Entries) != 0 {
		t.Errorf("Expected placeholder details, got %+v", state.Details)
	}
}

func TestSubmitRecognitionWithoutData(t *testing.T) {
	for _, body := range []string{`{"success":true}`, `{"success":true,"data":null}`} {
		t.Run(body, func(t *testing.T) {
			backend := newFakeBackend(t)
			backend.recognitionBody = body

			state, err := New(backend.client(), locale.Chinese, nil).Submit(context.Background(), image())
			if KindOf(err) != KindRecognitionLogicalError {
				t.Errorf("Expected RecognitionLogicalError, got %s (%v)", KindOf(err), err)
			}
			if state.Status != ui.StatusFailed || state.Message != "❌ 操作失败: 图片识别失败。" {
				t.Errorf("Unexpected state: %+v", state)
			}
			if got := backend.narrationCalls.Load(); got != 0 {
				t.Errorf("Expected zero narration calls, got %d", got)
			}
		})
	}
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(b *fakeBackend)
		kind          Kind
		message       string
		narrationHits int32
	}{
		{
			name:    "recognition http error",
			setup:   func(b *fakeBackend) { b.recognitionStatus = http.StatusServiceUnavailable },
			kind:    KindRecognitionHTTPError,
			message: "❌ 操作失败: 图像识别服务错误: 503",
		},
		{
			name:    "recognition logical error",
			setup:   func(b *fakeBackend) { b.recognitionBody = `{"success":false,"message":"未识别到已知文物"}` },
			kind:    KindRecognitionLogicalError,
			message: "❌ 操作失败: 未识别到已知文物",
		},
		{
			name:    "recognition logical error default",
			setup:   func(b *fakeBackend) { b.recognitionBody = `{"success":false}` },
			kind:    KindRecognitionLogicalError,
			message: "❌ 操作失败: 图片识别失败。",
		},
		{
			name:          "narration http error",
			setup:         func(b *fakeBackend) { b.narrationStatus = http.StatusInternalServerError },
			kind:          KindNarrationHTTPError,
			message:       "❌ 操作失败: 讲解生成服务错误: 500",
			narrationHits: 1,
		},
		{
			name:          "narration logical error",
			setup:         func(b *fakeBackend) { b.narrationBody = `{"success":false,"error":"API密钥未配置","message":"m"}` },
			kind:          KindNarrationLogicalError,
			message:       "❌ 操作失败: API密钥未配置",
			narrationHits: 1,
		},
		{
			name:          "narration logical error default",
			setup:         func(b *fakeBackend) { b.narrationBody = `{"success":false}` },
			kind:          KindNarrationLogicalError,
			message:       "❌ 操作失败: 讲解生成失败。",
			narrationHits: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(t)
			tt.setup(backend)

			state, err := New(backend.client(), locale.Chinese, nil).Submit(context.Background(), image())
			if err == nil {
				t.Fatal("Expected error")
			}
			if KindOf(err) != tt.kind {
				t.Errorf("Expected kind %s, got %s (%v)", tt.kind, KindOf(err), err)
			}
			if state.Status != ui.StatusFailed || state.Style != ui.StyleError {
				t.Errorf("Expected failed state, got %+v", state)
			}
			if state.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, state.Message)
			}
			if state.Narration != "未能获取讲解文案。请检查后端服务和 API 密钥。" {
				t.Errorf("Expected fallback narration, got %q", state.Narration)
			}
			if state.ResultsVisible {
				t.Errorf("Results must stay hidden after a failure")
			}
			if got := backend.narrationCalls.Load(); got != tt.narrationHits {
				t.Errorf("Expected %d narration calls, got %d", tt.narrationHits, got)
			}
		})
	}
}

type blockingService struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingService) Recognize(ctx context.Context, file models.SelectedFile) (*models.RecognitionResult, error) {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return &models.RecognitionResult{}, nil
}

func (s *blockingService) Narrate(ctx context.Context, request models.NarrationRequest) (*models.NarrationResult, error) {
	return &models.NarrationResult{Narration: "done"}, nil
}

func TestSubmitWhileBusy(t *testing.T) {
	svc := &blockingService{entered: make(chan struct{}), release: make(chan struct{})}
	o := New(svc, locale.English, nil)

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background(), image())
		done <- err
	}()
	<-svc.entered

	if !o.Busy() {
		t.Errorf("Expected orchestrator to be busy")
	}

	state, err := o.Submit(context.Background(), image())
	if !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
	if state.Status != ui.StatusUploading {
		t.Errorf("Busy rejection must not change the view, got %+v", state)
	}

	close(svc.release)
	if err := <-done; err != nil {
		t.Fatalf("Unexpected error from first submit: %v", err)
	}
	if o.State().Narration != "done" {
		t.Errorf("Expected first run to finish, got %+v", o.State())
	}
	if o.Busy() {
		t.Errorf("Expected orchestrator to be idle after the run")
	}
}

func TestSubmitCanceled(t *testing.T) {
	backend := newFakeBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := New(backend.client(), locale.English, nil).Submit(ctx, image())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if KindOf(err) != KindTransport {
		t.Errorf("Expected transport kind, got %s", KindOf(err))
	}
	if !strings.HasPrefix(state.Message, "❌ Operation failed: ") {
		t.Errorf("Unexpected message: %s", state.Message)
	}
}
