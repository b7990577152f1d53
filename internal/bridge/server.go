package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/HandyWote/Translater/internal/lang"
	"github.com/HandyWote/Translater/internal/output"
	"github.com/HandyWote/Translater/internal/pipeline"
	"github.com/HandyWote/Translater/internal/prompts"
	"github.com/HandyWote/Translater/internal/settings"
	"github.com/HandyWote/Translater/internal/uistate"
)

// Prompts is the ComposePrompts response.
type Prompts struct {
	Extract   string `json:"extract"`
	Translate string `json:"translate"`
	Direct    string `json:"direct"`
}

// Deps are the collaborators the service delegates to.
type Deps struct {
	Store     *settings.Store
	Sections  *uistate.State
	Deliverer *output.Deliverer
	Keys      pipeline.Keys
	Logger    *slog.Logger
}

// Service implements Server on top of the settings store and section state.
type Service struct {
	deps Deps
}

// NewService constructs the bridge service.
func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// NewServer returns a grpc.Server with the bridge and health services
// registered.
func NewServer(svc Server, opts ...grpc.ServerOption) *grpc.Server {
	server := grpc.NewServer(opts...)
	server.RegisterService(&ServiceDesc, svc)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, hs)
	return server
}

// Serve runs server on listener until ctx is cancelled, then drains in-flight
// calls.
func Serve(ctx context.Context, listener net.Listener, server *grpc.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		server.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve bridge: %w", err)
	}
}

// GetSettings returns the stored settings record.
func (s *Service) GetSettings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	current, err := s.current()
	if err != nil {
		return nil, err
	}
	return encode(settings.Denormalize(current))
}

// SaveSettings normalizes and persists the request record and returns what
// was stored.
func (s *Service) SaveSettings(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.deps.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "settings store is not configured")
	}
	saved, err := s.deps.Store.Save(settings.Normalize(in.AsMap()))
	if err != nil {
		s.logError("save settings failed", err)
		return nil, status.Errorf(codes.Internal, "save settings: %v", err)
	}
	return encode(settings.Denormalize(saved))
}

// NormalizeSettings normalizes the request record without persisting it.
func (s *Service) NormalizeSettings(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return encode(settings.Denormalize(settings.Normalize(in.AsMap())))
}

// ComposePrompts resolves all three prompts for the request's "settings"
// object, or for the stored settings when absent.
func (s *Service) ComposePrompts(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := s.requestSettings(in)
	if err != nil {
		return nil, err
	}
	vars := pipeline.Vars(cfg)
	return encode(Prompts{
		Extract:   prompts.ComposeExtraction(cfg.ExtractPrompt, vars),
		Translate: prompts.ComposeTranslation(cfg.TranslatePrompt, vars),
		Direct:    prompts.BuildDirect(vars),
	})
}

// PlanRequest returns the backend call plan for the request's "source".
func (s *Service) PlanRequest(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	src, err := pipeline.ParseSource(stringField(in, "source"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	cfg, err := s.requestSettings(in)
	if err != nil {
		return nil, err
	}
	return encode(pipeline.Build(cfg, src, s.deps.Keys))
}

// DisplayName resolves the request's "code".
func (s *Service) DisplayName(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	code := stringField(in, "code")
	return encode(map[string]any{"code": code, "name": lang.DisplayName(code)})
}

// Deliver applies clipboard and toast effects for the request's "text".
func (s *Service) Deliver(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.deps.Deliverer == nil {
		return nil, status.Error(codes.FailedPrecondition, "result delivery is not configured")
	}
	cfg, err := s.current()
	if err != nil {
		return nil, err
	}
	delivery, err := s.deps.Deliverer.Deliver(ctx, cfg, stringField(in, "text"))
	if err != nil {
		s.logError("deliver result failed", err)
		return nil, status.Errorf(codes.Internal, "deliver: %v", err)
	}
	return encode(delivery)
}

// Sections returns the section state snapshot.
func (s *Service) Sections(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	if s.deps.Sections == nil {
		return nil, status.Error(codes.FailedPrecondition, "section state is not configured")
	}
	return encode(s.deps.Sections.Snapshot())
}

// ToggleSection flips the request's "section".
func (s *Service) ToggleSection(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.deps.Sections == nil {
		return nil, status.Error(codes.FailedPrecondition, "section state is not configured")
	}
	_, err := s.deps.Sections.Toggle(uistate.Section(stringField(in, "section")))
	if err := sectionStatus(err, s.deps.Logger); err != nil {
		return nil, err
	}
	return encode(s.deps.Sections.Snapshot())
}

// ActivateCategory switches to the request's "category".
func (s *Service) ActivateCategory(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.deps.Sections == nil {
		return nil, status.Error(codes.FailedPrecondition, "section state is not configured")
	}
	snap, err := s.deps.Sections.Activate(uistate.Category(stringField(in, "category")))
	if err := sectionStatus(err, s.deps.Logger); err != nil {
		return nil, err
	}
	return encode(snap)
}

// current loads stored settings; load warnings are logged, not returned.
func (s *Service) current() (settings.Settings, error) {
	if s.deps.Store == nil {
		return settings.Default(), nil
	}
	loaded, err := s.deps.Store.Load()
	if err != nil {
		s.logError("load settings failed", err)
		return settings.Settings{}, status.Errorf(codes.Internal, "load settings: %v", err)
	}
	for _, w := range loaded.Warnings {
		if s.deps.Logger != nil && loaded.Exists {
			s.deps.Logger.Warn("settings warning", "message", w.Message)
		}
	}
	return loaded.Settings, nil
}

func (s *Service) requestSettings(in *structpb.Struct) (settings.Settings, error) {
	if raw := objectField(in, "settings"); raw != nil {
		return settings.Normalize(raw), nil
	}
	return s.current()
}

func (s *Service) logError(message string, err error) {
	if s.deps.Logger == nil || err == nil {
		return
	}
	s.deps.Logger.Error(message, "error", err.Error())
}

// sectionStatus maps unknown names to InvalidArgument. Persist failures keep
// the in-memory change and are only logged.
func sectionStatus(err error, logger *slog.Logger) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, uistate.ErrUnknownSection), errors.Is(err, uistate.ErrUnknownCategory):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		if logger != nil {
			logger.Warn("persist section state failed", "error", err.Error())
		}
		return nil
	}
}
