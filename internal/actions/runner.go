package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/teemow/driveaddon/internal/config"
	"github.com/teemow/driveaddon/internal/drive"
	"github.com/teemow/driveaddon/internal/envelope"
	"github.com/teemow/driveaddon/internal/instrumentation"
	"github.com/teemow/driveaddon/internal/logging"
)

// Action names.
const (
	ActionList     = "list_documents"
	ActionDelete   = "delete_document"
	ActionDownload = "download_document"
)

// Fixed token cost charged by each action on success.
const (
	CostList     = 200
	CostDelete   = 100
	CostDownload = 150
)

// Runner executes actions with optional observability hooks.
// The zero value is ready to use and logs through slog.Default.
type Runner struct {
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger

	// HTTPClient, when set, carries the outbound Drive requests.
	HTTPClient *http.Client

	mu       sync.Mutex
	limiters map[limiterKey]*rate.Limiter
}

// limiterKey identifies a pacing budget: one per addon instance and rate.
type limiterKey struct {
	addonID string
	rps     float64
}

// MsgMissingFileID answers delete and download calls without a file ID.
const MsgMissingFileID = "Missing required parameter: fileId."

var defaultRunner = &Runner{}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// run wraps one action with a span, an audit record and metrics.
func (r *Runner) run(ctx context.Context, action string, cfg *config.AddonConfig, targetID string, body func(ctx context.Context, log *slog.Logger) *envelope.Response) *envelope.Response {
	id := addonID(cfg)
	log := logging.WithAction(r.logger(), action)
	if id != "" {
		log = log.With(logging.AddonID(id))
	}

	ctx, span := instrumentation.StartActionSpan(ctx, action,
		instrumentation.NewSpanAttributeBuilder().WithAddonID(id).WithFileID(targetID).Build()...)
	defer span.End()

	invocation := instrumentation.NewActionInvocation(action).
		WithAddonID(id).
		WithFileID(targetID).
		WithSpanContext(ctx)

	log.Debug("Action started", logging.FileID(targetID))
	resp := body(ctx, log)
	invocation.Complete(resp.Code, resp.Tokens.StepAmount, resp.Message)

	instrumentation.SetSpanResponse(span, resp.Code, resp.Message)
	r.Metrics.RecordAction(ctx, action, id, resp.Code, resp.Tokens.StepAmount, invocation.Duration)
	r.Audit.LogAction(invocation)

	if resp.IsSuccess() {
		log.Info("Action completed", logging.Code(resp.Code), logging.Status(logging.StatusSuccess))
	} else {
		log.Warn("Action failed", logging.Code(resp.Code), logging.Status(logging.StatusError), slog.String("message", resp.Message))
	}
	return resp
}

// resolveToken reads the access token, answering 500 for an unusable
// configuration and 401 for an empty token.
func resolveToken(cfg *config.AddonConfig, cost int) (string, *envelope.Response) {
	token, err := cfg.AccessToken()
	if err != nil {
		return "", envelope.Rejection(http.StatusInternalServerError, cost,
			fmt.Sprintf("Invalid configuration for secrets: %v", err))
	}
	if token == "" {
		return "", envelope.Rejection(http.StatusUnauthorized, cost,
			fmt.Sprintf("Missing '%s' in secrets.", config.SecretAccessToken))
	}
	return token, nil
}

// limiter returns the limiter shared by every call made for cfg, or nil
// when cfg disables pacing.
func (r *Runner) limiter(cfg *config.AddonConfig) *rate.Limiter {
	rps := cfg.RequestsPerSecond()
	if rps <= 0 {
		return nil
	}
	key := limiterKey{addonID: cfg.ID(), rps: rps}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[key]; ok {
		return l
	}
	if r.limiters == nil {
		r.limiters = make(map[limiterKey]*rate.Limiter)
	}
	l := drive.NewLimiter(rps)
	r.limiters[key] = l
	return l
}

func (r *Runner) newClient(ctx context.Context, cfg *config.AddonConfig, token string) (*drive.Client, error) {
	opts := []drive.Option{drive.WithLimiter(r.limiter(cfg))}
	if endpoint := cfg.APIBaseURL(); endpoint != "" {
		opts = append(opts, drive.WithEndpoint(endpoint))
	}
	if r.HTTPClient != nil {
		opts = append(opts, drive.WithHTTPClient(r.HTTPClient))
	}
	return drive.NewClient(ctx, token, opts...)
}

// observe runs a single Drive call inside a client span and records its metrics.
func (r *Runner) observe(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartDriveSpan(ctx, operation)
	defer span.End()

	start := time.Now()
	err := call(ctx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	r.Metrics.RecordDriveOperation(ctx, operation, status, duration)
	logging.WithOperation(r.logger(), operation).Debug("Drive call completed",
		logging.Status(status), slog.Duration("duration", duration))
	return err
}

// remoteFailure maps an error from the drive package to an envelope.
// Transport failures become 503 with transportPrefix; API failures keep the
// upstream status and use message, which picks the text from the APIError.
func remoteFailure(err error, transportPrefix string, message func(*drive.APIError) string) *envelope.Response {
	var apiErr *drive.APIError
	if errors.As(err, &apiErr) {
		return envelope.Failure(apiErr.StatusCode, message(apiErr), nil)
	}

	var transportErr *drive.TransportError
	if errors.As(err, &transportErr) {
		return envelope.Failure(http.StatusServiceUnavailable,
			fmt.Sprintf("%s: %s: %v", transportPrefix, transportErr.Kind(), transportErr.Err), nil)
	}

	return envelope.Failure(http.StatusServiceUnavailable,
		fmt.Sprintf("%s: %T: %v", transportPrefix, err, err), nil)
}

// apiMessage picks error.message, then error_description, then "HTTP <status>".
func apiMessage(apiErr *drive.APIError) string {
	switch {
	case apiErr.Message != "":
		return apiErr.Message
	case apiErr.Description != "":
		return apiErr.Description
	default:
		return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	}
}

func withTimeout(ctx context.Context, cfg *config.AddonConfig) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, cfg.RequestTimeout())
}

func statusOr(code, fallback int) int {
	if code == 0 {
		return fallback
	}
	return code
}

func addonID(cfg *config.AddonConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.ID()
}
