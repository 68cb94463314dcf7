package audit

import (
	"context"
	"fmt"
	"log/slog"

	"precinct/pkg/requestcontext"
)

// Logger writes audit lines to slog and forwards them to an optional Emitter.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{textLogger: textLogger, emitter: emitter}
}

// Log records action on subject. attributes are slog-style key/value pairs.
//
//	logger.Log(ctx, audit.EventRecordCreated, rec.ID, "name", rec.Name)
func (l *Logger) Log(ctx context.Context, action AuditEvent, subject string, attributes ...any) {
	if l == nil {
		return
	}
	requestID := requestcontext.RequestID(ctx)

	if l.textLogger != nil {
		args := append([]any{"event", string(action), "subject", subject, "log_type", "audit"}, attributes...)
		if requestID != "" {
			args = append(args, "request_id", requestID)
		}
		l.textLogger.InfoContext(ctx, string(action), args...)
	}

	if l.emitter == nil {
		return
	}
	err := l.emitter.Emit(ctx, Event{
		Timestamp:  requestcontext.Now(ctx),
		Action:     string(action),
		Subject:    subject,
		RequestID:  requestID,
		Attributes: toAttributes(attributes),
	})
	if err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", string(action),
		)
	}
}

func toAttributes(kv []any) map[string]string {
	if len(kv) < 2 {
		return nil
	}
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out[key] = fmt.Sprint(kv[i+1])
	}
	return out
}
