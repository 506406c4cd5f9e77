package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-training/shopify-token-store/pkg/core"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

/*
addRequestAttributes sets attributes on the current trace span. Without a
recording span the attributes are logged instead, together with the trace and
span IDs when the context carries them.
*/
func addRequestAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
		return
	}

	logAttrs := make([]any, 0, len(attrs)+3)
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(string(attr.Key), attr.Value.AsInterface()))
	}
	logAttrs = append(logAttrs, slog.Bool("observability.fallback", true))
	sc := span.SpanContext()
	if sc.HasTraceID() {
		logAttrs = append(logAttrs, slog.String("trace_id", sc.TraceID().String()))
	}
	if sc.HasSpanID() {
		logAttrs = append(logAttrs, slog.String("span_id", sc.SpanID().String()))
	}
	core.LoggerFromCtx(ctx).Info("MCP tool call", logAttrs...)
}

// argumentNames lists the argument keys of a tool call. Values are left out
// since callback queries carry the signature and the authorization code.
func argumentNames(req mcp.CallToolRequest) string {
	args := req.GetArguments()
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// toolHandlerMiddleware records the tool name, status and duration of every
// MCP tool call.
func toolHandlerMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res, err := next(ctx, req)

			status := "ok"
			var errMsg string
			if err != nil {
				status = "error"
				errMsg = err.Error()
			} else if res != nil && res.IsError {
				status = "error"
				errMsg = "unknown error with no content"
				if len(res.Content) > 0 {
					if txt, ok := res.Content[0].(mcp.TextContent); ok {
						errMsg = txt.Text
					} else {
						errMsg = fmt.Sprintf("unknown error with content type %T", res.Content[0])
					}
				}
			}

			attrs := []attribute.KeyValue{
				attribute.String("mcp.tool", req.Params.Name),
				attribute.String("mcp.arguments", argumentNames(req)),
				attribute.String("mcp.status", status),
				attribute.Float64("mcp.duration_ms", float64(time.Since(start).Microseconds())/1000.0),
			}
			if errMsg != "" {
				attrs = append(attrs, attribute.String("mcp.error", errMsg))
			}
			addRequestAttributes(ctx, attrs...)

			return res, err
		}
	}
}
