package natshandler

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"texengine/model"
	"texengine/service"
)

// CompileSubject is the request/reply subject for compile requests.
const CompileSubject = "texengine.compile.request"

// HandleCompileRequest serves one compile over NATS request/reply. Malformed
// requests get an invalid_input response; nothing is silently dropped.
func HandleCompileRequest(msg *nats.Msg, nc *nats.Conn, svc *service.CompileService, logger *zap.Logger) {
	var req model.CompileRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		logger.Warn("failed to parse compile request", zap.Error(err))
		reply(msg, nc, logger, &model.CompileResponse{
			Success:     false,
			FailureKind: model.KindInvalidInput,
			Message:     "invalid request format: " + err.Error(),
		})
		return
	}

	resp := svc.Compile(req.SourceText)
	logger.Info("compile request",
		zap.String("request_id", resp.RequestID),
		zap.Bool("success", resp.Success),
		zap.String("kind", string(resp.FailureKind)))
	reply(msg, nc, logger, resp)
}

func reply(msg *nats.Msg, nc *nats.Conn, logger *zap.Logger, resp *model.CompileResponse) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("failed to marshal compile response", zap.Error(err))
		return
	}
	if err := nc.Publish(msg.Reply, data); err != nil {
		logger.Error("failed to publish compile response", zap.Error(err))
	}
}
