package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrFmtHandler_AddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	err := errors.New("solver blew up")
	logger.Error("fit failed", ErrAttr(err))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "fit failed", entry["msg"])
	assert.Contains(t, entry, ErrAttrKey)
	// cockroachdb のエラーはセーフディテールとしてスタックトレースを持つ
	stack, ok := entry[StacktraceAttrKey].(string)
	require.True(t, ok, "stacktrace attribute missing")
	assert.NotEmpty(t, stack)
}

func TestErrFmtHandler_PlainErrorHasNoStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("no error attached", "key", "value")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, StacktraceAttrKey)
}

func TestErrFmtHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))

	withAttrs := handler.WithAttrs([]slog.Attr{slog.String("component", "qp.smo")})
	logger := slog.New(withAttrs)
	logger.Info("solver started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "qp.smo", entry["component"])

	assert.NotNil(t, handler.WithGroup("svm"))
}
