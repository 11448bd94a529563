package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/jmodel/internal/adapters/logger"
)

func TestPrettyHandler(t *testing.T) {
	tests := []struct {
		name string
		log  func(*slog.Logger)
		want string
	}{
		{
			name: "debug filtered",
			log:  func(l *slog.Logger) { l.Debug("hidden") },
			want: "",
		},
		{
			name: "error icon",
			log:  func(l *slog.Logger) { l.Error("failed") },
			want: "✗ failed\n",
		},
		{
			name: "record attrs",
			log:  func(l *slog.Logger) { l.Info("resolved", "project", "P", "entries", 3) },
			want: "resolved project=P entries=3\n",
		},
		{
			name: "handler attrs and group",
			log: func(l *slog.Logger) {
				l.With("pass", 1).WithGroup("delta").Info("fired", "projects", 2)
			},
			want: "fired pass=1 delta.projects=2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			buf := &bytes.Buffer{}
			tt.log(slog.New(logger.NewPrettyHandler(buf, nil)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
