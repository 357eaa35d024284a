package logger

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatterFieldOrdering(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "component and sorted fields",
			data: logrus.Fields{
				"component": "store",
				"caller":    "x.go:1",
				"kind":      "submitInput",
				"cell":      "c1",
			},
			message: "dispatched action",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [store] dispatched action cell=c1 kind=submitInput\n",
		},
		{
			name: "no component",
			data: logrus.Fields{
				"caller": "x.go:1",
				"foo":    "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] hello foo=bar\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got := string(out); got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
		})
	}
}
