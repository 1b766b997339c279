package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestErrorKeepsContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithPharmacyID(ctx, "ph-1")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"pharmacy_id\"")) {
		t.Fatalf("expected pharmacy_id to be preserved; entry=%s", buf.String())
	}
}

func TestNestedFieldsAccumulate(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})

	ctx := log.WithFields(context.Background(), map[string]any{"a": 1})
	ctx = log.WithFields(ctx, map[string]any{"b": 2})
	log.Info(ctx, "hello")

	for _, key := range []string{"\"a\"", "\"b\"", "\"service\""} {
		if !bytes.Contains(buf.Bytes(), []byte(key)) {
			t.Fatalf("expected %s in entry %s", key, buf.String())
		}
	}
}
