package clipboard

import (
	"context"
	"errors"
	"testing"
)

func TestFuncAdapter(t *testing.T) {
	var got string
	var w Writer = Func(func(_ context.Context, text string) error {
		got = text
		return nil
	})
	if err := w.WriteText(context.Background(), "hello\n— Ada"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if got != "hello\n— Ada" {
		t.Errorf("got %q", got)
	}
}

func TestFuncAdapterError(t *testing.T) {
	boom := errors.New("denied")
	w := Func(func(context.Context, string) error { return boom })
	if err := w.WriteText(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestSystemCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (System{}).WriteText(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
