package ws

import (
	"encoding/json"
	"os"
	"testing"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestNotifyDeliversToRegisteredClients(t *testing.T) {
	hub := NewHub()
	a := newClient(nil)
	b := newClient(nil)
	hub.register("abcom", a)
	hub.register("abcom", b)

	hub.Notify("abcom", "recipe")

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if ev.Type != "recipe" {
				t.Fatalf("expected event type recipe, got %q", ev.Type)
			}
		default:
			t.Fatal("expected event in send buffer")
		}
	}
}

func TestNotifyWithoutListenersIsLost(t *testing.T) {
	hub := NewHub()

	// 沒有監聽者時直接丟失，不可 panic 也不可排隊
	hub.Notify("abcom", "recipe")

	c := newClient(nil)
	hub.register("abcom", c)
	select {
	case <-c.send:
		t.Fatal("late subscriber must not receive earlier event")
	default:
	}
}

func TestNotifyDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub()
	c := newClient(nil)
	hub.register("abcom", c)

	for i := 0; i < sendBuffer+5; i++ {
		hub.Notify("abcom", "recipe")
	}

	if got := len(c.send); got != sendBuffer {
		t.Fatalf("expected buffer capped at %d, got %d", sendBuffer, got)
	}
}

func TestNotifyScopedToChannel(t *testing.T) {
	hub := NewHub()
	a := newClient(nil)
	b := newClient(nil)
	hub.register("abcom", a)
	hub.register("cdcom", b)

	hub.Notify("abcom", "recipe")

	if len(a.send) != 1 {
		t.Fatalf("expected one event for abcom, got %d", len(a.send))
	}
	if len(b.send) != 0 {
		t.Fatalf("expected no event for cdcom, got %d", len(b.send))
	}
}

func TestUnregisterClosesAndRemoves(t *testing.T) {
	hub := NewHub()
	c := newClient(nil)
	hub.register("abcom", c)
	hub.unregister("abcom", c)

	if _, ok := <-c.send; ok {
		t.Fatal("expected send channel closed after unregister")
	}

	// 重複移除不可重複關閉通道
	hub.unregister("abcom", c)

	hub.Notify("abcom", "recipe")
}
