package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Codec hooks
	c := NoopCodecHooks{}
	c.OnSaveStart(ctx, "intro")
	c.OnSaveComplete(ctx, "intro", 3, 4, time.Second, nil)
	c.OnLoadStart(ctx, "intro")
	c.OnLoadComplete(ctx, "intro", 3, 4, time.Second, nil)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnRead(ctx, "file", "intro", true, time.Millisecond, nil)
	s.OnWrite(ctx, "file", "intro", time.Millisecond, nil)
	s.OnDelete(ctx, "file", "intro", nil)

	// Cache hooks
	k := NoopCacheHooks{}
	k.OnCacheHit(ctx, "render")
	k.OnCacheMiss(ctx, "render")
	k.OnCacheSet(ctx, "render", 1024)

	// Render hooks
	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "svg", 5)
	r.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Codec().(NoopCodecHooks); !ok {
		t.Error("Codec() should return NoopCodecHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}

	customCodec := &testCodecHooks{}
	SetCodecHooks(customCodec)
	if Codec() != customCodec {
		t.Error("SetCodecHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	Reset()
	if _, ok := Codec().(NoopCodecHooks); !ok {
		t.Error("Reset() should restore NoopCodecHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testCodecHooks{}
	SetCodecHooks(custom)

	// Setting nil should be ignored
	SetCodecHooks(nil)

	if Codec() != custom {
		t.Error("SetCodecHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testCodecHooks struct{ NoopCodecHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testRenderHooks struct{ NoopRenderHooks }
