package natskv

import (
	"strings"
	"testing"
)

func TestKVKey(t *testing.T) {
	k := kvKey("user-1:POST /api/v1/deals:abc def/ghi")
	if len(k) != 64 {
		t.Fatalf("key length = %d, want 64", len(k))
	}
	if strings.ContainsAny(k, " :/*>") {
		t.Fatalf("key %q contains characters NATS KV rejects", k)
	}
	if kvKey("a") == kvKey("b") {
		t.Fatal("distinct keys must not collide")
	}
	if kvKey("a") != kvKey("a") {
		t.Fatal("key mapping must be stable")
	}
}
