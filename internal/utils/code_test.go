package utils

import (
	"strings"
	"testing"
)

func TestRandomRoomCodeLength(t *testing.T) {
	for _, n := range []int{1, 4, 6, 12} {
		if got := RandomRoomCode(n); len(got) != n {
			t.Fatalf("length: want=%d got=%d (%q)", n, len(got), got)
		}
	}
}

func TestRandomRoomCodeDefaultsOnNonPositive(t *testing.T) {
	if got := RandomRoomCode(0); len(got) != 6 {
		t.Fatalf("default length: want=6 got=%d", len(got))
	}
	if got := RandomRoomCode(-3); len(got) != 6 {
		t.Fatalf("default length: want=6 got=%d", len(got))
	}
}

func TestRandomRoomCodeAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := RandomRoomCode(8)
		for _, ch := range code {
			if !strings.ContainsRune(roomCodeAlphabet, ch) {
				t.Fatalf("character %q outside alphabet in %q", ch, code)
			}
		}
		if strings.ContainsAny(code, "01OI") {
			t.Fatalf("ambiguous character in %q", code)
		}
	}
}
