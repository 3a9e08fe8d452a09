package mathx_test

import (
	"fmt"
	"testing"

	"github.com/radiodyne/rxstim/mathx"
)

func ExampleClamp() {
	fmt.Println(mathx.Clamp(-0.5, 0, 1))
	fmt.Println(mathx.Clamp(0.25, 0, 1))
	fmt.Println(mathx.Clamp(7, 0, 1))
	// Output:
	// 0
	// 0.25
	// 1
}

func TestRound(t *testing.T) {
	if got := mathx.Round(1.26, 0.1); got != 1.3 {
		t.Errorf("expected 1.3, got %g", got)
	}
	if got := mathx.Round(3.14159, 0.01); got != 3.14 {
		t.Errorf("expected 3.14, got %g", got)
	}
}
