package audio

import (
	"reflect"
	"testing"
)

func TestNoise(t *testing.T) {
	a := render(t, NewNoise(NewProps(), 1), 100, 1000)
	b := render(t, NewNoise(NewProps(), 1), 100, 1000)
	if !reflect.DeepEqual(a, b) {
		t.Error("noise with the same seed should be equal")
	}
	var sum float64
	for i, s := range a {
		if s < -1 || s > 1 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
		sum += s
	}
	if mean := sum / float64(len(a)); mean < -0.1 || mean > 0.1 {
		t.Errorf("mean should be close to 0, got %v", mean)
	}
}
