package audio

import "testing"

func TestProps(t *testing.T) {
	props := NewProps()
	props.MustRegister("level", setLevel, 0.)
	props.MustRegister("on", setBool, false)
	props.MustRegister("mode", setChoice("a", "b"), "a")

	tests := []struct {
		key     string
		value   interface{}
		want    interface{}
		wantErr bool
	}{
		{"level", 3., 3., false},
		{"level", 2, 2., false},
		{"level", 11., nil, true},
		{"level", "loud", nil, true},
		{"on", "on", true, false},
		{"on", false, false, false},
		{"on", "maybe", nil, true},
		{"mode", "b", "b", false},
		{"mode", "c", nil, true},
		{"missing", 1., nil, true},
	}
	for _, tt := range tests {
		err := props.Set(tt.key, tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("set %s=%v: expected an error", tt.key, tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("set %s=%v: %v", tt.key, tt.value, err)
			continue
		}
		if got, _ := props.Get(tt.key); got != tt.want {
			t.Errorf("get %s: want %v, got %v", tt.key, tt.want, got)
		}
	}
}

func TestPropsCopyFrom(t *testing.T) {
	src, dst := NewProps(), NewProps()
	src.MustRegister("a", setUnit, 0.5)
	src.MustRegister("b", setUnit, 0.5)
	dst.MustRegister("a", setUnit, 0.)
	dst.MustRegister("c", setUnit, 0.)

	dst.CopyFrom(src)
	if got, _ := dst.Get("a"); got != 0.5 {
		t.Errorf("a: want 0.5, got %v", got)
	}
	if got, _ := dst.Get("c"); got != 0. {
		t.Errorf("c: want 0, got %v", got)
	}
	if want, got := []string{"a", "c"}, dst.Keys(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("keys: want %v, got %v", want, got)
	}
}
