package audio

import "testing"

func TestAttenuverter(t *testing.T) {
	tests := []struct {
		name    string
		gain    float64
		control SignalModule
		want    float64
	}{
		{"gain", 0.5, nil, 0.5},
		{"invert", -0.5, nil, -0.5},
		{"control", 0, Constant(0.5), 0.5},
		{"control and gain", 0.25, Constant(0.25), 0.5},
		{"capped", 1, Constant(1), 1},
		{"no gain", 0, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAttenuverter(NewProps())
			a.Signal = Constant(1)
			a.Control = tt.control
			mustSetProp(t, a, "gain", tt.gain)
			got := render(t, a, 4, 4)
			want := []float64{tt.want, tt.want, tt.want, tt.want}
			if !approxEqual(want, got, 1e-9) {
				t.Errorf("want %v, got %v", want, got)
			}
		})
	}
}

func TestAttenuverterNoSignal(t *testing.T) {
	a := NewAttenuverter(NewProps())
	mustSetProp(t, a, "gain", 1.)
	buf := []float64{1, 1}
	if err := a.Fill(buf, info(4, 2)); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("want silence without a signal, got %v", buf)
	}
}
