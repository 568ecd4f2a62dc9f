package audio

import "testing"

func TestMixer(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		levels [2]float64
		extra  SignalModule
		want   []float64
	}{
		{
			name:   "none",
			mode:   MixNone,
			levels: [2]float64{1, 1},
			want:   []float64{-2, -2, 0, 0, 0, 2, 2, 2, 2, -2},
		},
		{
			name:   "level",
			mode:   MixNone,
			levels: [2]float64{0.5, 1},
			want:   []float64{-1.5, -1.5, 0.5, 0.5, 0.5, 1.5, 1.5, 1.5, 1.5, -1.5},
		},
		{
			name:   "compress",
			mode:   MixCompress,
			levels: [2]float64{1, 1},
			want:   []float64{-1, -1, 0, 0, 0, 1, 1, 1, 1, -1},
		},
		{
			name:   "compress peak 3",
			mode:   MixCompress,
			levels: [2]float64{1, 1},
			extra:  Constant(1),
			want:   []float64{-1. / 3, -1. / 3, 1. / 3, 1. / 3, 1. / 3, 1, 1, 1, 1, -1. / 3},
		},
		{
			name:   "compress below 1",
			mode:   MixCompress,
			levels: [2]float64{0.25, 0.25},
			want:   []float64{-0.5, -0.5, 0, 0, 0, 0.5, 0.5, 0.5, 0.5, -0.5},
		},
		{
			name:   "limit",
			mode:   MixLimit,
			levels: [2]float64{1, 1},
			extra:  Constant(0.5),
			want:   []float64{-1, -1, 0.5, 0.5, 0.5, 1, 1, 1, 1, -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mixer := NewMixer(NewProps())
			mixer.AddInput(pulse(t, 1, 0.5), 1)
			mixer.AddInput(pulse(t, 1, 0.25), 1)
			if tt.extra != nil {
				mixer.AddInput(tt.extra, 1)
			}
			mustSetProp(t, mixer, "mode", tt.mode)
			mustSetProp(t, mixer, "level.0", tt.levels[0])
			mustSetProp(t, mixer, "level.1", tt.levels[1])

			got := render(t, mixer, 10, 10)
			if !approxEqual(tt.want, got, 1e-9) {
				t.Errorf("wrong samples:\nwant: %v\ngot:  %v", tt.want, got)
			}
		})
	}
}

func TestMixerInputs(t *testing.T) {
	mixer := NewMixer(NewProps())
	if i := mixer.AddInput(Constant(1), 1); i != 0 {
		t.Errorf("first input index: want 0, got %d", i)
	}
	if i := mixer.AddInput(Constant(1), 1); i != 1 {
		t.Errorf("second input index: want 1, got %d", i)
	}
	if mixer.NumInputs() != 2 {
		t.Errorf("want 2 inputs, got %d", mixer.NumInputs())
	}
	if err := mixer.Set("level.2", 1.); err == nil {
		t.Error("expected an error for a level without an input")
	}
	if err := mixer.Set("mode", "loud"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
