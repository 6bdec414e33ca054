package schedule

import (
	"testing"
	"time"
)

func TestBuildSingleBlock(t *testing.T) {
	// The last block never carries a major break, so 4 cycles yield
	// exactly 4 plain work/break pairs.
	cfg := Config{
		Work:   25 * time.Minute,
		Break:  5 * time.Minute,
		Blocks: []Block{{Cycles: 4, MajorBreak: 30 * time.Minute}},
	}.Normalize()

	tl := Build(cfg)
	if tl.Kind() != Finite {
		t.Fatalf("Kind = %v, want Finite", tl.Kind())
	}
	if tl.Len() != 8 {
		t.Fatalf("Len = %d, want 8", tl.Len())
	}
	for i := 0; i < tl.Len(); i++ {
		want := Work
		if i%2 == 1 {
			want = Break
		}
		if tl.At(i).Kind != want {
			t.Errorf("segment %d kind = %s, want %s", i, tl.At(i).Kind, want)
		}
	}
}

func TestBuildMajorBreakPlacement(t *testing.T) {
	cfg := Config{
		Work:  25 * time.Minute,
		Break: 5 * time.Minute,
		Blocks: []Block{
			{Cycles: 2, MajorBreak: 10 * time.Minute},
			{Cycles: 1, MajorBreak: 0},
		},
	}.Normalize()

	tl := Build(cfg)
	want := []Kind{Work, Break, Work, MajorBreak, Work, Break}
	if tl.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", tl.Len(), len(want))
	}
	for i, k := range want {
		if tl.At(i).Kind != k {
			t.Errorf("segment %d kind = %s, want %s", i, tl.At(i).Kind, k)
		}
	}
	if d := tl.At(3).Duration; d != 10*time.Minute {
		t.Errorf("major break duration = %s, want 10m", d)
	}
}

func TestBuildZeroMajorBreakEmitsPlainBreak(t *testing.T) {
	cfg := Config{
		Work:  10 * time.Minute,
		Break: 2 * time.Minute,
		Blocks: []Block{
			{Cycles: 1, MajorBreak: 0},
			{Cycles: 1, MajorBreak: 0},
		},
	}

	tl := Build(cfg)
	for i := 0; i < tl.Len(); i++ {
		if tl.At(i).Kind == MajorBreak {
			t.Errorf("segment %d is a major break, want none", i)
		}
	}
}

func TestBuildLoop(t *testing.T) {
	cfg := Config{Work: 25 * time.Minute, Break: 5 * time.Minute, Loop: true}

	tl := Build(cfg)
	if tl.Kind() != Looping {
		t.Fatalf("Kind = %v, want Looping", tl.Kind())
	}
	if tl.Len() != 40 {
		t.Fatalf("initial Len = %d, want 40", tl.Len())
	}

	tl.Extend(cfg)
	if tl.Len() != 80 {
		t.Fatalf("Len after Extend = %d, want 80", tl.Len())
	}
	for i := 0; i < tl.Len(); i++ {
		want := Work
		if i%2 == 1 {
			want = Break
		}
		if tl.At(i).Kind != want {
			t.Fatalf("segment %d kind = %s, want %s", i, tl.At(i).Kind, want)
		}
	}
}

func TestExtendFiniteIsNoop(t *testing.T) {
	cfg := Config{
		Work:   25 * time.Minute,
		Break:  5 * time.Minute,
		Blocks: []Block{{Cycles: 1}},
	}
	tl := Build(cfg)
	tl.Extend(cfg)
	if tl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tl.Len())
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		Work:  25 * time.Minute,
		Break: 5 * time.Minute,
		Blocks: []Block{
			{Cycles: 2, MajorBreak: 15 * time.Minute},
			{Cycles: 2, MajorBreak: 30 * time.Minute},
		},
	}

	norm := cfg.Normalize()
	if norm.Blocks[0].MajorBreak != 15*time.Minute {
		t.Errorf("block 0 major break = %s, want 15m", norm.Blocks[0].MajorBreak)
	}
	if norm.Blocks[1].MajorBreak != 0 {
		t.Errorf("last block major break = %s, want 0", norm.Blocks[1].MajorBreak)
	}
	// Original must not be mutated.
	if cfg.Blocks[1].MajorBreak != 30*time.Minute {
		t.Errorf("Normalize mutated the original config")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Work:   25 * time.Minute,
		Break:  5 * time.Minute,
		Blocks: []Block{{Cycles: 4}},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"loop without blocks", func(c *Config) { c.Loop = true; c.Blocks = nil }, false},
		{"zero work", func(c *Config) { c.Work = 0 }, true},
		{"negative break", func(c *Config) { c.Break = -time.Minute }, true},
		{"no blocks", func(c *Config) { c.Blocks = nil }, true},
		{"zero cycles", func(c *Config) { c.Blocks = []Block{{Cycles: 0}} }, true},
		{"negative major break", func(c *Config) { c.Blocks = []Block{{Cycles: 1, MajorBreak: -time.Minute}} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			c.Blocks = append([]Block(nil), valid.Blocks...)
			tt.mutate(&c)
			err := Validate(c)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
