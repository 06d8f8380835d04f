package summary

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-loom/pkg/core"
)

func TestCheckpoint_RoundTrip(t *testing.T) {
	s := randomSummary(9, 4, 3, 11)
	s.Data[2][3] = core.NewVec3(math.SmallestNonzeroFloat64, 1e300, -0.0)

	var buf bytes.Buffer
	if err := s.WriteCheckpoint(&buf); err != nil {
		t.Fatalf("WriteCheckpoint: %v", err)
	}
	if want := 32 + 9*4*24; buf.Len() != want {
		t.Errorf("checkpoint is %d bytes, want %d", buf.Len(), want)
	}

	got, err := ReadCheckpoint(&buf)
	if err != nil {
		t.Fatalf("ReadCheckpoint: %v", err)
	}
	summariesClose(t, got, s, 0)
}

func TestCheckpoint_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.ckpt")
	s := randomSummary(4, 3, 2, 7)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Overwriting an existing checkpoint replaces it
	s.CompletePass()
	if err := s.Save(path); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	summariesClose(t, got, s, 0)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.ckpt")); err == nil {
		t.Error("expected error loading a missing file")
	}
}

func TestCheckpoint_Invalid(t *testing.T) {
	var valid bytes.Buffer
	if err := randomSummary(2, 2, 1, 1).WriteCheckpoint(&valid); err != nil {
		t.Fatalf("WriteCheckpoint: %v", err)
	}
	badMagic := append([]byte(nil), valid.Bytes()...)
	badMagic[0] = 'X'

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", badMagic},
		{"short header", valid.Bytes()[:20]},
		{"truncated data", valid.Bytes()[:valid.Len()-5]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCheckpoint(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrBadCheckpoint) {
				t.Errorf("err = %v, want ErrBadCheckpoint", err)
			}
		})
	}
}
