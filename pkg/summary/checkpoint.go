package summary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/df07/go-loom/pkg/core"
)

// ErrBadCheckpoint is returned for files that are not summary checkpoints
var ErrBadCheckpoint = errors.New("not a valid summary checkpoint")

// checkpointMagic identifies the checkpoint format and its version
var checkpointMagic = [8]byte{'L', 'O', 'O', 'M', 'S', 'U', 'M', '1'}

// maxCheckpointPixels bounds allocations when reading a corrupt header
const maxCheckpointPixels = 1 << 28

type checkpointHeader struct {
	Magic   [8]byte
	Width   uint64
	Height  uint64
	Samples uint64
}

// WriteCheckpoint serializes the summary: a little-endian header followed by
// every pixel as three float64, bottom row first. Reading it back yields
// exactly the same numbers.
func (s *ImageSummary) WriteCheckpoint(w io.Writer) error {
	if err := s.checkShape(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	header := checkpointHeader{
		Magic:   checkpointMagic,
		Width:   uint64(s.Width),
		Height:  uint64(s.Height),
		Samples: uint64(s.Samples),
	}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing checkpoint header: %w", err)
	}

	buf := make([]byte, 24)
	for _, row := range s.Data {
		for _, pixel := range row {
			binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(pixel.X))
			binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(pixel.Y))
			binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(pixel.Z))
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("writing checkpoint data: %w", err)
			}
		}
	}
	return bw.Flush()
}

// ReadCheckpoint parses a summary written by WriteCheckpoint
func ReadCheckpoint(r io.Reader) (*ImageSummary, error) {
	br := bufio.NewReader(r)
	var header checkpointHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrBadCheckpoint, err)
	}
	if header.Magic != checkpointMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadCheckpoint, header.Magic[:])
	}
	if header.Width*header.Height > maxCheckpointPixels || header.Width > maxCheckpointPixels || header.Height > maxCheckpointPixels {
		return nil, fmt.Errorf("%w: implausible size %dx%d", ErrBadCheckpoint, header.Width, header.Height)
	}

	s := New(int(header.Width), int(header.Height))
	s.Samples = int(header.Samples)
	buf := make([]byte, 24)
	for y := range s.Data {
		for x := range s.Data[y] {
			if _, err := io.ReadFull(br, buf); err != nil {
				return nil, fmt.Errorf("%w: pixel (%d, %d): %v", ErrBadCheckpoint, x, y, err)
			}
			s.Data[y][x] = core.NewVec3(
				math.Float64frombits(binary.LittleEndian.Uint64(buf[0:])),
				math.Float64frombits(binary.LittleEndian.Uint64(buf[8:])),
				math.Float64frombits(binary.LittleEndian.Uint64(buf[16:])),
			)
		}
	}
	return s, nil
}

// Save writes a checkpoint file, replacing it atomically so an interrupted
// write never destroys the previous checkpoint
func (s *ImageSummary) Save(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating checkpoint: %w", err)
	}
	if err := s.WriteCheckpoint(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing checkpoint: %w", err)
	}
	return nil
}

// Load reads a checkpoint file
func Load(path string) (*ImageSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer f.Close()

	s, err := ReadCheckpoint(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
