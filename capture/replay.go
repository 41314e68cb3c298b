package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// A recording is a CBOR sequence: one recordingHeader followed by
// frameRecords in capture order.
type recordingHeader struct {
	Magic   string `cbor:"magic"`
	Session string `cbor:"session"`
	Created int64  `cbor:"created"` // unix nanoseconds
	// Mirrored is set when the recorded frames were already flipped
	// horizontally by the capture that produced them.
	Mirrored bool `cbor:"mirrored"`
}

type frameRecord struct {
	Seq    uint64        `cbor:"seq"`
	Offset time.Duration `cbor:"t"` // since the first recorded frame
	Width  int           `cbor:"w"`
	Height int           `cbor:"h"`
	Pixels []byte        `cbor:"rgb"`
}

const recordingMagic = "camterm-frames/1"

// Recorder appends frames to a CBOR recording that ReplayDriver can play
// back. Frames already recorded (same Seq) are skipped, so it can be fed
// from a render loop that sees the same frame more than once.
type Recorder struct {
	mu      sync.Mutex
	enc     *cbor.Encoder
	first   time.Time
	lastSeq uint64
	count   int
}

// NewRecorder writes the recording header to w. mirrored records whether the
// frames fed to Record are already flipped horizontally.
func NewRecorder(w io.Writer, session string, mirrored bool) (*Recorder, error) {
	enc := cbor.NewEncoder(w)
	hdr := recordingHeader{
		Magic:    recordingMagic,
		Session:  session,
		Created:  time.Now().UnixNano(),
		Mirrored: mirrored,
	}
	if err := enc.Encode(hdr); err != nil {
		return nil, fmt.Errorf("write recording header: %w", err)
	}
	return &Recorder{enc: enc}, nil
}

// Record appends f unless it was the last frame recorded.
func (r *Recorder) Record(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count > 0 && f.Seq == r.lastSeq {
		return nil
	}
	if r.count == 0 {
		r.first = f.Timestamp
	}
	rec := frameRecord{
		Seq:    f.Seq,
		Offset: f.Timestamp.Sub(r.first),
		Width:  f.Width,
		Height: f.Height,
		Pixels: f.Pixels,
	}
	if err := r.enc.Encode(rec); err != nil {
		return fmt.Errorf("write frame %d: %w", f.Seq, err)
	}
	r.lastSeq = f.Seq
	r.count++
	return nil
}

// Frames returns how many frames have been written.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// ReplayDriver plays a recording back as camera 0, looping at the end and
// keeping the recorded frame timing. Its devices report the recorded mirror
// state, so Capture only flips frames whose orientation differs from the
// one requested.
type ReplayDriver struct {
	Path string
}

// Devices reports the recording as device 0.
func (d *ReplayDriver) Devices() ([]DeviceInfo, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	hdr, err := readHeader(cbor.NewDecoder(f))
	if err != nil {
		return nil, err
	}
	return []DeviceInfo{{Index: 0, Name: filepath.Base(d.Path), Description: "recording " + hdr.Session}}, nil
}

// Open opens the recording. The format request is ignored; frames play at
// their recorded size.
func (d *ReplayDriver) Open(index int, req FormatRequest) (Device, error) {
	if index != 0 {
		return nil, fmt.Errorf("recording has no device %d", index)
	}
	dev := &replayDevice{path: d.Path}
	if err := dev.rewind(); err != nil {
		return nil, err
	}
	first, err := dev.next()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("read first frame: %w", err)
	}
	dev.pending = first
	dev.fmt = Format{Width: first.Width, Height: first.Height, FPS: req.FPS}
	return dev, nil
}

func readHeader(dec *cbor.Decoder) (recordingHeader, error) {
	var hdr recordingHeader
	if err := dec.Decode(&hdr); err != nil {
		return hdr, fmt.Errorf("read recording header: %w", err)
	}
	if hdr.Magic != recordingMagic {
		return hdr, fmt.Errorf("not a frame recording (magic %q)", hdr.Magic)
	}
	return hdr, nil
}

type replayDevice struct {
	path    string
	f       *os.File
	dec     *cbor.Decoder
	start   time.Time
	pending *frameRecord
	fmt     Format

	mirrored bool
}

// rewind reopens the recording at its first frame.
func (d *replayDevice) rewind() error {
	if d.f != nil {
		d.f.Close()
	}
	f, err := os.Open(d.path)
	if err != nil {
		return err
	}
	dec := cbor.NewDecoder(f)
	hdr, err := readHeader(dec)
	if err != nil {
		f.Close()
		return err
	}
	d.f, d.dec = f, dec
	d.mirrored = hdr.Mirrored
	d.start = time.Now()
	return nil
}

func (d *replayDevice) next() (*frameRecord, error) {
	var rec frameRecord
	err := d.dec.Decode(&rec)
	if errors.Is(err, io.EOF) {
		if err := d.rewind(); err != nil {
			return nil, err
		}
		err = d.dec.Decode(&rec)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (d *replayDevice) StartStream() error {
	d.start = time.Now()
	return nil
}

// Capture returns the next frame once its recorded offset has elapsed.
func (d *replayDevice) Capture() (RawFrame, error) {
	if d.pending == nil {
		rec, err := d.next()
		if err != nil {
			return RawFrame{}, err
		}
		d.pending = rec
	}
	if time.Since(d.start) < d.pending.Offset {
		return RawFrame{}, ErrNoFrame
	}
	rec := d.pending
	d.pending = nil
	return RawFrame{Format: FormatRGB24, Width: rec.Width, Height: rec.Height, Data: rec.Pixels}, nil
}

func (d *replayDevice) Format() Format    { return d.fmt }
func (d *replayDevice) StopStream() error { return nil }
func (d *replayDevice) Mirrored() bool    { return d.mirrored }

func (d *replayDevice) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}
