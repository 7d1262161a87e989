// ABOUTME: Tests for clip decoding
// ABOUTME: Tests PCM unpacking, the synthesized tick and WAV load with resampling
package decode

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sendspin/hitsync-go/pkg/audio"
	"github.com/Sendspin/hitsync-go/pkg/audio/encode"
)

func TestPCM16Bit(t *testing.T) {
	// 0x0100 = 256 -> 256<<8, 0x0302 = 770 -> 770<<8
	samples, err := PCM([]byte{0x00, 0x01, 0x02, 0x03}, 16)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(samples) != 2 || samples[0] != 256<<8 || samples[1] != 770<<8 {
		t.Errorf("unexpected samples: %v", samples)
	}
}

func TestPCM24Bit(t *testing.T) {
	samples, err := PCM([]byte{0x56, 0x34, 0x12, 0x00, 0xFF, 0xFF}, 24)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(samples) != 2 || samples[0] != 0x123456 || samples[1] != -256 {
		t.Errorf("unexpected samples: %v", samples)
	}
}

func TestPCMUnsupportedDepth(t *testing.T) {
	if _, err := PCM([]byte{1, 2, 3, 4}, 32); err == nil {
		t.Error("expected error for 32-bit input")
	}
}

func TestTickPreroll(t *testing.T) {
	clip := Tick(48000, 0.1)

	if clip.Format.Channels != 1 || clip.Format.SampleRate != 48000 {
		t.Fatalf("unexpected format: %+v", clip.Format)
	}
	for i := 0; i < 4800; i++ {
		if clip.Samples[i] != 0 {
			t.Fatalf("expected silent pre-roll, sample %d = %d", i, clip.Samples[i])
		}
	}

	var peak int32
	for _, s := range clip.Samples[4800:] {
		if s > peak {
			peak = s
		}
	}
	if peak < audio.Max24Bit/4 || peak > audio.Max24Bit/2 {
		t.Errorf("unexpected tick peak %d", peak)
	}
}

func TestForFile(t *testing.T) {
	if d, err := ForFile("hit.MP3"); err != nil || d != (MP3{}) {
		t.Errorf("expected mp3 decoder, got %v %v", d, err)
	}
	if d, err := ForFile("a/b/hit.wav"); err != nil || d != (WAV{}) {
		t.Errorf("expected wav decoder, got %v %v", d, err)
	}
	if _, err := ForFile("hit.ogg"); err == nil {
		t.Error("expected error for ogg")
	}
}

func TestMP3RejectsGarbage(t *testing.T) {
	if _, err := (MP3{}).Decode(bytes.NewReader([]byte("not an mp3 stream"))); err == nil {
		t.Error("expected error for invalid mp3 data")
	}
}

func TestWAVRejectsGarbage(t *testing.T) {
	if _, err := (WAV{}).Decode(bytes.NewReader([]byte("RIFF????nope"))); err == nil {
		t.Error("expected error for invalid wav data")
	}
}

func writeStereoWAV(t *testing.T, rate, frames int) string {
	t.Helper()

	samples := make([]int32, frames*2)
	for i := 0; i < frames; i++ {
		samples[i*2] = 1000 << 8
		samples[i*2+1] = 3000 << 8
	}

	path := filepath.Join(t.TempDir(), "hit.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	clip := audio.Clip{Format: audio.Format{SampleRate: rate, Channels: 2}, Samples: samples}
	if err := encode.WriteWAV(f, clip, 16); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func TestLoadWAVFoldsToMono(t *testing.T) {
	path := writeStereoWAV(t, 48000, 480)

	clip, err := Load(path, 48000, 0)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if clip.Name != "hit.wav" || clip.Format.Channels != 1 {
		t.Errorf("unexpected clip: %s %+v", clip.Name, clip.Format)
	}
	if clip.Frames() != 480 {
		t.Errorf("expected 480 frames, got %d", clip.Frames())
	}
	if clip.Samples[10] != 2000<<8 {
		t.Errorf("expected averaged sample %d, got %d", 2000<<8, clip.Samples[10])
	}
}

func TestLoadResamples(t *testing.T) {
	path := writeStereoWAV(t, 24000, 2400)

	clip, err := Load(path, 48000, 0)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if clip.Format.SampleRate != 48000 {
		t.Errorf("expected 48000 Hz, got %d", clip.Format.SampleRate)
	}
	// linear interpolation stops one input frame short
	if n := clip.Frames(); n < 4790 || n > 4800 {
		t.Errorf("expected about 4800 frames, got %d", n)
	}
	if clip.Samples[100] != 2000<<8 {
		t.Errorf("expected constant signal preserved, got %d", clip.Samples[100])
	}
}

func TestLoadEmptyPathIsTick(t *testing.T) {
	clip, err := Load("", 44100, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Name != "tick" || clip.Format.SampleRate != 44100 {
		t.Errorf("expected synthesized tick, got %s %+v", clip.Name, clip.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.wav"), 48000, 0); err == nil {
		t.Error("expected error for missing file")
	}
}
