package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// LoadMP3 decodes an MP3 file to stereo 16-bit signed LE PCM at 44100 Hz.
// go-mp3 always emits stereo 16-bit LE; only the rate may need fixing.
func LoadMP3(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("mp3: decode %s: %w", path, err)
	}

	pcm, err := io.ReadAll(io.LimitReader(dec, maxWAVSize+1))
	if err != nil {
		return nil, fmt.Errorf("mp3: read %s: %w", path, err)
	}
	if len(pcm) > maxWAVSize {
		return nil, fmt.Errorf("mp3: decoded audio too large (max %d bytes)", maxWAVSize)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("mp3: no audio data in %s", path)
	}

	if rate := dec.SampleRate(); rate != SampleRate {
		numFrames := len(pcm) / 4
		samples := make([]float64, numFrames*2)
		for i := 0; i < numFrames*2; i++ {
			s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
			samples[i] = float64(s) / 32768.0
		}
		samples = resampleLinear(samples, rate, SampleRate)
		pcm = packStereo16(samples)
	}

	return pcm, nil
}
