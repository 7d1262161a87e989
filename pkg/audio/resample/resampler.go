// ABOUTME: Linear resampler for bringing hitsound clips to the output rate
// ABOUTME: Interpolates interleaved frames, carrying the last frame across chunks
package resample

// Resampler converts interleaved int32 audio between sample rates
type Resampler struct {
	channels int
	ratio    float64 // input frames per output frame
	position float64 // read position relative to the current chunk
	prev     []int32 // last frame of the previous chunk
	primed   bool
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		channels: channels,
		ratio:    float64(inputRate) / float64(outputRate),
		prev:     make([]int32, channels),
	}
}

// frame returns sample ch of input frame i, where -1 is the carried frame
func (r *Resampler) frame(input []int32, i, ch int) int32 {
	if i < 0 {
		return r.prev[ch]
	}
	return input[i*r.channels+ch]
}

// Resample writes as many output frames as the input covers and returns
// the number of samples written. Successive calls continue seamlessly.
func (r *Resampler) Resample(input []int32, output []int32) int {
	frames := len(input) / r.channels
	if frames == 0 {
		return 0
	}

	// Without a carried frame the first interpolation pair is frames 0 and 1
	first := -1
	if !r.primed {
		first = 0
	}

	out := 0
	for out < len(output)/r.channels {
		idx := int(r.position) + first
		if idx+1 >= frames {
			break
		}
		frac := r.position - float64(int(r.position))

		for ch := 0; ch < r.channels; ch++ {
			a := float64(r.frame(input, idx, ch))
			b := float64(r.frame(input, idx+1, ch))
			output[out*r.channels+ch] = int32(a*(1-frac) + b*frac)
		}

		out++
		r.position += r.ratio
	}

	// Rebase so the last input frame becomes the carried frame
	consumed := float64(frames - 1 - first)
	r.position -= consumed
	if r.position < 0 {
		r.position = 0
	}
	copy(r.prev, input[(frames-1)*r.channels:])
	r.primed = true

	return out * r.channels
}

// Reset forgets the carried frame and read position
func (r *Resampler) Reset() {
	r.position = 0
	r.primed = false
	for i := range r.prev {
		r.prev[i] = 0
	}
}

// OutputSamplesNeeded returns an output size large enough for inputSamples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	frames := int(float64(inputSamples/r.channels)/r.ratio) + 1
	return frames * r.channels
}
