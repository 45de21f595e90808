package audio

const (
	// CPUFrequency is the DMG master clock in T-cycles per second.
	CPUFrequency = 4194304

	// SampleRate is the host audio rate the mixer downsamples to.
	SampleRate = 44100

	// cyclesPerSample is the fractional number of T-cycles per host sample.
	cyclesPerSample = float64(CPUFrequency) / float64(SampleRate)

	// sequencerDivBit is the divider counter bit whose falling edge clocks
	// the 512 Hz frame sequencer.
	sequencerDivBit = 12

	waveRAMSize = 16

	// ringCapacity bounds the sample ring (stereo frames). The producer
	// stops pushing when it is full, dropped audio is expected behavior.
	ringCapacity = 16384
)
