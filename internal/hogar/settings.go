package hogar

// TextSize is the quick text size choice.
type TextSize string

// Contrast is the quick contrast choice.
type Contrast string

const (
	TextNormal TextSize = "normal"
	TextLarge  TextSize = "large"

	ContrastNormal Contrast = "normal"
	ContrastHigh   Contrast = "high"
)

const volumeStep = 10

// Settings are the simplified mode accessibility options.
type Settings struct {
	TextSize TextSize `json:"textSize"`
	Contrast Contrast `json:"contrast"`
	Volume   int      `json:"volume"`
}

// DefaultSettings is normal text, normal contrast, volume 50.
func DefaultSettings() Settings {
	return Settings{TextSize: TextNormal, Contrast: ContrastNormal, Volume: 50}
}

// VolumeUp raises the volume by one step, capped at 100.
func (s *Settings) VolumeUp() int {
	s.Volume = min(100, s.Volume+volumeStep)
	return s.Volume
}

// VolumeDown lowers the volume by one step, floored at 0.
func (s *Settings) VolumeDown() int {
	s.Volume = max(0, s.Volume-volumeStep)
	return s.Volume
}

// ToggleTextSize switches between normal and large text.
func (s *Settings) ToggleTextSize() TextSize {
	if s.TextSize == TextLarge {
		s.TextSize = TextNormal
	} else {
		s.TextSize = TextLarge
	}
	return s.TextSize
}

// ToggleContrast switches between normal and high contrast.
func (s *Settings) ToggleContrast() Contrast {
	if s.Contrast == ContrastHigh {
		s.Contrast = ContrastNormal
	} else {
		s.Contrast = ContrastHigh
	}
	return s.Contrast
}
